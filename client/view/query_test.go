package view

import (
	"attendance/domain"
	"reflect"
	"testing"
)

var (
	testClasses = []domain.Class{
		{ClassID: 3, Name: "7A", Grade: 7, Division: "A"},
		{ClassID: 4, Name: "7B", Grade: 7, Division: "B"},
	}
	testStudents = []domain.Student{
		{StudentID: 1, Name: "Ayu", Class: "7A", RollNumber: "01"},
		{StudentID: 2, Name: "Budi", Class: "7A", RollNumber: "02"},
		{StudentID: 5, Name: "Citra", Class: "7B", RollNumber: "01"},
		{StudentID: 6, Name: "Dewi", Class: "7A", RollNumber: "03"},
	}
)

func ids(students []domain.Student) []int {
	out := []int{}
	for _, s := range students {
		out = append(out, s.StudentID)
	}
	return out
}

func TestRosterForClass(t *testing.T) {
	tests := []struct {
		name    string
		classID string
		want    []int
	}{
		{"no class selected", "", []int{}},
		{"not a number", "seven", []int{}},
		{"unknown class", "99", []int{}},
		{"class 7A", "3", []int{1, 2, 6}},
		{"class 7B", "4", []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RosterForClass(testStudents, testClasses, tt.classID)
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Fatalf("RosterForClass(%q) = %v, want %v", tt.classID, ids(got), tt.want)
			}
		})
	}
}

func TestRosterForClassJoinsOnName(t *testing.T) {
	classes := append([]domain.Class{}, testClasses...)
	classes = append(classes, domain.Class{ClassID: 8, Name: "7A", Grade: 8, Division: "A"})

	got := RosterForClass(testStudents, classes, "8")
	if !reflect.DeepEqual(ids(got), []int{1, 2, 6}) {
		t.Fatalf("shared name roster = %v", ids(got))
	}
}

func TestUnmarkedStudents(t *testing.T) {
	roster := []domain.Student{{StudentID: 1, Name: "Ayu"}, {StudentID: 2, Name: "Budi"}}
	records := []domain.AttendanceRecord{{StudentID: 1, Date: "2024-03-01", ClassID: 3}}

	got := UnmarkedStudents(roster, records)
	if !reflect.DeepEqual(ids(got), []int{2}) {
		t.Fatalf("UnmarkedStudents = %v, want [2]", ids(got))
	}
}

func TestUnmarkedStudentsOrderAndDuplicates(t *testing.T) {
	roster := []domain.Student{
		{StudentID: 9}, {StudentID: 3}, {StudentID: 9}, {StudentID: 4}, {StudentID: 1},
	}
	records := []domain.AttendanceRecord{{StudentID: 4}, {StudentID: 4}, {StudentID: 42}}

	got := UnmarkedStudents(roster, records)
	want := []int{9, 3, 1}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("UnmarkedStudents = %v, want %v", ids(got), want)
	}

	again := UnmarkedStudents(got, records)
	if !reflect.DeepEqual(ids(again), want) {
		t.Fatalf("second pass = %v, want %v", ids(again), want)
	}
}

func TestNoClassSelectedYieldsEmptyViews(t *testing.T) {
	roster := RosterForClass(testStudents, testClasses, "")
	if len(roster) != 0 {
		t.Fatalf("roster = %v", ids(roster))
	}
	if got := UnmarkedStudents(roster, []domain.AttendanceRecord{{StudentID: 1}}); len(got) != 0 {
		t.Fatalf("unmarked = %v", ids(got))
	}
}
