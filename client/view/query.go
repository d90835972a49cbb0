package view

import (
	"attendance/domain"
	"strconv"
	"strings"
)

// RosterForClass returns the students of the selected class, in input order.
// Students only carry the class display name, so the join is on Class.Name; two
// classes sharing a name yield a merged roster.
func RosterForClass(students []domain.Student, classes []domain.Class, selectedClassID string) []domain.Student {
	roster := []domain.Student{}

	id, err := strconv.Atoi(strings.TrimSpace(selectedClassID))
	if err != nil {
		return roster
	}

	name, found := "", false
	for _, class := range classes {
		if class.ClassID == id {
			name, found = class.Name, true
			break
		}
	}
	if !found {
		return roster
	}

	for _, student := range students {
		if student.Class == name {
			roster = append(roster, student)
		}
	}
	return roster
}

// UnmarkedStudents returns the roster students with no record in records,
// keeping roster order and dropping repeated ids.
func UnmarkedStudents(roster []domain.Student, records []domain.AttendanceRecord) []domain.Student {
	marked := make(map[int]struct{}, len(records))
	for _, record := range records {
		marked[record.StudentID] = struct{}{}
	}

	unmarked := []domain.Student{}
	seen := make(map[int]struct{}, len(roster))
	for _, student := range roster {
		if _, ok := marked[student.StudentID]; ok {
			continue
		}
		if _, ok := seen[student.StudentID]; ok {
			continue
		}
		seen[student.StudentID] = struct{}{}
		unmarked = append(unmarked, student)
	}
	return unmarked
}
