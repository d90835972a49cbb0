package view

import (
	"attendance/domain"
	"errors"
	"testing"
)

func TestBuildMarkPayload(t *testing.T) {
	payload, err := BuildMarkPayload(domain.MarkDraft{
		StudentID: "7",
		ClassID:   " 3 ",
		Date:      "2024-03-01",
		TimeIn:    "07:55:00",
		Remarks:   "bus was late",
	})
	if err != nil {
		t.Fatalf("BuildMarkPayload: %v", err)
	}

	if payload.StudentID != 7 || payload.ClassID != 3 || payload.Date != "2024-03-01" {
		t.Fatalf("ids/date = %+v", payload)
	}
	if payload.Status != domain.StatusPresent {
		t.Fatalf("status = %q, want default present", payload.Status)
	}
	if payload.TimeIn == nil || *payload.TimeIn != "07:55:00" {
		t.Fatalf("timeIn = %v", payload.TimeIn)
	}
	if payload.TimeOut != nil {
		t.Fatalf("timeOut = %v, want nil", *payload.TimeOut)
	}
	if payload.Remarks != "bus was late" {
		t.Fatalf("remarks = %q", payload.Remarks)
	}
}

func TestBuildMarkPayloadKeepsEnteredTimesForAbsent(t *testing.T) {
	payload, err := BuildMarkPayload(domain.MarkDraft{
		StudentID: "7", ClassID: "3", Date: "2024-03-01", Status: "absent", TimeIn: "08:00:00", TimeOut: "15:00:00",
	})
	if err != nil {
		t.Fatalf("BuildMarkPayload: %v", err)
	}
	if payload.TimeIn == nil || payload.TimeOut == nil {
		t.Fatal("single path must pass entered times through")
	}
}

func TestBuildMarkPayloadErrors(t *testing.T) {
	valid := domain.MarkDraft{StudentID: "7", ClassID: "3", Date: "2024-03-01", Status: "late"}

	tests := []struct {
		name   string
		mutate func(*domain.MarkDraft)
		want   error
	}{
		{"missing student", func(d *domain.MarkDraft) { d.StudentID = "" }, ErrMissingField},
		{"missing class", func(d *domain.MarkDraft) { d.ClassID = "  " }, ErrMissingField},
		{"missing date", func(d *domain.MarkDraft) { d.Date = "" }, ErrMissingField},
		{"non numeric student", func(d *domain.MarkDraft) { d.StudentID = "abc" }, ErrInvalidID},
		{"fractional class", func(d *domain.MarkDraft) { d.ClassID = "3.5" }, ErrInvalidID},
		{"zero student", func(d *domain.MarkDraft) { d.StudentID = "0" }, ErrInvalidID},
		{"bad date", func(d *domain.MarkDraft) { d.Date = "01/03/2024" }, domain.ErrInvalidDate},
		{"bad status", func(d *domain.MarkDraft) { d.Status = "excused" }, domain.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if _, err := BuildMarkPayload(d); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildBulkPayload(t *testing.T) {
	draft := domain.BulkDraft{
		9: {Status: domain.StatusAbsent, Remarks: "sick"},
		7: {Status: domain.StatusPresent, Remarks: ""},
	}

	payload, err := BuildBulkPayload(draft, "3", "2024-03-01", domain.DefaultSession)
	if err != nil {
		t.Fatalf("BuildBulkPayload: %v", err)
	}
	rows := payload.AttendanceRecords
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	first, second := rows[0], rows[1]
	if first.StudentID != 7 || first.ClassID != 3 || first.Date != "2024-03-01" {
		t.Fatalf("first row = %+v", first)
	}
	if first.TimeIn == nil || *first.TimeIn != "08:00:00" || first.TimeOut == nil || *first.TimeOut != "15:00:00" {
		t.Fatalf("first row times = %v %v", first.TimeIn, first.TimeOut)
	}
	if second.StudentID != 9 || second.TimeIn != nil || second.TimeOut != nil || second.Remarks != "sick" {
		t.Fatalf("second row = %+v", second)
	}
}

func TestBuildBulkPayloadUsesSessionNotInput(t *testing.T) {
	session := domain.Session{TimeIn: "07:30:00", TimeOut: "13:30:00"}
	draft := domain.BulkDraft{
		1: {Status: domain.StatusLate},
		2: {},
	}

	payload, err := BuildBulkPayload(draft, "3", "2024-03-01", session)
	if err != nil {
		t.Fatalf("BuildBulkPayload: %v", err)
	}
	for _, row := range payload.AttendanceRecords {
		if *row.TimeIn != session.TimeIn || *row.TimeOut != session.TimeOut {
			t.Fatalf("row %d times = %s/%s", row.StudentID, *row.TimeIn, *row.TimeOut)
		}
	}
	if got := payload.AttendanceRecords[1].Status; got != domain.StatusPresent {
		t.Fatalf("untouched status = %q, want present", got)
	}
	if got := payload.AttendanceRecords[1].Remarks; got != "" {
		t.Fatalf("untouched remarks = %q", got)
	}
}

func TestBuildBulkPayloadErrors(t *testing.T) {
	one := domain.BulkDraft{7: {Status: domain.StatusPresent}}

	tests := []struct {
		name    string
		draft   domain.BulkDraft
		classID string
		date    string
		want    error
	}{
		{"empty draft", domain.BulkDraft{}, "3", "2024-03-01", ErrNothingToSubmit},
		{"nil draft", nil, "", "", ErrNothingToSubmit},
		{"no class", one, "", "2024-03-01", ErrMissingField},
		{"bad class", one, "x", "2024-03-01", ErrInvalidID},
		{"bad date", one, "3", "March 1", domain.ErrInvalidDate},
		{"bad status", domain.BulkDraft{7: {Status: "excused"}}, "3", "2024-03-01", domain.ErrInvalidStatus},
		{"bad student", domain.BulkDraft{0: {}}, "3", "2024-03-01", ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildBulkPayload(tt.draft, tt.classID, tt.date, domain.DefaultSession); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
