package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

var (
	ErrInvalidStatus   = errors.New("status must be one of present, absent, late")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrNotFound        = errors.New("not found")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
)

// Valid reports whether s is one of the three attendance statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	default:
		return false
	}
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}

// Attendance is the stored row. One row per (student, date) is enforced by
// the unique index.
type Attendance struct {
	AttendanceID int       `gorm:"primaryKey;autoIncrement" json:"attendance_id"`
	StudentID    int       `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"student_id"`
	Student      Student   `gorm:"foreignKey:StudentID;references:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	ClassID      int       `gorm:"not null;index" json:"class_id"`
	Class        Class     `gorm:"foreignKey:ClassID;references:ClassID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"class"`
	Date         string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_student_date;index" json:"date"`
	Status       Status    `gorm:"type:varchar(10);not null" json:"status"`
	TimeIn       *string   `gorm:"type:varchar(8)" json:"time_in"`
	TimeOut      *string   `gorm:"type:varchar(8)" json:"time_out"`
	Remarks      string    `gorm:"type:text;not null;default:''" json:"remarks"`
	MarkedBy     string    `gorm:"type:varchar(100);not null" json:"marked_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AttendanceRecord is the flattened shape served to and consumed by clients.
type AttendanceRecord struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"studentId"`
	StudentName string    `json:"studentName"`
	ClassID     int       `json:"classId"`
	ClassName   string    `json:"className"`
	Date        string    `json:"date"`
	Status      Status    `json:"status"`
	TimeIn      *string   `json:"timeIn"`
	TimeOut     *string   `json:"timeOut"`
	Remarks     string    `json:"remarks"`
	MarkedBy    string    `json:"markedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a *Attendance) Record() AttendanceRecord {
	return AttendanceRecord{
		ID:          a.AttendanceID,
		StudentID:   a.StudentID,
		StudentName: a.Student.Name,
		ClassID:     a.ClassID,
		ClassName:   a.Class.Name,
		Date:        a.Date,
		Status:      a.Status,
		TimeIn:      a.TimeIn,
		TimeOut:     a.TimeOut,
		Remarks:     a.Remarks,
		MarkedBy:    a.MarkedBy,
		CreatedAt:   a.CreatedAt,
	}
}

type AttendanceSummary struct {
	TotalRecords   int    `json:"totalRecords"`
	PresentCount   int    `json:"presentCount"`
	AbsentCount    int    `json:"absentCount"`
	LateCount      int    `json:"lateCount"`
	AttendanceRate string `json:"attendanceRate"`
	AbsenteeRate   string `json:"absenteeRate"`
}

// AttendanceFilter scopes listing and summary queries. ClassID 0 means all classes.
type AttendanceFilter struct {
	Date    string
	ClassID int
}

// StatusCounts is the raw aggregate the summary is computed from.
type StatusCounts struct {
	Present int
	Absent  int
	Late    int
}

// MarkPayload is the body of POST /attendance and one element of a bulk batch.
type MarkPayload struct {
	StudentID int     `json:"studentId" valid:"required~Student ID is required"`
	ClassID   int     `json:"classId" valid:"required~Class ID is required"`
	Date      string  `json:"date" valid:"required~Date is required"`
	Status    Status  `json:"status" valid:"required~Status is required,in(present|absent|late)~Invalid status"`
	TimeIn    *string `json:"timeIn"`
	TimeOut   *string `json:"timeOut"`
	Remarks   string  `json:"remarks"`
}

type BulkPayload struct {
	AttendanceRecords []MarkPayload `json:"attendanceRecords"`
}

type BulkResult struct {
	Created int `json:"created"`
}

type AttendanceRepo interface {
	GetAttendance(ctx context.Context, filter AttendanceFilter) (*[]Attendance, error)
	CountByStatus(ctx context.Context, filter AttendanceFilter) (*StatusCounts, error)
	CreateAttendance(ctx context.Context, data *Attendance) error
	CreateAttendanceBulk(ctx context.Context, datas *[]Attendance) error
}

type AttendanceUseCase interface {
	GetAttendance(ctx context.Context, filter AttendanceFilter) (*[]AttendanceRecord, error)
	GetSummary(ctx context.Context, filter AttendanceFilter) (*AttendanceSummary, error)
	MarkAttendance(ctx context.Context, payload *MarkPayload, markedBy string) (*AttendanceRecord, error)
	MarkAttendanceBulk(ctx context.Context, payload *BulkPayload, markedBy string) (*BulkResult, error)
}

// AttendanceGateway is the remote API as seen by the view.
type AttendanceGateway interface {
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, error)
	GetSummary(ctx context.Context, filter AttendanceFilter) (*AttendanceSummary, error)
	ListStudents(ctx context.Context) ([]Student, error)
	ListClasses(ctx context.Context) ([]Class, error)
	CreateAttendance(ctx context.Context, payload MarkPayload) (*AttendanceRecord, error)
	CreateAttendanceBulk(ctx context.Context, payload BulkPayload) (*BulkResult, error)
}
