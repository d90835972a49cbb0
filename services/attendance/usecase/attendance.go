package usecase

import (
	"attendance/domain"
	"context"
	"fmt"
	"time"
)

type attendanceUC struct {
	repo    domain.AttendanceRepo
	TimeOut time.Duration
}

func NewAttendanceUseCase(repo domain.AttendanceRepo, timeOut time.Duration) domain.AttendanceUseCase {
	return &attendanceUC{
		repo:    repo,
		TimeOut: timeOut,
	}
}

func (auc *attendanceUC) GetAttendance(ctx context.Context, filter domain.AttendanceFilter) (*[]domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	if err := checkDate(filter.Date); err != nil {
		return nil, err
	}

	rows, err := auc.repo.GetAttendance(ctx, filter)
	if err != nil {
		return nil, err
	}

	records := make([]domain.AttendanceRecord, 0, len(*rows))
	for i := range *rows {
		records = append(records, (*rows)[i].Record())
	}
	return &records, nil
}

func (auc *attendanceUC) GetSummary(ctx context.Context, filter domain.AttendanceFilter) (*domain.AttendanceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	if err := checkDate(filter.Date); err != nil {
		return nil, err
	}

	counts, err := auc.repo.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := Summarize(*counts)
	return &summary, nil
}

// Summarize turns raw counts into the summary snapshot. Late students count as
// attending.
func Summarize(counts domain.StatusCounts) domain.AttendanceSummary {
	total := counts.Present + counts.Absent + counts.Late
	return domain.AttendanceSummary{
		TotalRecords:   total,
		PresentCount:   counts.Present,
		AbsentCount:    counts.Absent,
		LateCount:      counts.Late,
		AttendanceRate: percent(counts.Present+counts.Late, total),
		AbsenteeRate:   percent(counts.Absent, total),
	}
}

func percent(part, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(part)*100/float64(total))
}

func (auc *attendanceUC) MarkAttendance(ctx context.Context, payload *domain.MarkPayload, markedBy string) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	row, err := toAttendance(payload, markedBy)
	if err != nil {
		return nil, err
	}

	if err := auc.repo.CreateAttendance(ctx, row); err != nil {
		return nil, err
	}

	record := row.Record()
	return &record, nil
}

func (auc *attendanceUC) MarkAttendanceBulk(ctx context.Context, payload *domain.BulkPayload, markedBy string) (*domain.BulkResult, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	if len(payload.AttendanceRecords) == 0 {
		return nil, ErrEmptyBatch
	}

	rows := make([]domain.Attendance, 0, len(payload.AttendanceRecords))
	for i := range payload.AttendanceRecords {
		row, err := toAttendance(&payload.AttendanceRecords[i], markedBy)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, *row)
	}

	if err := auc.repo.CreateAttendanceBulk(ctx, &rows); err != nil {
		return nil, err
	}

	return &domain.BulkResult{Created: len(rows)}, nil
}

func toAttendance(payload *domain.MarkPayload, markedBy string) (*domain.Attendance, error) {
	if err := checkDate(payload.Date); err != nil {
		return nil, err
	}
	if !payload.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, payload.Status)
	}

	row := &domain.Attendance{
		StudentID: payload.StudentID,
		ClassID:   payload.ClassID,
		Date:      payload.Date,
		Status:    payload.Status,
		TimeIn:    payload.TimeIn,
		TimeOut:   payload.TimeOut,
		Remarks:   payload.Remarks,
		MarkedBy:  markedBy,
	}
	// absent rows never carry times
	if row.Status == domain.StatusAbsent {
		row.TimeIn = nil
		row.TimeOut = nil
	}
	return row, nil
}

func checkDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDate, date)
	}
	return nil
}
