package repository

import (
	"attendance/domain"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(database *gorm.DB) domain.AttendanceRepo {
	return &attendanceRepository{
		db: database,
	}
}

func (ar *attendanceRepository) scoped(ctx context.Context, filter domain.AttendanceFilter) *gorm.DB {
	tx := ar.db.WithContext(ctx).Model(&domain.Attendance{})
	if filter.Date != "" {
		tx = tx.Where("date = ?", filter.Date)
	}
	if filter.ClassID != 0 {
		tx = tx.Where("class_id = ?", filter.ClassID)
	}
	return tx
}

func (ar *attendanceRepository) GetAttendance(ctx context.Context, filter domain.AttendanceFilter) (*[]domain.Attendance, error) {
	var rows []domain.Attendance

	err := ar.scoped(ctx, filter).
		Preload("Student").
		Preload("Class").
		Order("created_at ASC, attendance_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get attendance records: %w", err)
	}

	return &rows, nil
}

// statusTotal is one row of the status group-by.
type statusTotal struct {
	Status domain.Status
	Total  int
}

func (ar *attendanceRepository) CountByStatus(ctx context.Context, filter domain.AttendanceFilter) (*domain.StatusCounts, error) {
	var groups []statusTotal

	err := ar.scoped(ctx, filter).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("could not count attendance by status: %w", err)
	}

	counts := countsFromGroups(groups)
	return &counts, nil
}

// countsFromGroups folds group-by rows into counters. Unknown statuses are
// ignored.
func countsFromGroups(groups []statusTotal) domain.StatusCounts {
	var counts domain.StatusCounts
	for _, g := range groups {
		switch g.Status {
		case domain.StatusPresent:
			counts.Present += g.Total
		case domain.StatusAbsent:
			counts.Absent += g.Total
		case domain.StatusLate:
			counts.Late += g.Total
		}
	}
	return counts
}

func (ar *attendanceRepository) CreateAttendance(ctx context.Context, data *domain.Attendance) error {
	return ar.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertAttendance(tx, data); err != nil {
			return err
		}
		return tx.Preload("Student").Preload("Class").First(data, data.AttendanceID).Error
	})
}

// CreateAttendanceBulk inserts every row or none.
func (ar *attendanceRepository) CreateAttendanceBulk(ctx context.Context, datas *[]domain.Attendance) error {
	return ar.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range *datas {
			if err := insertAttendance(tx, &(*datas)[i]); err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
}

func insertAttendance(tx *gorm.DB, data *domain.Attendance) error {
	if err := ensureExists(tx, &domain.Student{}, data.StudentID, "student"); err != nil {
		return err
	}
	if err := ensureExists(tx, &domain.Class{}, data.ClassID, "class"); err != nil {
		return err
	}

	return insertError(tx.Omit("Student", "Class").Create(data).Error)
}

// insertError maps a unique violation on (student, date) to ErrDuplicateRecord.
func insertError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateRecord
	}
	return fmt.Errorf("could not insert attendance: %w", err)
}

func ensureExists(tx *gorm.DB, model interface{}, id int, label string) error {
	err := tx.First(model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, label, id)
	}
	if err != nil {
		return fmt.Errorf("could not look up %s %d: %w", label, id, err)
	}
	return nil
}
