package repository

import (
	"attendance/domain"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(database *gorm.DB) domain.RosterRepo {
	return &rosterRepository{
		db: database,
	}
}

func (rr *rosterRepository) GetAllStudent(ctx context.Context) (*[]domain.Student, error) {
	var students []domain.Student
	if err := rr.db.WithContext(ctx).Order("class ASC, roll_number ASC, student_id ASC").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve students: %w", err)
	}
	return &students, nil
}

func (rr *rosterRepository) GetAllClass(ctx context.Context) (*[]domain.Class, error) {
	var classes []domain.Class
	if err := rr.db.WithContext(ctx).Order("grade ASC, division ASC").Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve classes: %w", err)
	}
	return &classes, nil
}
