package domain

import (
	"context"
	"time"
)

type Class struct {
	ClassID   int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name" valid:"required~Name is required"`
	Grade     int       `gorm:"not null" json:"grade" valid:"required~Grade is required"`
	Division  string    `gorm:"type:varchar(5);not null" json:"division" valid:"required~Division is required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Student.Class holds the class display name, not its id. Rosters are joined
// on Class.Name.
type Student struct {
	StudentID  int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"type:varchar(150);not null" json:"name" valid:"required~Name is required"`
	Class      string    `gorm:"type:varchar(50);not null;index" json:"class" valid:"required~Class is required"`
	RollNumber string    `gorm:"type:varchar(20)" json:"rollNumber"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

type RosterRepo interface {
	GetAllStudent(ctx context.Context) (*[]Student, error)
	GetAllClass(ctx context.Context) (*[]Class, error)
}

type RosterUseCase interface {
	GetAllStudent(ctx context.Context) (*[]Student, error)
	GetAllClass(ctx context.Context) (*[]Class, error)
}
