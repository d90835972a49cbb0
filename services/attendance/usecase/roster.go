package usecase

import (
	"attendance/domain"
	"context"
	"time"
)

type rosterUC struct {
	repo    domain.RosterRepo
	TimeOut time.Duration
}

func NewRosterUseCase(repo domain.RosterRepo, timeOut time.Duration) domain.RosterUseCase {
	return &rosterUC{
		repo:    repo,
		TimeOut: timeOut,
	}
}

func (ruc *rosterUC) GetAllStudent(ctx context.Context) (*[]domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, ruc.TimeOut)
	defer cancel()

	return ruc.repo.GetAllStudent(ctx)
}

func (ruc *rosterUC) GetAllClass(ctx context.Context) (*[]domain.Class, error) {
	ctx, cancel := context.WithTimeout(ctx, ruc.TimeOut)
	defer cancel()

	return ruc.repo.GetAllClass(ctx)
}
