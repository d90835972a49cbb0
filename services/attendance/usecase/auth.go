package usecase

import (
	"attendance/domain"
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type authUC struct {
	userRepo domain.UserRepo
	TimeOut  time.Duration
}

func NewAuthUseCase(repo domain.UserRepo, timeOut time.Duration) domain.AuthUseCase {
	return &authUC{
		userRepo: repo,
		TimeOut:  timeOut,
	}
}

func (auc *authUC) Login(ctx context.Context, data *domain.LoginRequest) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	user, err := auc.userRepo.FindUserByUsername(ctx, data.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(data.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
