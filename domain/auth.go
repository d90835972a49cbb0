package domain

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	UserID    int       `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username  string    `gorm:"type:varchar(100);not null;unique" json:"username"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:role_enum;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username" valid:"required~Username is required"`
	Password string `json:"password" valid:"required~Password is required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type UserRepo interface {
	FindUserByUsername(ctx context.Context, username string) (*User, error)
}

type AuthUseCase interface {
	Login(ctx context.Context, data *LoginRequest) (*User, error)
}
