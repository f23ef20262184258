package repository

import (
	"context"
	"fmt"

	"github.com/amankumarsingh77/video-insight/internal/auth"
	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type authRepo struct {
	db *sqlx.DB
}

func NewAuthRepo(db *sqlx.DB) auth.Repository {
	return &authRepo{
		db: db,
	}
}

func (a *authRepo) Register(ctx context.Context, user *models.User) (*models.User, error) {
	u := &models.User{}
	err := a.db.QueryRowxContext(
		ctx,
		createUser,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Role,
	).StructScan(u)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}
	return u, nil
}

func (a *authRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		getUserQuery,
		userID,
	).StructScan(u); err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return u, nil
}

func (a *authRepo) FindByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		getUserByEmail,
		user.Email,
	).StructScan(u); err != nil {
		return nil, err
	}
	return u, nil
}
