package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amankumarsingh77/video-insight/internal/auth"
	"github.com/amankumarsingh77/video-insight/internal/config"
	"github.com/amankumarsingh77/video-insight/internal/models"
	"github.com/amankumarsingh77/video-insight/pkg/logger"
	"github.com/amankumarsingh77/video-insight/pkg/utils"
	"github.com/google/uuid"
)

type authUC struct {
	cfg      *config.Config
	authRepo auth.Repository
	logger   logger.Logger
}

func NewAuthUseCase(cfg *config.Config, authRepo auth.Repository, log logger.Logger) auth.UseCase {
	return &authUC{
		cfg:      cfg,
		authRepo: authRepo,
		logger:   log,
	}
}

func (u *authUC) Register(ctx context.Context, user *models.User) (*models.UserWithToken, error) {
	existUser, err := u.authRepo.FindByEmail(ctx, user)
	if existUser != nil || err == nil {
		return nil, fmt.Errorf("user with email %s already exists", user.Email)
	}

	if err = user.PrepareCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare user for create: %v", err)
	}
	createUser, err := u.authRepo.Register(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}
	createUser.SanitizePassword()

	token, err := utils.GenerateJWTToken(createUser, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate jwt token: %v", err)
	}
	return &models.UserWithToken{
		User:  createUser,
		Token: token,
	}, nil
}

func (u *authUC) Login(ctx context.Context, user *models.User) (*models.UserWithToken, error) {
	existUser, err := u.authRepo.FindByEmail(ctx, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s does not exist", user.Email)
		}
		return nil, fmt.Errorf("failed to find user : %v", err)
	}
	if err = existUser.ComparePassword(user.Password); err != nil {
		return nil, fmt.Errorf("invalid credentials : %v", err)
	}
	existUser.SanitizePassword()
	token, err := utils.GenerateJWTToken(existUser, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate jwt token: %v", err)
	}
	return &models.UserWithToken{
		User:  existUser,
		Token: token,
	}, nil
}

func (u *authUC) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := u.authRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.SanitizePassword()

	return user, nil
}
