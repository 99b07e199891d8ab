package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/hash"
	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/repo"
	"github.com/kmoroz/storefront/internal/transport"
	"github.com/kmoroz/storefront/pkg/tokens"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: valid email required", ErrValidation)
	}
	if req.FullName == "" {
		return nil, fmt.Errorf("%w: fullName required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if _, err := s.Repo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.TokenPairResponse, error) {
	user, err := s.Repo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued. An expired, revoked or unknown token yields
// ErrInvalidCredentials.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.TokenPairResponse, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	stored, err := s.Repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || stored.UserID != userID {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.Repo.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issuePair(ctx, &user)
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*transport.TokenPairResponse, error) {
	accessExp := time.Now().Add(accessTokenTTL).UTC()
	refreshExp := time.Now().Add(refreshTokenTTL).UTC()

	access, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), user.Role, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.NewRefreshToken(s.RefreshSecret, user.ID.String(), refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, user.ID, refresh, refreshExp); err != nil {
		return nil, err
	}

	return &transport.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp.Unix(),
		RefreshExp:   refreshExp.Unix(),
	}, nil
}

func (s *AuthService) ListCustomers(ctx context.Context, page, perPage int) ([]models.User, *transport.Meta, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 10
	}

	total, users, err := s.Repo.ListCustomers(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	return users, transport.NewMeta(page, total, perPage), nil
}
