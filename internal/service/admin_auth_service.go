package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// AdminUserStore is the persistence the admin auth service needs.
type AdminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	TouchLastLogin(ctx context.Context, id int) error
}

type AdminAuthService struct {
	adminRepo AdminUserStore
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAdminAuthService(adminRepo AdminUserStore, jwtSecret string, jwtTTL time.Duration) *AdminAuthService {
	return &AdminAuthService{adminRepo: adminRepo, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log.Debug().Str("email", email).Msg("Login attempt")

	user, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("email", email).Msg("Failed to get user by email")
			return "", err
		}
		return "", utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return "", utils.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Account is inactive")
		return "", utils.ErrAccountInactive
	}

	token, err := utils.GenerateJWT(s.jwtSecret, s.jwtTTL, user.ID, user.Email)
	if err != nil {
		return "", err
	}

	if err := s.adminRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("Failed to record last login")
	}
	log.Info().Str("email", email).Msg("Login successful")
	return token, nil
}

func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password, name string) (*models.AdminUser, error) {
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}
	if err := s.adminRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.New("admin email already exists")
		}
		return nil, err
	}
	return user, nil
}
