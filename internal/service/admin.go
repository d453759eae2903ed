package service

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/config"
	"account-storefront/internal/model"
	"account-storefront/internal/repository"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "account-storefront"

type AdminService interface {
	Seed(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	Verify(token string) (string, error)
}

type adminServiceImpl struct {
	adminRepo repository.AdminRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAdminService(
	adminRepo repository.AdminRepository,
	adminCfg *config.Admin,
) AdminService {
	return &adminServiceImpl{
		adminRepo: adminRepo,
		jwtSecret: []byte(adminCfg.JWTSecret),
		tokenTTL:  adminCfg.TokenTTL,
		now:       time.Now,
	}
}

// Seed stores the admin with a bcrypt hash, replacing any previous password.
func (s *adminServiceImpl) Seed(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.New("admin username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return s.adminRepo.Upsert(ctx, &model.Admin{
		Username:     username,
		PasswordHash: string(hash),
	})
}

func (s *adminServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		slog.WarnContext(ctx, "admin login rejected", "username", username)
		return "", time.Time{}, apperr.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "admin login rejected", "username", username)
		return "", time.Time{}, apperr.ErrUnauthorized
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   admin.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify returns the admin username carried by a valid token.
func (s *adminServiceImpl) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid admin token: %w", apperr.ErrUnauthorized)
	}

	return claims.Subject, nil
}
