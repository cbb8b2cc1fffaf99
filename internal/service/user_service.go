package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

// SessionRequest carries the short-lived identity assertion minted by the SSO
// gateway after a successful upstream login.
type SessionRequest struct {
	Assertion string `json:"assertion" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type UserService interface {
	EstablishSession(ctx context.Context, assertion string) (*TokenResponse, *UserResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, *UserResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetMe(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
}

type userService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(users repository.UserRepository, tokens repository.RefreshTokenRepository) UserService {
	return &userService{users: users, tokens: tokens}
}

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// isAdminEmail checks membership in the ADMIN_EMAILS env list (case-insensitive)
func isAdminEmail(email string) bool {
	lowered := strings.ToLower(strings.TrimSpace(email))
	for _, admin := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		if admin = strings.ToLower(strings.TrimSpace(admin)); admin != "" && admin == lowered {
			return true
		}
	}
	return false
}

func mapToUserResponse(user *model.User, isAdmin bool) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		IsAdmin:   isAdmin,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// EstablishSession verifies the gateway assertion, resolves the user row
// (find-or-create by email) and issues access + refresh tokens.
func (s *userService) EstablishSession(ctx context.Context, assertion string) (*TokenResponse, *UserResponse, error) {
	token, err := jwt.Parse(assertion, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return middleware.GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, fmt.Errorf("%w: invalid identity assertion", ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, fmt.Errorf("%w: invalid assertion claims", ErrUnauthorized)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, nil, fmt.Errorf("%w: assertion is missing an email claim", ErrUnauthorized)
	}
	name, _ := claims["name"].(string)

	user, err := s.users.FindOrCreateByEmail(ctx, email, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	isAdmin := isAdminEmail(user.Email)
	tokens, err := s.issueTokens(ctx, user, isAdmin)
	if err != nil {
		return nil, nil, err
	}

	return tokens, mapToUserResponse(user, isAdmin), nil
}

// Refresh rotates the refresh token and re-issues the pair
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, *UserResponse, error) {
	tokenID, secret, err := splitRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	stored, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown refresh token", ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokens.Delete(ctx, stored.ID)
		return nil, nil, fmt.Errorf("%w: refresh token expired", ErrUnauthorized)
	}

	if bcrypt.CompareHashAndPassword([]byte(stored.TokenHash), []byte(secret)) != nil {
		return nil, nil, fmt.Errorf("%w: refresh token mismatch", ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user for refresh token: %w", err)
	}

	// Rotate — the presented token is single-use
	if err := s.tokens.Delete(ctx, stored.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	isAdmin := isAdminEmail(user.Email)
	tokens, err := s.issueTokens(ctx, user, isAdmin)
	if err != nil {
		return nil, nil, err
	}

	return tokens, mapToUserResponse(user, isAdmin), nil
}

// Logout revokes the presented refresh token; unknown tokens are ignored
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, _, err := splitRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.tokens.Delete(ctx, tokenID)
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	return mapToUserResponse(user, isAdminEmail(user.Email)), nil
}

// issueTokens mints the access JWT and persists a hashed refresh token.
// The refresh token string is "<row id>.<secret>" so the row can be located
// without storing the secret in clear.
func (s *userService) issueTokens(ctx context.Context, user *model.User, isAdmin bool) (*TokenResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"email":    user.Email,
		"name":     user.Name,
		"is_admin": isAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh secret: %w", err)
	}

	stored := model.RefreshToken{
		UserID:    user.ID,
		TokenHash: string(hash),
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := s.tokens.Create(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenResponse{
		Token:        accessToken,
		RefreshToken: stored.ID.String() + "." + secret,
	}, nil
}

func splitRefreshToken(refreshToken string) (uuid.UUID, string, error) {
	parts := strings.SplitN(refreshToken, ".", 2)
	if len(parts) != 2 {
		return uuid.Nil, "", fmt.Errorf("%w: malformed refresh token", ErrUnauthorized)
	}
	tokenID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: malformed refresh token", ErrUnauthorized)
	}
	return tokenID, parts[1], nil
}
