package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/google/uuid"
)

type AuthService struct {
	store         repositories.Store
	tokens        *utils.TokenManager
	cipher        *utils.Cipher
	allowRegister bool
	now           func() time.Time
}

func NewAuthService(store repositories.Store, tokens *utils.TokenManager, cipher *utils.Cipher, allowRegister bool) *AuthService {
	return &AuthService{
		store:         store,
		tokens:        tokens,
		cipher:        cipher,
		allowRegister: allowRegister,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an organizer account. Self-service registration is off
// unless explicitly allowed.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if !s.allowRegister {
		return nil, fmt.Errorf("%w: registration is disabled", ErrForbidden)
	}

	req.Email = normalizeEmail(req.Email)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if err := utils.V.Struct(req); err != nil {
		return nil, &ValidationError{Message: utils.ValidationMessage(err)}
	}

	user, err := s.createUser(ctx, req)
	if err != nil {
		utils.LogAuthAction("register", req.Email, false)
		return nil, err
	}
	utils.LogAuthAction("register", req.Email, true)

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Message: "User registered successfully", AccessToken: token, User: *user}, nil
}

func (s *AuthService) createUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		CompanyName:  req.CompanyName,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		_, err := tx.Users().GetByEmail(ctx, user.Email)
		if err == nil {
			return fmt.Errorf("%w: email already registered", ErrConflict)
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return storeErr("get user", err)
		}
		return storeErr("create user", tx.Users().Create(ctx, &user))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks credentials and, when enabled, the TOTP code.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	identifier := normalizeEmail(req.Identifier())
	if identifier == "" || req.Password == "" {
		return nil, validationf("email (or username) and password are required")
	}

	user, err := s.store.Users().GetByEmail(ctx, identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.LogAuthAction("login", identifier, false)
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		utils.LogAuthAction("login", identifier, false)
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", ErrForbidden)
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, ErrTwoFactorRequired
		}
		secret, err := s.cipher.Decrypt(user.TOTPSecret)
		if err != nil {
			return nil, fmt.Errorf("decrypt totp secret: %w", err)
		}
		if !utils.VerifyTOTP(string(secret), req.TOTPCode) {
			utils.LogAuthAction("login 2fa", identifier, false)
			return nil, fmt.Errorf("%w: invalid 2FA code", ErrUnauthorized)
		}
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	utils.LogAuthAction("login", identifier, true)

	return &models.AuthResponse{Message: "Login successful", AccessToken: token, User: *user}, nil
}

// EnsureAdmin creates the bootstrap account when it does not exist yet. It
// reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, companyName string) (bool, error) {
	username = normalizeEmail(username)
	if username == "" || password == "" {
		return false, nil
	}

	_, err := s.store.Users().GetByEmail(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, storeErr("get user", err)
	}

	_, err = s.createUser(ctx, models.RegisterRequest{
		Email:       username,
		Password:    password,
		CompanyName: companyName,
	})
	if errors.Is(err, ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	slog.Info("admin account created", "email", utils.MaskEmail(username))
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
