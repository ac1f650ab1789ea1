package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"genesis-api/internal/apperr"
	"genesis-api/internal/domain"
	"genesis-api/internal/email"
	"genesis-api/internal/repository"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidMFACode     = "Invalid or expired MFA code"
	msgUserNotFound       = "User not found"
	msgMailUnavailable    = "Unable to send MFA code, try again later"
)

// AuthService coordina registro, login en dos pasos y sesiones.
type AuthService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	tokens      *JWTService
	mocks       *mockDirectory
	now         func() time.Time
}

// NewAuthService recibe mockUsers=true solo fuera de produccion.
func NewAuthService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, tokens *JWTService, mockUsers bool) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuthService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		tokens:      tokens,
		now:         func() time.Time { return time.Now().UTC() },
	}
	if mockUsers {
		s.mocks = newMockDirectory(defaultMockUsers())
	}
	return s
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// MFAChallenge es la respuesta de register/login; nunca lleva el codigo real.
type MFAChallenge struct {
	CodeSent    bool   `json:"codeSent"`
	Message     string `json:"message"`
	MockMFACode string `json:"mockMfaCode,omitempty"`
}

// Session es el resultado de una verificacion MFA exitosa.
type Session struct {
	AccessToken string      `json:"accessToken"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	ExpiresIn   int64       `json:"expiresIn"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (challenge MFAChallenge, err error) {
	defer func() { recordAuthEvent("register", err) }()

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" || input.Password == "" {
		return MFAChallenge{}, apperr.Validation("email must be an email", "password must be longer than or equal to 6 characters")
	}
	if _, ok := s.mocks.byEmailAddr(emailAddr); ok {
		return MFAChallenge{}, apperr.Conflict("User already exists")
	}

	_, err = s.users.GetByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		return MFAChallenge{}, apperr.Conflict("User already exists")
	case !errors.Is(err, repository.ErrNotFound):
		return MFAChallenge{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return MFAChallenge{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	code, codeHash, expiresAt, err := generateOTP(now)
	if err != nil {
		return MFAChallenge{}, fmt.Errorf("generate mfa code: %w", err)
	}

	user := domain.User{
		ID:             uuid.NewString(),
		Email:          emailAddr,
		PasswordHash:   string(hash),
		Role:           domain.RoleUser,
		MFACode:        codeHash,
		MFACodeExpires: &expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return MFAChallenge{}, apperr.Conflict("User already exists")
		}
		return MFAChallenge{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendCode(ctx, emailAddr, code, expiresAt); err != nil {
		return MFAChallenge{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))

	return MFAChallenge{
		CodeSent: true,
		Message:  fmt.Sprintf("Registration successful. MFA code sent to %s", emailAddr),
	}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (challenge MFAChallenge, err error) {
	defer func() { recordAuthEvent("login", err) }()

	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" || input.Password == "" {
		return MFAChallenge{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	if mock, ok := s.mocks.byEmailAddr(emailAddr); ok {
		if !mock.passwordMatches(input.Password) {
			return MFAChallenge{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return MFAChallenge{
			CodeSent:    true,
			Message:     fmt.Sprintf("MFA code sent to %s", emailAddr),
			MockMFACode: MockMFACode,
		}, nil
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MFAChallenge{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return MFAChallenge{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == "" {
		return MFAChallenge{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return MFAChallenge{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	code, codeHash, expiresAt, err := generateOTP(s.now())
	if err != nil {
		return MFAChallenge{}, fmt.Errorf("generate mfa code: %w", err)
	}
	if err := s.users.UpdateMFACode(ctx, user.ID, codeHash, expiresAt); err != nil {
		return MFAChallenge{}, fmt.Errorf("store mfa code: %w", err)
	}
	if err := s.sendCode(ctx, emailAddr, code, expiresAt); err != nil {
		return MFAChallenge{}, err
	}

	return MFAChallenge{
		CodeSent: true,
		Message:  fmt.Sprintf("MFA code sent to %s", emailAddr),
	}, nil
}

// VerifyMFA canjea el codigo pendiente por un token. El canje es atomico:
// el store solo limpia el codigo si sigue siendo el mismo y no vencio.
func (s *AuthService) VerifyMFA(ctx context.Context, emailAddr, code string) (session Session, err error) {
	defer func() { recordAuthEvent("verify_mfa", err) }()

	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)

	if mock, ok := s.mocks.byEmailAddr(emailAddr); ok {
		if code != MockMFACode {
			return Session{}, apperr.Unauthorized(msgInvalidMFACode)
		}
		return s.issueSession(ctx, mock.User, true)
	}

	if emailAddr == "" || !isValidOTPCode(code) {
		return Session{}, apperr.Unauthorized(msgInvalidMFACode)
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.Unauthorized(msgInvalidMFACode)
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	if !user.HasPendingMFA(now) || !verifyOTP(code, user.MFACode) {
		return Session{}, apperr.Unauthorized(msgInvalidMFACode)
	}

	verified, err := s.users.ConsumeMFACode(ctx, user.ID, user.MFACode, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.Unauthorized(msgInvalidMFACode)
		}
		return Session{}, fmt.Errorf("consume mfa code: %w", err)
	}
	return s.issueSession(ctx, verified, false)
}

func (s *AuthService) issueSession(ctx context.Context, user domain.User, mock bool) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(user, mock)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	if !mock {
		if err := s.users.RecordAccessToken(ctx, user.ID, token, expiresAt); err != nil {
			s.logger.Warn("record access token failed", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return Session{
		AccessToken: token,
		Email:       user.Email,
		Role:        user.Role,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// RevokeToken marca el token del usuario como revocado. Es idempotente.
func (s *AuthService) RevokeToken(ctx context.Context, userID string) error {
	if _, ok := s.mocks.byUserID(userID); ok {
		return nil
	}
	if err := s.users.RevokeAccessToken(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// EndSession revoca el token presentado si es verificable; nunca falla.
func (s *AuthService) EndSession(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return
	}
	if err := s.RevokeToken(ctx, claims.Subject); err != nil {
		s.logger.Warn("logout revoke failed", zap.String("user_id", claims.Subject), zap.Error(err))
	}
	recordAuthEvent("logout", nil)
}

// ResolvePrincipal carga el usuario detras de un token ya verificado.
func (s *AuthService) ResolvePrincipal(ctx context.Context, claims Claims) (domain.User, error) {
	if claims.IsMockUser {
		if mock, ok := s.mocks.byUserID(claims.Subject); ok {
			return mock.User, nil
		}
		return domain.User{}, apperr.Unauthorized(msgUserNotFound)
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, apperr.Unauthorized(msgUserNotFound)
		}
		return domain.User{}, fmt.Errorf("load principal: %w", err)
	}
	if !user.IsVerified {
		return domain.User{}, apperr.Unauthorized("User not verified")
	}
	return user, nil
}

// GetUserDetails devuelve el perfil sin credenciales.
func (s *AuthService) GetUserDetails(ctx context.Context, userID string) (domain.User, error) {
	if mock, ok := s.mocks.byUserID(userID); ok {
		return mock.User, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, apperr.Unauthorized(msgUserNotFound)
		}
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// SetRole cambia el rol de un usuario existente (uso administrativo).
func (s *AuthService) SetRole(ctx context.Context, emailAddr string, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, apperr.Validation(fmt.Sprintf("role must be one of the following values: %s, %s", domain.RoleUser, domain.RoleAdmin))
	}
	user, err := s.userByEmail(ctx, emailAddr)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.SetRole(ctx, user.ID, role); err != nil {
		return domain.User{}, fmt.Errorf("set role: %w", err)
	}
	user.Role = role
	s.logger.Info("user role changed", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// RevokeByEmail revoca el token vigente de un usuario (uso administrativo).
func (s *AuthService) RevokeByEmail(ctx context.Context, emailAddr string) (domain.User, error) {
	user, err := s.userByEmail(ctx, emailAddr)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.RevokeToken(ctx, user.ID); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) userByEmail(ctx context.Context, emailAddr string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, apperr.NotFound("User with email %q not found", emailAddr)
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *AuthService) sendCode(ctx context.Context, to, code string, expiresAt time.Time) error {
	if s.emailSender == nil {
		return apperr.Unavailable(email.ErrDisabled, msgMailUnavailable)
	}
	if err := s.emailSender.SendMFACode(ctx, to, code, expiresAt); err != nil {
		s.logger.Warn("send mfa code failed", zap.Error(err), zap.String("email", to))
		return apperr.Unavailable(err, msgMailUnavailable)
	}
	return nil
}
