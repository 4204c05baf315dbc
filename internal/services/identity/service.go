// Package identity implements registration, login, token issue and
// validation, and role administration.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/models"
	"github.com/bobmcallan/moneta/internal/storage"
)

var (
	// ErrInvalid marks validation failures; handlers map it to 400.
	ErrInvalid = errors.New("invalid input")
	// ErrInvalidCredentials covers wrong email/password and bad tokens;
	// handlers map it to 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrThrottled marks rate-limited login attempts; handlers map it
	// to 429.
	ErrThrottled = errors.New("too many login attempts")
	// ErrMailDelivery marks outbound mail failures; handlers map it
	// to 502.
	ErrMailDelivery = errors.New("mail delivery failed")
)

// Compile-time interface check
var _ interfaces.IdentityService = (*Service)(nil)

// Service implements IdentityService over the storage manager.
type Service struct {
	storage interfaces.StorageManager
	mailer  interfaces.Mailer
	auth    common.AuthConfig
	mail    common.MailConfig
	boot    common.BootstrapConfig
	logins  *loginThrottle
	logger  *common.Logger
}

// NewService creates a new identity service.
func NewService(storage interfaces.StorageManager, mailer interfaces.Mailer, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		mailer:  mailer,
		auth:    config.Auth,
		mail:    config.Mail,
		boot:    config.Bootstrap,
		logins:  newLoginThrottle(),
		logger:  logger,
	}
}

// --- Password helpers ---

// hashPassword bcrypt-hashes the password. Input beyond 72 bytes is
// truncated, matching the bcrypt limit.
func hashPassword(password string) (string, error) {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(b, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	b := []byte(password)
	if len(b) > 72 {
		b = b[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), b) == nil
}

func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalid)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalid)
	}
	return nil
}

// --- Registration & login ---

// Register creates an unconfirmed account with the default User role and
// dispatches a verification mail. A duplicate email fails before any row
// or mail is produced.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(strings.ToLower(email))

	if _, err := s.storage.Users().GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %q is already taken", ErrInvalid, email)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		UserName:     email,
		Email:        email,
		PasswordHash: hash,
		ConfirmToken: uuid.New().String(),
	}

	err = s.storage.WithTx(ctx, func(stores interfaces.Stores) error {
		if err := stores.Users().Create(ctx, user); err != nil {
			return err
		}
		role, err := stores.Roles().GetByName(ctx, models.RoleUser)
		if err != nil {
			return fmt.Errorf("default role missing: %w", err)
		}
		return stores.Roles().Assign(ctx, user.ID, role.ID)
	})
	if err != nil {
		// The duplicate check above can lose a race against a concurrent
		// registration; the unique index still fails the insert.
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: email %q is already taken", ErrInvalid, email)
		}
		return nil, err
	}

	if err := s.sendVerificationMail(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	return user, nil
}

func (s *Service) sendVerificationMail(ctx context.Context, user *models.User) error {
	link := fmt.Sprintf("%s/api/account/verify-email?userId=%s&token=%s",
		strings.TrimRight(s.mail.BaseURL, "/"), user.ID, user.ConfirmToken)
	body := fmt.Sprintf("Welcome to Moneta. Confirm your email by visiting: %s", link)
	return s.mailer.Send(ctx, user.Email, "Confirm your email", body)
}

// VerifyEmail consumes the confirmation token and marks the account
// confirmed. Already-confirmed accounts verify as a no-op.
func (s *Service) VerifyEmail(ctx context.Context, userID, token string) error {
	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}
	if user.EmailConfirmed {
		return nil
	}
	if token == "" || token != user.ConfirmToken {
		return fmt.Errorf("%w: confirmation token does not match", ErrInvalid)
	}

	user.EmailConfirmed = true
	user.ConfirmToken = ""
	return s.storage.Users().Save(ctx, user)
}

// Login validates the credentials and returns a signed bearer token with
// the user's role claims. Any credential failure returns
// ErrInvalidCredentials and no token. Attempts are throttled per
// account; both API surfaces share the limiter.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if !s.logins.allow(email) {
		return "", nil, ErrThrottled
	}

	user, err := s.storage.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !checkPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	roles, err := s.storage.Roles().ListForUser(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.signToken(user, roleNames(roles))
	if err != nil {
		return "", nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("User signed in")
	return token, user, nil
}

// ChangePassword issues a reset token against the account and consumes
// it immediately to install the new credential.
func (s *Service) ChangePassword(ctx context.Context, email, newPassword string) error {
	if err := validateCredentials(email, newPassword); err != nil {
		return err
	}
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.storage.Users().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user %s: %w", email, err)
	}

	user.ResetToken = uuid.New().String()
	if err := s.storage.Users().Save(ctx, user); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	if err := s.storage.Users().Save(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Password changed")
	return nil
}

// --- Tokens ---

// signToken creates a signed HMAC-SHA256 JWT for the given user.
func (s *Service) signToken(user *models.User, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"jti":   uuid.New().String(),
		"roles": roles,
		"iss":   s.auth.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.auth.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.auth.JWTSecret))
}

// ValidateToken parses the bearer token, checks the signature and expiry,
// and confirms the subject still exists. Any failure maps to Unauthorized.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*common.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.auth.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidCredentials)
	}

	if _, err := s.storage.Users().Get(ctx, sub); err != nil {
		return nil, fmt.Errorf("%w: unknown subject", ErrInvalidCredentials)
	}

	var roles []string
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if name, ok := r.(string); ok {
				roles = append(roles, name)
			}
		}
	}

	return &common.Identity{UserID: sub, Email: email, Roles: roles}, nil
}

func roleNames(roles []models.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}
