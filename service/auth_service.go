package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/progitek/parabellum/apperr"
	"github.com/progitek/parabellum/config"
	"github.com/progitek/parabellum/models"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	UpdateLastLogin(ctx context.Context, id int) error
	UpdatePassword(ctx context.Context, id int, hash string) error
}

// Mailer sends the best-effort account emails.
type Mailer interface {
	SendWelcome(email, fullName string) error
	SendPasswordReset(email, token string) error
}

// AuthService implements login, registration and the password reset flow.
type AuthService struct {
	users      UserStore
	audit      *Recorder
	mailer     Mailer
	jwt        config.JWTConfig
	bcryptCost int
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, audit *Recorder, mailer Mailer, jwtCfg config.JWTConfig, bcryptCost int, log *zap.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		audit:      audit,
		mailer:     mailer,
		jwt:        jwtCfg,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Login authenticates by email/password and issues an access token.
// Unknown emails and bad passwords share one generic message to avoid
// user enumeration; only the disabled-account case is explicit.
func (s *AuthService) Login(ctx context.Context, email, password, ip, browser string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperr.Unauthorized("invalid credentials")
		}
		return nil, "", apperr.Internal(err)
	}

	if !user.IsActive() {
		return nil, "", apperr.Unauthorized("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}

	token, err := GenerateAccessToken(user, s.jwt.Secret, s.jwt.AccessTTL)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to stamp last_login", zap.Int("user_id", user.ID), zap.Error(err))
	}

	actor := Actor{ID: user.ID, Username: user.Email}
	s.audit.Record(ctx, actor, models.ActionLogin, "utilisateur", fmt.Sprint(user.ID), "user logged in", ip)
	s.audit.RecordActivity(ctx, user.ID, ip, browser)

	return user, token, nil
}

// RegisterParams are the fields accepted at registration.
type RegisterParams struct {
	Nom      string
	Prenom   string
	Email    string
	Password string
	RoleID   int
}

// Register creates a user with a hashed password and sends a best-effort
// welcome email.
func (s *AuthService) Register(ctx context.Context, p RegisterParams, ip string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Nom:          p.Nom,
		Prenom:       p.Prenom,
		Email:        p.Email,
		PasswordHash: string(hash),
		RoleID:       p.RoleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.FromDB(err, "user")
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, user.Prenom+" "+user.Nom); err != nil {
			s.log.Warn("welcome email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}

	actor := Actor{ID: user.ID, Username: user.Email}
	s.audit.Record(ctx, actor, models.ActionCreate, "utilisateur", fmt.Sprint(user.ID), "user registered", ip)

	return user, nil
}

// ForgotPassword issues a reset token bound to the account and sends it
// by best-effort email. Unknown emails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperr.Internal(err)
	}
	if !user.IsActive() {
		return nil
	}

	token, err := GeneratePasswordResetToken(user.ID, s.jwt.Secret, s.jwt.PasswordResetTTL)
	if err != nil {
		return apperr.Internal(err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
			s.log.Warn("reset email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}
	return nil
}

// ResetPassword redeems a reset token and stores the new password hash.
// Outstanding sessions remain valid: there is no session table to
// invalidate.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := ParsePasswordResetToken(token, s.jwt.Secret)
	if err != nil {
		return apperr.Unauthorized("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.FromDB(err, "user")
	}

	actor := Actor{ID: userID}
	s.audit.Record(ctx, actor, models.ActionUpdate, "utilisateur", fmt.Sprint(userID), "password reset", "")
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int, current, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperr.FromDB(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.FromDB(err, "user")
	}

	actor := Actor{ID: userID, Username: user.Email}
	s.audit.Record(ctx, actor, models.ActionUpdate, "utilisateur", fmt.Sprint(userID), "password changed", "")
	return nil
}
