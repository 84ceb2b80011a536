package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/social-feed-api/internal/domain"
	"github.com/social-feed-api/internal/infrastructure/smtp"
	"github.com/social-feed-api/internal/infrastructure/sns"
	"github.com/social-feed-api/internal/pkg/id"
	"github.com/social-feed-api/internal/pkg/otp"
	"github.com/social-feed-api/internal/pkg/password"
)

// LoginResult is the outcome of a successful OTP verification: both token
// kinds plus the user they were minted for, with the password hash blanked.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	// Login checks credentials and dispatches a login OTP. The bool is a
	// soft outcome: false means the OTP could not be stored or delivered
	// (the caller shows "login unsuccessful"); an error means the lookup
	// or password check itself failed.
	Login(ctx context.Context, usernameOrEmail, pass string) (bool, error)
	VerifyLogin(ctx context.Context, email, code string) (*LoginResult, error)
	RequestPasswordReset(ctx context.Context, userID string) (bool, error)
	VerifyPasswordReset(ctx context.Context, email, code, newPassword string) (bool, error)
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type otpStore interface {
	Put(ctx context.Context, rec *domain.OtpRecord) error
	FindByEmailPurpose(ctx context.Context, email, purpose string) ([]domain.OtpRecord, error)
	DeleteByEmailPurpose(ctx context.Context, email, purpose string) error
}

type tokenSigner interface {
	SignAccess(u *domain.User) (string, error)
	SignRefresh(u *domain.User) (string, error)
}

type service struct {
	users     userStore
	otps      otpStore
	mailer    smtp.Mailer
	smsSender sns.SMSSender
	tokens    tokenSigner
}

type ServiceDeps struct {
	UserRepo  userStore
	OtpRepo   otpStore
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
	Tokens    tokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:     deps.UserRepo,
		otps:      deps.OtpRepo,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
		tokens:    deps.Tokens,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsAdmin:      false,
	}
	// A new user is its own creator in the audit trail.
	u = domain.StampCreated(u, u.UserID, time.Now().UTC())
	if err := s.users.Put(ctx, &u); err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &u, nil
}

func (s *service) Login(ctx context.Context, usernameOrEmail, pass string) (bool, error) {
	u, err := s.users.GetByUsername(ctx, usernameOrEmail)
	if err != nil {
		u, err = s.users.GetByEmail(ctx, usernameOrEmail)
		if err != nil {
			return false, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
	}
	// A password mismatch is indistinguishable from an unknown user, so
	// neither credential leaks which one was wrong.
	if !password.Verify(pass, u.PasswordHash) {
		return false, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.issueOtp(ctx, u, domain.OtpPurposeLogin, "Your login code")
}

func (s *service) VerifyLogin(ctx context.Context, email, code string) (*LoginResult, error) {
	rec, err := s.acceptOtp(ctx, email, domain.OtpPurposeLogin, code)
	if err != nil {
		return nil, err
	}
	if err := s.otps.DeleteByEmailPurpose(ctx, email, domain.OtpPurposeLogin); err != nil {
		return nil, fmt.Errorf("invalidate pending codes: %w", err)
	}
	// Re-load rather than trusting state from before the OTP check; the
	// user may have been deleted in between.
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user vanished after verification of code %s", rec.OtpID)
	}
	access, err := s.tokens.SignAccess(u)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.SignRefresh(u)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, userID string) (bool, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return s.issueOtp(ctx, u, domain.OtpPurposeResetPassword, "Your password reset code")
}

func (s *service) VerifyPasswordReset(ctx context.Context, email, code, newPassword string) (bool, error) {
	if _, err := s.acceptOtp(ctx, email, domain.OtpPurposeResetPassword, code); err != nil {
		return false, err
	}
	if err := s.otps.DeleteByEmailPurpose(ctx, email, domain.OtpPurposeResetPassword); err != nil {
		return false, fmt.Errorf("invalidate pending codes: %w", err)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return false, err
	}
	err = s.users.Update(ctx, u.UserID, map[string]interface{}{
		"password_hash": hash,
		"updated_by":    u.UserID,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// issueOtp stores a fresh code for (user, purpose) and dispatches it.
// Storage or email failure is the soft (false, nil) outcome; the record
// left behind by a failed email is harmless, it expires via TTL.
func (s *service) issueOtp(ctx context.Context, u *domain.User, purpose, subject string) (bool, error) {
	code, expiresAt, err := otp.Generate()
	if err != nil {
		return false, err
	}
	rec := &domain.OtpRecord{
		Email:     u.Email,
		OtpID:     id.New(),
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: expiresAt.Unix(),
	}
	if err := s.otps.Put(ctx, rec); err != nil {
		slog.Warn("failed to store OTP", "email", u.Email, "purpose", purpose, "err", err)
		return false, nil
	}
	if err := s.mailer.SendEmail(u.Email, subject, "Your code: "+code); err != nil {
		slog.Warn("failed to email OTP", "email", u.Email, "purpose", purpose, "err", err)
		return false, nil
	}
	// Best-effort SMS copy for users with a phone on file.
	if u.Phone != nil && s.smsSender != nil {
		if err := s.smsSender.SendSMS(ctx, *u.Phone, "Your code: "+code); err != nil {
			slog.Warn("failed to SMS OTP", "email", u.Email, "err", err)
		}
	}
	return true, nil
}

// acceptOtp applies the shared verification rule: among all pending codes
// for (email, purpose) the one with the latest expiry is authoritative;
// it must match and still be in the future.
func (s *service) acceptOtp(ctx context.Context, email, purpose, code string) (*domain.OtpRecord, error) {
	records, err := s.otps.FindByEmailPurpose(ctx, email, purpose)
	if err != nil {
		return nil, err
	}
	rec, ok := domain.LatestOtp(records)
	if !ok {
		return nil, fmt.Errorf("no pending verification: %w", domain.ErrNotFound)
	}
	if rec.Code != code || rec.ExpiresAt <= time.Now().Unix() {
		return nil, fmt.Errorf("invalid or expired code: %w", domain.ErrValidation)
	}
	return &rec, nil
}
