package services

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/domain/users"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// TwoFactorSender delivers a sign-in verification code.
type TwoFactorSender interface {
	SendTwoFactorCodeEmail(toEmail, name, code string) error
}

// LoginResult is the outcome of a credentials login attempt.
type LoginResult struct {
	Token            string      `json:"token,omitempty"`
	PendingTwoFactor bool        `json:"pendingTwoFactor,omitempty"`
	User             *users.User `json:"user,omitempty"`
}

// OAuthProfile is the normalized profile a provider callback delivers.
// The handshake itself happens outside this service.
type OAuthProfile struct {
	Provider          users.Provider `json:"provider"`
	ProviderAccountID string         `json:"providerAccountId"`
	Email             string         `json:"email"`
	Name              string         `json:"name"`
}

type pendingCode struct {
	encryptedCode string
	expiresAt     time.Time
}

// AuthService handles credentials login with optional email 2FA and
// OAuth profile upserts. Pending 2FA codes live in memory, AES-GCM
// encrypted, and expire after config.TwoFactorCodeTTL.
type AuthService struct {
	repo   users.Repository
	sender TwoFactorSender
	logger *logging.ChanneledLogger

	codesMu sync.Mutex
	codes   map[string]pendingCode // keyed by user ID
}

// NewAuthService creates a new auth service.
func NewAuthService(repo users.Repository, sender TwoFactorSender, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		repo:   repo,
		sender: sender,
		logger: logger,
		codes:  make(map[string]pendingCode),
	}
}

// Register creates a credentials user with a bcrypt password hash.
func (s *AuthService) Register(email, name, password string) (*users.User, error) {
	if email == "" || name == "" || password == "" {
		return nil, apperrors.ErrValidation
	}

	existing, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &users.User{
		ID:           security.GenerateULID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Store(user); err != nil {
		return nil, err
	}

	s.logger.LogAuthOperation("register", user.ID, true, map[string]any{"email": email})
	return user, nil
}

// Login validates credentials. Users with 2FA enabled get a mailed code
// and a pendingTwoFactor result instead of a token.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		s.logger.LogAuthOperation("login", "", false, map[string]any{"email": email, "reason": "unknown_user"})
		return nil, apperrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.LogAuthOperation("login", user.ID, false, map[string]any{"reason": "bad_password"})
		return nil, apperrors.ErrUnauthorized
	}

	if user.TwoFactorEnabled {
		if err := s.issueTwoFactorCode(user); err != nil {
			return nil, err
		}
		return &LoginResult{PendingTwoFactor: true}, nil
	}

	token, err := security.GenerateAccessToken(user, config.JWTSecret, config.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.LogAuthOperation("login", user.ID, true, nil)
	return &LoginResult{Token: token, User: user}, nil
}

// VerifyTwoFactor exchanges a mailed code for an access token.
func (s *AuthService) VerifyTwoFactor(email, code string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}

	s.codesMu.Lock()
	pending, found := s.codes[user.ID]
	if found {
		delete(s.codes, user.ID)
	}
	s.codesMu.Unlock()

	if !found || time.Now().After(pending.expiresAt) {
		s.logger.LogAuthOperation("verify_2fa", user.ID, false, map[string]any{"reason": "expired_or_missing"})
		return nil, apperrors.ErrUnauthorized
	}

	stored, err := security.Decrypt(pending.encryptedCode, config.AESKey)
	if err != nil || stored != code {
		s.logger.LogAuthOperation("verify_2fa", user.ID, false, map[string]any{"reason": "code_mismatch"})
		return nil, apperrors.ErrUnauthorized
	}

	token, err := security.GenerateAccessToken(user, config.JWTSecret, config.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.LogAuthOperation("verify_2fa", user.ID, true, nil)
	return &LoginResult{Token: token, User: user}, nil
}

// OAuthLogin upserts the user behind an external provider profile and
// issues the same access token credentials logins get.
func (s *AuthService) OAuthLogin(profile *OAuthProfile) (*LoginResult, error) {
	if !users.KnownProviders[profile.Provider] || profile.ProviderAccountID == "" || profile.Email == "" {
		return nil, apperrors.ErrValidation
	}

	user, err := s.repo.FindByProviderAccount(profile.Provider, profile.ProviderAccountID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// Fall back to email so an existing credentials user gains a
		// linked provider instead of a duplicate account.
		user, err = s.repo.FindByEmail(profile.Email)
		if err != nil {
			return nil, err
		}

		if user == nil {
			now := time.Now().UTC()
			user = &users.User{
				ID:        security.GenerateULID(),
				Email:     profile.Email,
				Name:      profile.Name,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.Store(user); err != nil {
				return nil, err
			}
		}

		if err := s.repo.LinkProviderAccount(&users.OAuthAccount{
			UserID:            user.ID,
			Provider:          profile.Provider,
			ProviderAccountID: profile.ProviderAccountID,
		}); err != nil {
			return nil, err
		}
	}

	token, err := security.GenerateAccessToken(user, config.JWTSecret, config.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.LogAuthOperation("oauth_login", user.ID, true, map[string]any{"provider": string(profile.Provider)})
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) issueTwoFactorCode(user *users.User) error {
	if s.sender == nil {
		s.logger.Email().Error("Two-factor code requested but email service is disabled", "userId", user.ID)
		return apperrors.ErrInternal
	}

	code, err := security.GenerateTwoFactorCode()
	if err != nil {
		return err
	}

	encrypted, err := security.Encrypt(code, config.AESKey)
	if err != nil {
		return err
	}

	s.codesMu.Lock()
	s.codes[user.ID] = pendingCode{
		encryptedCode: encrypted,
		expiresAt:     time.Now().Add(config.TwoFactorCodeTTL),
	}
	s.codesMu.Unlock()

	if err := s.sender.SendTwoFactorCodeEmail(user.Email, user.Name, code); err != nil {
		s.logger.Email().Error("Two-factor code email failed", "userId", user.ID, "error", err.Error())
		return apperrors.ErrInternal
	}

	s.logger.LogAuthOperation("issue_2fa_code", user.ID, true, nil)
	return nil
}
