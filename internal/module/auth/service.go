package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/user"
)

// Service provides authentication operations.
type Service struct {
	users     *user.Service
	tokenRepo RefreshTokenRepository
	jwt       *JWTManager
	throttle  *LoginThrottle
	logger    *zap.Logger
}

// NewService creates a new auth service.
func NewService(
	users *user.Service,
	tokenRepo RefreshTokenRepository,
	jwt *JWTManager,
	throttle *LoginThrottle,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:     users,
		tokenRepo: tokenRepo,
		jwt:       jwt,
		throttle:  throttle,
		logger:    logger,
	}
}

// Register creates a new account and immediately issues tokens.
func (s *Service) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, *TokenPair, error) {
	u, err := s.users.Register(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, u, "", "")
	if err != nil {
		return nil, nil, err
	}

	return u, tokens, nil
}

// Login authenticates a user with email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest, userAgent, ip string) (*user.User, *TokenPair, error) {
	email := user.NormalizeEmail(req.Email)

	if s.throttle != nil {
		if err := s.throttle.Check(ctx, email); err != nil {
			return nil, nil, err
		}
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.users.VerifyPassword(u, req.Password) {
		s.recordFailure(ctx, email)
		return nil, nil, ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.RecordSuccess(ctx, email); err != nil {
			s.logger.Warn("failed to clear login attempts", zap.Error(err))
		}
	}

	tokens, err := s.issueTokens(ctx, u, userAgent, ip)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", u.ID.String()),
	)

	return u, tokens, nil
}

// Refresh rotates a refresh token and issues a new token pair.
// The presented token is revoked whether or not rotation succeeds.
func (s *Service) Refresh(ctx context.Context, rawToken, userAgent, ip string) (*TokenPair, error) {
	hash := s.jwt.HashRefreshToken(rawToken)

	stored, err := s.tokenRepo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if stored.IsRevoked() {
		return nil, ErrRefreshTokenRevoked
	}
	if stored.IsExpired() {
		return nil, ErrRefreshTokenExpired
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	u, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, u, userAgent, ip)
}

// Logout revokes the presented refresh token.
// Unknown tokens are treated as already logged out.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	hash := s.jwt.HashRefreshToken(rawToken)

	stored, err := s.tokenRepo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return nil
		}
		return err
	}

	return s.tokenRepo.Revoke(ctx, stored.ID)
}

// LogoutAll revokes every refresh token for the user.
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.RevokeAllForUser(ctx, userID)
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	return s.jwt.ValidateAccessToken(token)
}

func (s *Service) issueTokens(ctx context.Context, u *user.User, userAgent, ip string) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, refreshExpiry, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	record := &RefreshToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: refreshHash,
		ExpiresAt: refreshExpiry,
		UserAgent: userAgent,
		IPAddress: ip,
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("failed to record login failure", zap.Error(err))
	}
}
