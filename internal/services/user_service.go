package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

var oauthProviders = map[string]bool{
	"google":   true,
	"github":   true,
	"facebook": true,
	"apple":    true,
}

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) SignUp(ctx context.Context, req models.SignupRequest) (*types.SignupResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := models.Validate.Var(req.Email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", models.ErrInvalidInput)
	}
	if !helpers.IsPasswordStrong(req.Password) {
		return nil, fmt.Errorf("%w: password is not strong enough", models.ErrInvalidInput)
	}
	return us.userRepo.SignUp(ctx, req)
}

func (us *UserService) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", models.ErrInvalidInput)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("%w: invalid password format", models.ErrInvalidInput)
	}
	response, err := us.userRepo.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return response, nil
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", models.ErrInvalidInput)
	}
	response, err := us.userRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	return response, nil
}

// StartOAuth returns the provider URL to redirect to and the PKCE verifier
// to keep for the callback.
func (us *UserService) StartOAuth(ctx context.Context, provider, redirectTo string) (string, string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !oauthProviders[provider] {
		return "", "", fmt.Errorf("%w: unsupported provider %q", models.ErrInvalidInput, provider)
	}
	return us.userRepo.AuthorizeURL(ctx, provider, redirectTo)
}

func (us *UserService) ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", models.ErrInvalidInput)
	}
	if verifier == "" {
		return nil, fmt.Errorf("%w: missing code verifier", models.ErrInvalidInput)
	}
	return us.userRepo.ExchangeCode(ctx, code, verifier)
}

func (us *UserService) Logout(ctx context.Context, accessToken string) error {
	return us.userRepo.Logout(ctx, accessToken)
}

func (us *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	res, err := us.userRepo.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return res, nil
}

func (us *UserService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	return us.userRepo.ListProfiles(ctx)
}

// SessionUserFromClaims builds the client-facing identity from verified claims.
func SessionUserFromClaims(claims *helpers.EnhancedClaims) (*models.SessionUser, error) {
	if claims == nil || claims.CustomClaims == nil {
		return nil, fmt.Errorf("no session")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return &models.SessionUser{
		ID:        id,
		Email:     claims.Email,
		Role:      claims.GetSafeRole(),
		CreatedAt: claims.CreatedAt,
		Provider:  claims.Provider,
		Metadata:  models.MetadataFromMap(claims.UserMetadata),
	}, nil
}
