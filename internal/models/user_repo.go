package models

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
)

type UserRepo interface {
	SignUp(ctx context.Context, req SignupRequest) (*types.SignupResponse, error)
	AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	AuthorizeURL(ctx context.Context, provider, redirectTo string) (authURL, verifier string, err error)
	ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
}

func (su *SupabaseRepo) SignUp(ctx context.Context, req SignupRequest) (*types.SignupResponse, error) {
	res, err := su.supabaseClient.Auth.Signup(types.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Data:     req.Metadata.ToMap(),
	})
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(strings.ToLower(errMsg), "already registered") {
			return nil, fmt.Errorf("email already in use")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return res, nil
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return resp, nil
}

// AuthorizeURL starts a PKCE OAuth flow; the verifier must be kept until the
// callback exchanges the code.
func (su *SupabaseRepo) AuthorizeURL(ctx context.Context, provider, redirectTo string) (string, string, error) {
	resp, err := su.supabaseClient.Auth.Authorize(types.AuthorizeRequest{
		Provider: types.Provider(provider),
		FlowType: types.FlowPKCE,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to start %s sign-in: %w", provider, err)
	}

	authURL := resp.AuthorizationURL
	if redirectTo != "" {
		u, err := url.Parse(authURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid authorization url: %w", err)
		}
		q := u.Query()
		q.Set("redirect_to", redirectTo)
		u.RawQuery = q.Encode()
		authURL = u.String()
	}
	return authURL, resp.Verifier, nil
}

func (su *SupabaseRepo) ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, error) {
	resp, err := su.supabaseClient.Auth.Token(types.TokenRequest{
		GrantType:    "pkce",
		Code:         code,
		CodeVerifier: verifier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return su.supabaseClient.Auth.WithToken(accessToken).Logout()
}

func (su *SupabaseRepo) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(ProfileTable).
		Select("id,email,fullname,role,phone_number,avatar_url,created_at", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by ID: %w", err)
	}

	// Supabase returns an array even for single results
	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile rows: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile not found")
	}
	return &profiles[0], nil
}

func (su *SupabaseRepo) ListProfiles(ctx context.Context) ([]Profile, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(ProfileTable).
		Select("id,email,fullname,role,phone_number,avatar_url,created_at", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, err
	}

	profiles := []Profile{}
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}
	return profiles, nil
}
