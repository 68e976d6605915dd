package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

const UserKey = "user"

// SessionSource refreshes expired sessions and resolves the profile that
// carries the user's role.
type SessionSource interface {
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// AuthMiddleware requires a valid access token from the Authorization header
// or the access_token cookie. An expired token is refreshed once using the
// refresh_token cookie.
func AuthMiddleware(validator helpers.TokenValidator, sessions SessionSource, secureCookies bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.BearerOrCookie(c)
		if token == "" {
			unauthorized(c, "access token not found")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			refreshToken, refreshErr := c.Cookie(helpers.RefreshTokenCookie)
			if refreshErr != nil || refreshToken == "" {
				unauthorized(c, err.Error())
				return
			}

			tokenRes, refreshErr := sessions.RefreshToken(c.Request.Context(), refreshToken)
			if refreshErr != nil || tokenRes == nil || tokenRes.AccessToken == "" {
				logger.Error("Token refresh failed", "error", refreshErr)
				unauthorized(c, "token expired and refresh failed")
				return
			}

			logger.Info("Token refreshed successfully",
				"user_id", tokenRes.User.ID,
				"expires_in", tokenRes.ExpiresIn,
			)
			helpers.SetSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn, secureCookies)
			token = tokenRes.AccessToken

			claims, err = validator.ValidateToken(token)
			if err != nil {
				unauthorized(c, "refreshed token validation failed")
				return
			}
		}

		ctx := helpers.WithAccessToken(c.Request.Context(), token)
		c.Request = c.Request.WithContext(ctx)
		c.Set(UserKey, enhance(ctx, claims, sessions, logger))
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and never
// rejects the request.
func OptionalAuth(validator helpers.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.BearerOrCookie(c)
		if token != "" {
			if claims, err := validator.ValidateToken(token); err == nil {
				c.Request = c.Request.WithContext(helpers.WithAccessToken(c.Request.Context(), token))
				c.Set(UserKey, &helpers.EnhancedClaims{
					CustomClaims: claims,
					Role:         claims.Role,
					UserID:       claims.Subject,
					Email:        claims.Email,
					Provider:     claims.AppMetadata.Provider,
				})
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			unauthorized(c, "no authenticated user")
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "admin access required"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*helpers.EnhancedClaims)
	return user, ok && user != nil
}

// enhance merges the profile row into the token claims. A missing profile
// leaves the user as a guest unless the token's app_metadata grants admin.
func enhance(ctx context.Context, claims *helpers.CustomClaims, sessions SessionSource, logger *slog.Logger) *helpers.EnhancedClaims {
	enhanced := &helpers.EnhancedClaims{
		CustomClaims: claims,
		Role:         "guest",
		UserID:       claims.Subject,
		Email:        claims.Email,
		Fullname:     claims.MetadataString("name"),
		AvatarURL:    claims.MetadataString("picture"),
		Provider:     claims.AppMetadata.Provider,
	}
	if claims.IssuedAt != nil {
		enhanced.CreatedAt = claims.IssuedAt.Format(time.RFC3339)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		logger.Error("Invalid user ID in token", "user_id", claims.Subject, "error", err)
	} else if profile, err := sessions.GetProfile(ctx, userID); err != nil {
		logger.Info("Profile not found, using default role", "user_id", claims.Subject, "error", err)
	} else {
		if profile.Role != "" {
			enhanced.Role = profile.Role
		}
		if profile.FullName != "" {
			enhanced.Fullname = profile.FullName
		}
		if profile.AvatarURL != "" {
			enhanced.AvatarURL = profile.AvatarURL
		}
		enhanced.PhoneNumber = profile.PhoneNumber
		enhanced.CreatedAt = profile.CreatedAt.Format(time.RFC3339)
	}

	if enhanced.Role == "guest" && slices.Contains(claims.AppMetadata.Roles, "admin") {
		enhanced.Role = "admin"
	}
	return enhanced
}

func unauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Unauthorized access",
		"error":   reason,
	})
}
