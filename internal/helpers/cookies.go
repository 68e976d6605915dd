package helpers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	PKCEVerifierCookie = "pkce_verifier"
	SessionIDCookie    = "session_id"

	refreshTokenMaxAge = 3600 * 24 * 30
	pkceMaxAge         = 600
)

func SetSessionCookies(c *gin.Context, accessToken, refreshToken string, expiresIn int, secure bool) {
	c.SetCookie(AccessTokenCookie, accessToken, expiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, refreshTokenMaxAge, "/", "", secure, true)
}

func ClearSessionCookies(c *gin.Context, secure bool) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(SessionIDCookie, "", -1, "/", "", false, true)
}

func SetPKCEVerifier(c *gin.Context, verifier string, secure bool) {
	c.SetCookie(PKCEVerifierCookie, verifier, pkceMaxAge, "/", "", secure, true)
}

func ClearPKCEVerifier(c *gin.Context, secure bool) {
	c.SetCookie(PKCEVerifierCookie, "", -1, "/", "", secure, true)
}

// BearerOrCookie returns the access token from the Authorization header,
// falling back to the access_token cookie.
func BearerOrCookie(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	token, _ := c.Cookie(AccessTokenCookie)
	return token
}
