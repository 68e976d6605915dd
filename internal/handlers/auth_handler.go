package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/middleware"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/services"
)

// AuthOptions carries what the auth handlers need from the configuration.
type AuthOptions struct {
	FrontendURL   string
	SecureCookies bool
}

func SignUp(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		res, err := u.SignUp(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Check your email to confirm your account",
			"user_id": res.User.ID,
		})
	}
}

func Login(u *services.UserService, opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		tokenRes, err := u.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "message": "invalid email or password"})
			return
		}
		if tokenRes.AccessToken == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid token response"})
			return
		}

		helpers.SetSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn, opts.SecureCookies)
		c.JSON(http.StatusOK, gin.H{"user": tokenRes.User})
	}
}

// OAuthStart sends the browser to the provider. The PKCE verifier is kept in
// a short-lived cookie until the callback.
func OAuthStart(u *services.UserService, opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		callback := requestBaseURL(c) + "/auth/callback"
		if next := c.Query("next"); safeNext(next) {
			callback += "?next=" + url.QueryEscape(next)
		}

		authURL, verifier, err := u.StartOAuth(c.Request.Context(), c.Param("provider"), callback)
		if err != nil {
			respondError(c, err)
			return
		}

		helpers.SetPKCEVerifier(c, verifier, opts.SecureCookies)
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// OAuthCallback exchanges the provider's code for a session and hands the
// browser back to the frontend.
func OAuthCallback(u *services.UserService, opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		frontend := strings.TrimRight(opts.FrontendURL, "/")

		if errCode := c.Query("error"); errCode != "" {
			redirectSignInError(c, frontend, errCode, c.Query("error_description"))
			return
		}

		verifier, _ := c.Cookie(helpers.PKCEVerifierCookie)
		tokenRes, err := u.ExchangeCode(c.Request.Context(), c.Query("code"), verifier)
		helpers.ClearPKCEVerifier(c, opts.SecureCookies)
		if err != nil {
			redirectSignInError(c, frontend, "exchange_failed", err.Error())
			return
		}

		helpers.SetSessionCookies(c, tokenRes.AccessToken, tokenRes.RefreshToken, tokenRes.ExpiresIn, opts.SecureCookies)

		next := c.Query("next")
		if !safeNext(next) {
			next = "/"
		}
		c.Redirect(http.StatusTemporaryRedirect, frontend+next)
	}
}

func Logout(u *services.UserService, opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := helpers.BearerOrCookie(c); token != "" {
			if err := u.Logout(c.Request.Context(), token); err != nil {
				_ = c.Error(err)
			}
		}

		helpers.ClearSessionCookies(c, opts.SecureCookies)
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
	}
}

func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
			return
		}
		user, err := services.SessionUserFromClaims(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.NewErrorResponse(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func redirectSignInError(c *gin.Context, frontend, code, description string) {
	q := url.Values{}
	q.Set("error", code)
	if description != "" {
		q.Set("error_description", description)
	}
	c.Redirect(http.StatusTemporaryRedirect, frontend+"/auth/signin?"+q.Encode())
}

// safeNext accepts only same-site absolute paths.
func safeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\")
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
