package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/SscSPs/pettycash_backend/internal/middleware"
	"github.com/SscSPs/pettycash_backend/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

// GoogleOAuthHandler drives the browser redirect flow of Google sign-in.
type GoogleOAuthHandler struct {
	auth        *AuthHandler
	frontendURL string
	secure      bool
}

// registerGoogleOAuthRoutes registers the Google redirect flow routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, auth *AuthHandler, frontendURL string, secure bool) {
	h := &GoogleOAuthHandler{auth: auth, frontendURL: frontendURL, secure: secure}
	googleRoutes := rg.Group("/auth/google")
	{
		googleRoutes.GET("/login", h.Login)
		googleRoutes.GET("/callback", h.Callback)
	}
}

// firstOrigin picks the first configured frontend origin.
func firstOrigin(origins string) string {
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			return strings.TrimRight(o, "/")
		}
	}
	return ""
}

// Login godoc
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen with a CSRF state cookie.
// @Tags oauth
// @Success 307
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.auth.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		handleServiceError(c, err, "Failed to start Google sign-in")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.auth.googleOAuthService.GetGoogleLoginURL(ctx, state))
}

// Callback godoc
// @Summary Complete Google sign-in
// @Description Exchanges the authorization code, validates the ID token and redirects to the frontend with the access token in the URL fragment.
// @Tags oauth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Failure 400 {object} response.Body
// @Failure 401 {object} response.Body
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		logger.Warn("Google callback with mismatched state")
		response.BadRequest(c, "invalid OAuth state")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secure, true)

	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "authorization code is required")
		return
	}

	oauthToken, err := h.auth.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Warn("Failed to exchange authorization code with Google", zap.Error(err))
		response.Unauthorized(c, "invalid or expired authorization code")
		return
	}
	idToken, _ := oauthToken.Extra("id_token").(string)
	if idToken == "" {
		logger.Error("ID token not found in Google's token response")
		response.Unauthorized(c, "Google did not return an ID token")
		return
	}

	user, err := h.auth.userFromGoogleIDToken(ctx, idToken)
	if err != nil {
		handleServiceError(c, err, "Failed to sign in with Google")
		return
	}
	token, _, err := h.auth.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		handleServiceError(c, err, "Failed to generate access token")
		return
	}

	logger.Info("User signed in with Google", zap.String("user_id", user.UserID))
	c.Redirect(http.StatusTemporaryRedirect, firstOrigin(h.frontendURL)+"/auth/callback#token="+url.QueryEscape(token))
}
