package handlers

import (
	"errors"
	"net/http"
	"time"

	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// authResponse is returned by sign-up and sign-in.
type authResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}

// authErrorStatus picks the status for a failed sign-up or sign-in.
func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyUsername),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrEmptyPassword):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, "username already exists"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusUnauthorized, "user not found"
	case errors.Is(err, service.ErrWrongPassword):
		return http.StatusUnauthorized, "wrong password"
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errStoreUnavailable
	default:
		return http.StatusInternalServerError, errInternal
	}
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	sess, token, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		code, msg := authErrorStatus(err)
		if code >= http.StatusInternalServerError {
			h.logAndJSONError(c, code, msg, "auth_sign_up_failed", err, "username", input.Username)
			return
		}
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "username", input.Username, "err", err)
		}
		c.JSON(code, gin.H{"error": msg})
		return
	}

	if h.log != nil {
		h.log.Infow("auth_signed_up", "username", sess.Username, "session", sess.ID)
	}
	c.JSON(http.StatusCreated, newAuthResponse(sess, token))
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string  "user not found | wrong password"
// @Failure      503   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	sess, token, err := h.services.SignIn(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		code, msg := authErrorStatus(err)
		if code >= http.StatusInternalServerError {
			h.logAndJSONError(c, code, msg, "auth_sign_in_failed", err, "username", input.Username)
			return
		}
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
		}
		c.JSON(code, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(sess, token))
}

// @Summary      Log out
// @Description  Ends the session; its token is rejected afterwards.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *Handler) logout(c *gin.Context) {
	sess := currentSession(c)
	if err := h.services.Logout(sess.ID); err != nil {
		if h.log != nil {
			h.log.Infow("auth_logout_failed", "username", sess.Username, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session already ended"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusLoggedOut})
}

func newAuthResponse(sess service.Session, token string) authResponse {
	return authResponse{
		Token:     token,
		Username:  sess.Username,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	}
}
