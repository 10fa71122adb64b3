// Package handler exposes the auth flows over HTTP. Error kinds are mapped to
// status codes here, at the boundary; the service never sees HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"online-shop/backend/internal/audit"
	"online-shop/backend/internal/auth/service"
)

// statusByKind maps auth error kinds to HTTP status codes. Anything not in
// the table is an infrastructure fault and surfaces as a generic 500.
var statusByKind = map[error]int{
	service.ErrInvalidCredentials:  http.StatusUnauthorized,
	service.ErrInvalidRefreshToken: http.StatusUnauthorized,
	service.ErrDuplicateEmail:      http.StatusBadRequest,
}

// AuthHandler wires the auth service to gin routes.
type AuthHandler struct {
	auth  *service.AuthService
	audit audit.Producer
}

// NewAuthHandler returns an AuthHandler. producer may be nil (audit disabled).
func NewAuthHandler(auth *service.AuthService, producer audit.Producer) *AuthHandler {
	return &AuthHandler{auth: auth, audit: producer}
}

// Register wires the auth routes onto the given router.
func (h *AuthHandler) Register(r gin.IRouter) {
	g := r.Group("/auth")
	g.POST("/login", h.login)
	g.POST("/register", h.register)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout)
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	device := c.GetHeader("User-Agent")

	start := time.Now()
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, device)
	h.emit(c, "login", device, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	device := c.GetHeader("User-Agent")

	start := time.Now()
	pair, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, device)
	h.emit(c, "register", device, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	device := c.GetHeader("User-Agent")

	start := time.Now()
	pair, err := h.auth.Refresh(c.Request.Context(), req.Refresh, device)
	h.emit(c, "refresh", device, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	device := c.GetHeader("User-Agent")

	start := time.Now()
	err := h.auth.Logout(c.Request.Context(), req.Refresh)
	h.emit(c, "logout", device, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps a service error to its fixed status and message. No
// internal detail (which field mismatched, signature vs expiry) leaks out.
func writeError(c *gin.Context, err error) {
	for kind, status := range statusByKind {
		if errors.Is(err, kind) {
			c.JSON(status, gin.H{"error": kind.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// emit publishes the flow outcome as an audit event, best-effort in the
// background so Kafka latency never delays the response.
func (h *AuthHandler) emit(c *gin.Context, eventType, device string, start time.Time, flowErr error) {
	if h.audit == nil {
		return
	}
	outcome := "ok"
	if flowErr != nil {
		outcome = flowErr.Error()
	}
	event := &audit.Event{
		EventType:  eventType,
		UserID:     c.GetString("user_id"),
		Device:     device,
		Outcome:    outcome,
		DurationMs: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.audit.Emit(emitCtx, event)
	}()
}
