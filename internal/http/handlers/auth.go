package handlers

import (
	"errors"
	"net/http"

	"github.com/inkwell-blog/internal/constants"
	"github.com/inkwell-blog/internal/http/response"
	"github.com/inkwell-blog/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录，签发 bearer token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.recordLoginAttempt(c, 0, req.Email, constants.LoginLogStatusFailed, constants.LoginLogFailReasonBadCredentials)
			respondError(c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		h.recordLoginAttempt(c, 0, req.Email, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInternalError)
		respondError(c, http.StatusInternalServerError, "login failed", err)
		return
	}

	h.recordLoginAttempt(c, user.ID, user.Email, constants.LoginLogStatusSuccess, "")
	requestLog(c).Infow("user_login", "user_id", user.ID, "email", user.Email)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// Logout 注销当前 token
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.AuthService.Logout(claims); err != nil {
		respondError(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	requestLog(c).Infow("user_logout", "user_id", claims.UserID)
	response.Success(c, gin.H{"logged_out": true})
}

// recordLoginAttempt 写登录日志，失败仅告警不影响主流程
func (h *Handler) recordLoginAttempt(c *gin.Context, userID uint, email, status, failReason string) {
	requestID := ""
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			requestID = id
		}
	}
	err := h.LoginLogService.Record(service.RecordLoginInput{
		UserID:     userID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		RequestID:  requestID,
	})
	if err != nil {
		requestLog(c).Warnw("login_log_write_failed", "email", email, "error", err)
	}
}
