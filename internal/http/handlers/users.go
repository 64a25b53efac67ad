package handlers

import (
	"errors"
	"net/http"

	"github.com/inkwell-blog/internal/http/response"
	"github.com/inkwell-blog/internal/service"

	"github.com/gin-gonic/gin"
)

// Self 返回当前认证用户
func (h *Handler) Self(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	// 中间件可能只注入缓存中的精简用户，详情从库里取
	full, err := h.UserService.GetByID(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "load user failed", err)
		return
	}
	response.Success(c, full)
}

// ListLoginsRequest 登录记录查询参数
type ListLoginsRequest struct {
	Page        int `form:"page" binding:"omitempty,min=1"`
	RowsPerPage int `form:"rowsPerPage" binding:"omitempty,min=1,max=100"`
}

// ListLogins 返回当前用户的登录记录
func (h *Handler) ListLogins(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req ListLoginsRequest
	if !bindQuery(c, &req) {
		return
	}

	logs, total, err := h.LoginLogService.ListByUser(user.ID, req.Page, req.RowsPerPage)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "list logins failed", err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, resolveRows(req.RowsPerPage), total))
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.UserService.UpdateProfile(user.ID, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileEmpty):
			response.ValidationFailed(c, map[string]string{"body": "nothing to update"})
		case errors.Is(err, service.ErrInvalidEmail):
			response.ValidationFailed(c, map[string]string{"email": "the email field must be a valid email address"})
		case errors.Is(err, service.ErrEmailExists):
			response.ValidationFailed(c, map[string]string{"email": "the email has already been taken"})
		case errors.Is(err, service.ErrWeakPassword):
			response.ValidationFailed(c, map[string]string{"password": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "user not found")
		default:
			respondError(c, http.StatusInternalServerError, "update profile failed", err)
		}
		return
	}

	requestLog(c).Infow("user_profile_updated", "user_id", user.ID)
	response.Success(c, updated)
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"omitempty,oneof=user admin"`
}

// CreateUser 创建用户（管理端）
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.UserService.CreateUser(service.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			response.ValidationFailed(c, map[string]string{"email": "the email field must be a valid email address"})
		case errors.Is(err, service.ErrEmailExists):
			response.ValidationFailed(c, map[string]string{"email": "the email has already been taken"})
		case errors.Is(err, service.ErrWeakPassword):
			response.ValidationFailed(c, map[string]string{"password": err.Error()})
		case errors.Is(err, service.ErrInvalidRole):
			response.ValidationFailed(c, map[string]string{"role": "the role field must be one of: user admin"})
		default:
			respondError(c, http.StatusInternalServerError, "create user failed", err)
		}
		return
	}

	requestLog(c).Infow("user_created", "user_id", user.ID, "email", user.Email, "role", user.Role)
	response.Created(c, user)
}
