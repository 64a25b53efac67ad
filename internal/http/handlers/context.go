package handlers

import (
	"github.com/inkwell-blog/internal/models"
	"github.com/inkwell-blog/internal/service"

	"github.com/gin-gonic/gin"
)

// currentUser 从上下文取认证中间件写入的用户
func currentUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// currentClaims 从上下文取当前 token 声明
func currentClaims(c *gin.Context) (*service.JWTClaims, bool) {
	value, ok := c.Get("claims")
	if !ok {
		return nil, false
	}
	claims, ok := value.(*service.JWTClaims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
