package handlers

import (
	"errors"
	"net/http"

	"github.com/inkwell-blog/internal/http/response"
	"github.com/inkwell-blog/internal/logger"
	"github.com/inkwell-blog/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLog 提供携带 request_id 的日志实例。
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError 返回错误响应，有原始错误时记录日志。
func respondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, http.StatusInternalServerError, fallbackMsg, err)
}

// 文章接口共用的错误映射
var postCommonErrorRules = []mappedHandlerError{
	{target: service.ErrUnauthorized, code: http.StatusUnauthorized, msg: "unauthorized"},
	{target: service.ErrForbidden, code: http.StatusForbidden, msg: "you are not allowed to manage this post"},
	{target: service.ErrNotFound, code: http.StatusNotFound, msg: "post not found"},
}
