package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/inkwell-blog/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON 绑定 JSON 请求体，校验失败直接返回 422 字段错误表。
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ValidationFailed(c, extractFieldErrors(req, err))
		return false
	}
	return true
}

// bindQuery 绑定查询参数，校验失败直接返回 422 字段错误表。
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ValidationFailed(c, extractFieldErrors(req, err))
		return false
	}
	return true
}

// extractFieldErrors 把校验错误转成 {字段: 消息}，字段名取请求结构体的 json/form tag。
func extractFieldErrors(req interface{}, err error) map[string]string {
	fields := map[string]string{}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["body"] = "malformed request"
		return fields
	}

	names := wireFieldNames(req)
	for _, fe := range validationErrors {
		name := names[fe.Field()]
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		fields[name] = fieldErrorMessage(name, fe)
	}
	return fields
}

func fieldErrorMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", name)
	case "min":
		return fmt.Sprintf("the %s field must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("the %s field may not be greater than %s characters", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("the %s field must be one of: %s", name, fe.Param())
	case "url":
		return fmt.Sprintf("the %s field must be a valid URL", name)
	case "datetime":
		return fmt.Sprintf("the %s field must be a date in %s format", name, fe.Param())
	case "email":
		return fmt.Sprintf("the %s field must be a valid email address", name)
	default:
		return fmt.Sprintf("the %s field is invalid", name)
	}
}

// wireFieldNames 结构体字段名到 json/form tag 名的映射
func wireFieldNames(req interface{}) map[string]string {
	names := map[string]string{}
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" {
			tag = field.Tag.Get("form")
		}
		tag = strings.SplitN(tag, ",", 2)[0]
		if tag != "" && tag != "-" {
			names[field.Name] = tag
		}
	}
	return names
}
