package service

import "errors"

// 业务错误哨兵，handler 层据此映射 HTTP 状态码
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already taken")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("incorrect password")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrProfileEmpty       = errors.New("nothing to update")
	ErrTitleExists        = errors.New("title already taken")
	ErrInvalidPostStatus  = errors.New("invalid post status")
	ErrInvalidRole        = errors.New("invalid role")
)
