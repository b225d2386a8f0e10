package service

import "errors"

// 业务错误哨兵，transport 层负责翻译成 HTTP 状态
var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("user already exists")
	ErrBadSuperAdminKey   = errors.New("invalid superadmin key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)
