package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole 校验闭合枚举；空值回落到 user
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.TrimSpace(s)); r {
	case "":
		return RoleUser, true
	case RoleUser, RoleSuperAdmin:
		return r, true
	default:
		return "", false
	}
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191" json:"email"`
	PasswordHash string    `gorm:"size:191" json:"-"`
	Role         Role      `gorm:"size:16;default:user" json:"role"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail 唯一键：小写 + 去空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Public 对外投影，绝不携带密码哈希
type Public struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) Public() Public {
	return Public{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List() ([]User, error)
	Delete(id string) (int64, error)
	DeleteAll() (int64, error)
}
