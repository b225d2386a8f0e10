package service

import (
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"

	"go-auth-backend/internal/core/auth"
	"go-auth-backend/internal/domain"
	"go-auth-backend/internal/repo"
	"go-auth-backend/pkg/utils"
)

// Options 进程启动时装配一次，之后只读
type Options struct {
	SuperAdminKey string
	BcryptCost    int
}

type AccountService struct {
	users domain.UserRepository
	jwter *auth.JWTer
	opt   Options
	log   *zap.Logger
}

func NewAccountService(users domain.UserRepository, jwter *auth.JWTer, opt Options, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{users: users, jwter: jwter, opt: opt, log: log}
}

// LoginResult 登录成功返回的载荷
type LoginResult struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
	Email string      `json:"email"`
	ID    string      `json:"id"`
}

// Signup 注册；role 为 superadmin 时必须携带正确的特权建号密钥。
// 邮箱唯一性最终由存储层唯一索引保证，这里的预查只为给出友好错误。
func (s *AccountService) Signup(email, password, role, superAdminKey string) (domain.Public, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.Public{}, ErrInvalidInput
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return domain.Public{}, ErrInvalidRole
	}
	if r == domain.RoleSuperAdmin {
		if s.opt.SuperAdminKey == "" ||
			subtle.ConstantTimeCompare([]byte(superAdminKey), []byte(s.opt.SuperAdminKey)) != 1 {
			s.log.Warn("superadmin signup with bad key", zap.String("email", email))
			return domain.Public{}, ErrBadSuperAdminKey
		}
	}

	if existing, err := s.users.FindByEmail(email); err != nil {
		return domain.Public{}, err
	} else if existing != nil {
		return domain.Public{}, ErrEmailTaken
	}

	hash, err := utils.HashPassword(password, s.opt.BcryptCost)
	if err != nil {
		return domain.Public{}, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		PasswordHash: hash,
		Role:         r,
		IsVerified:   r == domain.RoleSuperAdmin,
	}
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return domain.Public{}, ErrEmailTaken
		}
		return domain.Public{}, err
	}
	s.log.Info("user created", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	return u.Public(), nil
}

// Login 未知邮箱与密码错误对外同一错误，防账号枚举；服务端日志区分两者
func (s *AccountService) Login(email, password string) (LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil {
		s.log.Debug("login: unknown email", zap.String("email", email))
		return LoginResult{}, ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		s.log.Debug("login: wrong password", zap.String("email", email))
		return LoginResult{}, ErrInvalidCredentials
	}
	token, err := s.jwter.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return LoginResult{}, err
	}
	s.log.Info("login ok", zap.String("email", u.Email))
	return LoginResult{Token: token, Role: u.Role, Email: u.Email, ID: u.ID}, nil
}

// CurrentUser 令牌校验通过后按 uid 回查；用户可能在令牌有效期内被删除
func (s *AccountService) CurrentUser(uid string) (domain.Public, error) {
	u, err := s.users.FindByID(uid)
	if err != nil {
		return domain.Public{}, err
	}
	if u == nil {
		return domain.Public{}, ErrUserNotFound
	}
	return u.Public(), nil
}

func (s *AccountService) ListUsers() ([]domain.Public, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Public, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

func (s *AccountService) DeleteUser(id string, actor *auth.Claims) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, ErrInvalidInput
	}
	n, err := s.users.Delete(id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrUserNotFound
	}
	s.log.Info("user deleted", zap.String("id", id), zap.String("actor", actorEmail(actor)))
	return n, nil
}

func (s *AccountService) DeleteAllUsers(actor *auth.Claims) (int64, error) {
	n, err := s.users.DeleteAll()
	if err != nil {
		return 0, err
	}
	s.log.Warn("all users deleted", zap.Int64("count", n), zap.String("actor", actorEmail(actor)))
	return n, nil
}

func actorEmail(c *auth.Claims) string {
	if c == nil {
		return ""
	}
	return c.Email
}
