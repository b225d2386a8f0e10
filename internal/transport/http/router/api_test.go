package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-auth-backend/internal/core/auth"
	"go-auth-backend/internal/domain"
	"go-auth-backend/internal/repo"
	"go-auth-backend/internal/service"
	"go-auth-backend/internal/transport/http/handler"
)

func init() { gin.SetMode(gin.TestMode) }

// memUserRepo 内存存储，唯一键语义与 gorm 实现一致
type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*domain.User)}
}

func (m *memUserRepo) Create(u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return repo.ErrEmailTaken
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUserRepo) FindByID(id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[domain.NormalizeEmail(email)]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUserRepo) List() ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.byEmail))
	for _, u := range m.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUserRepo) Delete(id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.byEmail {
		if u.ID == id {
			delete(m.byEmail, email)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memUserRepo) DeleteAll() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.byEmail))
	m.byEmail = make(map[string]*domain.User)
	return n, nil
}

const superAdminKey = "sk-test"

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	log := zap.NewNop()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	users := newMemUserRepo()
	accounts := service.NewAccountService(users, jwter, service.Options{
		SuperAdminKey: superAdminKey,
		BcryptCost:    4,
	}, log)
	authH := handler.NewAuthHandler(accounts, nil, 0)
	adminH := handler.NewAdminHandler(accounts, nil)
	return NewAPIEngine(log, authH, adminH, jwter)
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func signup(t *testing.T, r *gin.Engine, email, password, role, key string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email": email, "password": password, "role": role, "superAdminKey": key,
	})
}

func login(t *testing.T, r *gin.Engine, email, password string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	if w.Code != http.StatusOK {
		return "", w
	}
	body := decode(t, w)
	tok, _ := body["token"].(string)
	return tok, w
}

func TestUserJourney(t *testing.T) {
	r := newTestEngine(t)

	// signup → 201
	w := signup(t, r, "a@x.com", "pw123456", "", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	u := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", u["email"])
	assert.Equal(t, "user", u["role"])

	// login → 200，token 非空
	tok, w := login(t, r, "a@x.com", "pw123456")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, tok)
	body = decode(t, w)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "user", body["role"])
	assert.NotEmpty(t, body["id"])

	// /me → 200
	w = doJSON(r, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "a@x.com", me["email"])
	assert.NotContains(t, w.Body.String(), "passwordHash")

	// 普通用户访问 /users → 403
	w = doJSON(r, http.MethodGet, "/api/auth/users", tok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestSignup_Validation(t *testing.T) {
	r := newTestEngine(t)

	w := signup(t, r, "", "pw123456", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email and password are required")

	w = signup(t, r, "a@x.com", "", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = signup(t, r, "a@x.com", "pw123456", "root", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid role")
}

func TestSignup_Duplicate(t *testing.T) {
	r := newTestEngine(t)

	w := signup(t, r, "a@x.com", "pw123456", "", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = signup(t, r, " A@X.com ", "other-pw", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestSignup_SuperAdmin(t *testing.T) {
	r := newTestEngine(t)

	// 错误密钥 → 403
	w := signup(t, r, "root@x.com", "pw123456", "superadmin", "wrong")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid superadmin key")

	// 正确密钥 → 201
	w = signup(t, r, "root@x.com", "pw123456", "superadmin", superAdminKey)
	require.Equal(t, http.StatusCreated, w.Code)
	u := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "superadmin", u["role"])
}

func TestLogin_InvalidCredentialsParity(t *testing.T) {
	r := newTestEngine(t)
	w := signup(t, r, "a@x.com", "pw123456", "", "")
	require.Equal(t, http.StatusCreated, w.Code)

	_, wUnknown := login(t, r, "nobody@x.com", "pw123456")
	_, wWrongPw := login(t, r, "a@x.com", "wrong")

	assert.Equal(t, http.StatusBadRequest, wUnknown.Code)
	assert.Equal(t, http.StatusBadRequest, wWrongPw.Code)
	// 对外不可区分
	assert.Equal(t, wUnknown.Body.String(), wWrongPw.Body.String())
	assert.Contains(t, wUnknown.Body.String(), "Invalid credentials")
}

func TestAdminEndpoints(t *testing.T) {
	r := newTestEngine(t)

	require.Equal(t, http.StatusCreated, signup(t, r, "a@x.com", "pw123456", "", "").Code)
	require.Equal(t, http.StatusCreated, signup(t, r, "root@x.com", "pw123456", "superadmin", superAdminKey).Code)

	adminTok, w := login(t, r, "root@x.com", "pw123456")
	require.Equal(t, http.StatusOK, w.Code)
	userTok, w := login(t, r, "a@x.com", "pw123456")
	require.Equal(t, http.StatusOK, w.Code)

	// 无令牌 → 401
	w = doJSON(r, http.MethodGet, "/api/auth/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No authorization token provided")

	// superadmin 列表 → 200，且不泄露密码哈希
	w = doJSON(r, http.MethodGet, "/api/auth/users", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	usersAny := decode(t, w)["users"].([]any)
	assert.Len(t, usersAny, 2)
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "$2a$")

	// 找到普通用户 id
	var userID string
	for _, v := range usersAny {
		m := v.(map[string]any)
		if m["email"] == "a@x.com" {
			userID = m["id"].(string)
		}
	}
	require.NotEmpty(t, userID)

	// 普通用户无权删除
	w = doJSON(r, http.MethodDelete, "/api/auth/users/"+userID, userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// superadmin 删除 → 200 + 计数
	w = doJSON(r, http.MethodDelete, "/api/auth/users/"+userID, adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["deletedCount"])

	// 被删用户的令牌仍可通过验签，但身份已不存在
	w = doJSON(r, http.MethodGet, "/api/auth/me", userTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")

	// 再删同一 id → 404
	w = doJSON(r, http.MethodDelete, "/api/auth/users/"+userID, adminTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 清空 → 剩余 1 个（superadmin 自己）
	w = doJSON(r, http.MethodDelete, "/api/auth/users/all", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["deletedCount"])
}

func TestInfoHealthAndNoRoute(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")

	w = doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/auth/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")

	w = doJSON(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
