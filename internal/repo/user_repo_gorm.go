package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"go-auth-backend/internal/domain"
)

// ErrEmailTaken 唯一索引冲突（并发注册也由它兜底）
var ErrEmailTaken = errors.New("email already registered")

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u *domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	if err := r.db.Create(u).Error; err != nil {
		if isDupKey(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "email = ?", domain.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List() ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) Delete(id string) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&domain.User{})
	return res.RowsAffected, res.Error
}

func (r *UserRepo) DeleteAll() (int64, error) {
	res := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.User{})
	return res.RowsAffected, res.Error
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动/版本差异
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
