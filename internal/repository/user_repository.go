package repository

import (
	"strings"

	"github.com/ManvithReddyyy/vinnu-app/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", strings.ToLower(username)).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error
	return &user, err
}

// FindByLogin matches either the username or the email, both lowercased.
func (r *UserRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	login = strings.ToLower(login)
	err := r.DB.Where("username = ? OR email = ?", login, login).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateFields patches a subset of columns without touching the rest of the
// record.
func (r *UserRepository) UpdateFields(userID uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// ListAll returns the public user directory.
func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	err := r.DB.Select("id", "username", "avatar_url").Find(&users).Error
	return users, err
}

// ListForAdmin returns every account, newest first, for the admin console.
func (r *UserRepository) ListForAdmin() ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("created_at DESC").Find(&users).Error
	return users, err
}

// HardDelete removes the row permanently, bypassing the soft-delete scope.
// Only the superadmin account-deletion path reaches this.
func (r *UserRepository) HardDelete(userID uint) error {
	return r.DB.Unscoped().Delete(&model.User{}, userID).Error
}

func (r *UserRepository) CountUsers() (int64, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountBanned() (int64, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Where("is_banned = ?", true).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountAdmins() (int64, error) {
	var n int64
	err := r.DB.Model(&model.User{}).
		Where("role IN ?", []model.UserRole{model.RoleModerator, model.RoleAdmin, model.RoleSuperAdmin}).
		Count(&n).Error
	return n, err
}
