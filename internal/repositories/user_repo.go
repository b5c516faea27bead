package repositories

import (
	"errors"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint64) (*models.User, error)
	ListUsers(page, pageSize int) ([]models.User, int64, error)
	UpdateUser(user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

var _ UserRepository = (*userRepository)(nil)

// NewUserRepository 创建一个新的 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *models.User) error {
	err := r.db.Create(user).Error
	if err != nil {
		logger.Error("Error creating user", zap.Error(err))
		return err
	}
	return nil
}

func (r *userRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) { // 使用 errors.Is 更安全
			return nil, gorm.ErrRecordNotFound
		}
		logger.Error("Error getting user by username", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		logger.Error("Error getting user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(id uint64) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		logger.Error("Error getting user by ID", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListUsers(page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error
	if err != nil {
		logger.Error("Error listing users", zap.Error(err))
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) UpdateUser(user *models.User) error {
	err := r.db.Save(user).Error
	if err != nil {
		logger.Error("Error updating user", zap.Uint64("id", user.ID), zap.Error(err))
		return err
	}
	return nil
}
