package admin

import (
	"errors"
	"fmt"
	"log"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/utils"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	RegisterUser(username, password, email, studioName string) (*models.User, error)
	LoginUser(identifier, password string) (string, error)
	RefreshToken(userID uint64) (string, error)
}

type authService struct {
	userRepo repositories.UserRepository
	cfg      *config.JWTConfig
}

// 确保authService实现了AuthService的方法
var _ AuthService = (*authService)(nil)

func NewAuthService(userRepo repositories.UserRepository, cfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) RegisterUser(username, password, email, studioName string) (*models.User, error) {
	//检查用户名是否存在
	existingUser, err := s.userRepo.GetUserByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if existingUser != nil {
		return nil, errors.New("username already exists")
	}

	//检查邮箱是否存在
	existingUser, err = s.userRepo.GetUserByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existingUser != nil {
		return nil, errors.New("email already exists")
	}

	//哈希密码
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	//创建用户模型
	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Email:        email,
		Role:         models.RolePhotographer,
	}
	if studioName != "" {
		user.StudioName = &studioName
	}

	err = s.userRepo.CreateUser(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user in database: %w", err)
	}

	log.Printf("User registered successfully: %s", user.Username)
	return user, nil
}

func (s *authService) LoginUser(identifier, password string) (string, error) {
	var user *models.User
	var err error

	// 先按用户名找，找不到再按邮箱找
	user, err = s.userRepo.GetUserByUsername(identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to get user by username: %w", err)
		}
		user, err = s.userRepo.GetUserByEmail(identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", errors.New("user not found") // 用户名和邮箱都未找到
			}
			return "", fmt.Errorf("failed to get user by email: %w", err)
		}
	}

	//验证密码
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", errors.New("invalid credentials") // 密码不匹配
		}
		return "", fmt.Errorf("failed to compare password: %w", err)
	}

	//生成JWT Token
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, s.cfg.SecretKey, s.cfg.Issuer, s.cfg.ExpiresIn)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func (s *authService) RefreshToken(userID uint64) (string, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user for refresh: %w", err)
	}
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, s.cfg.SecretKey, s.cfg.Issuer, s.cfg.ExpiresIn)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
