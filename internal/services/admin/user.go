package admin

import (
	"errors"
	"fmt"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"go.uber.org/zap"
)

type UserService interface {
	GetUserProfile(userID uint64) (*models.User, error)
	ListUsers(page, pageSize int) ([]models.User, int64, error)
	// SetGalleryPremium 管理员开关某图库的 premium 标记，premium 图库不受 lite 批次上限约束
	SetGalleryPremium(galleryID uint64, premium bool) (*models.Gallery, error)
	// SetGuestUpload 管理员开关某图库的访客上传
	SetGuestUpload(galleryID uint64, enabled bool) (*models.Gallery, error)
}

type userService struct {
	userRepo    repositories.UserRepository
	galleryRepo repositories.GalleryRepository
}

var _ UserService = (*userService)(nil)

func NewUserService(userRepo repositories.UserRepository, galleryRepo repositories.GalleryRepository) UserService {
	return &userService{userRepo: userRepo, galleryRepo: galleryRepo}
}

func (s *userService) GetUserProfile(userID uint64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Error("GetUserProfile: Error retrieving user from DB",
			zap.Uint64("userID", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	if user == nil {
		logger.Warn("GetUserProfile: User not found", zap.Uint64("userID", userID))
		return nil, errors.New("user not found")
	}

	logger.Info("GetUserProfile: User profile retrieved successfully", zap.Uint64("userID", userID))
	return user, nil
}

func (s *userService) ListUsers(page, pageSize int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.userRepo.ListUsers(page, pageSize)
}

func (s *userService) SetGalleryPremium(galleryID uint64, premium bool) (*models.Gallery, error) {
	gallery, err := s.galleryRepo.FindByID(galleryID)
	if err != nil {
		return nil, err
	}
	gallery.Premium = premium
	if err := s.galleryRepo.Update(gallery); err != nil {
		return nil, fmt.Errorf("failed to update gallery premium flag: %w", err)
	}
	logger.Info("Gallery premium flag updated", zap.Uint64("galleryID", galleryID), zap.Bool("premium", premium))
	return gallery, nil
}

func (s *userService) SetGuestUpload(galleryID uint64, enabled bool) (*models.Gallery, error) {
	gallery, err := s.galleryRepo.FindByID(galleryID)
	if err != nil {
		return nil, err
	}
	gallery.GuestUpload = enabled
	if err := s.galleryRepo.Update(gallery); err != nil {
		return nil, fmt.Errorf("failed to update gallery guest upload flag: %w", err)
	}
	logger.Info("Gallery guest upload flag updated", zap.Uint64("galleryID", galleryID), zap.Bool("enabled", enabled))
	return gallery, nil
}
