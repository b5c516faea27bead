package share

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/logger"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShareService 上传链接的签发、撤销与解析
type ShareService interface {
	CreateShareLink(ctx context.Context, userID, galleryID uint64, role string, label *string, expireTime *time.Time) (*models.ShareLink, error)
	ListShareLinks(ctx context.Context, userID, galleryID uint64) ([]models.ShareLink, error)
	RevokeShareLink(ctx context.Context, userID, galleryID, linkID uint64) error

	// ResolveShareCode 解析 URL 中的链接码并做有效性校验，供公开上传接口使用
	ResolveShareCode(ctx context.Context, code string) (*models.ShareLink, error)
}

type shareService struct {
	shareLinkRepo repositories.ShareLinkRepository
	galleryRepo   repositories.GalleryRepository
}

var _ ShareService = (*shareService)(nil)

func NewShareService(shareLinkRepo repositories.ShareLinkRepository, galleryRepo repositories.GalleryRepository) ShareService {
	return &shareService{
		shareLinkRepo: shareLinkRepo,
		galleryRepo:   galleryRepo,
	}
}

func validRole(role string) bool {
	switch role {
	case models.ShareRoleGuest, models.ShareRoleContributor, models.ShareRoleBooth:
		return true
	}
	return false
}

// 链接码取 UUID 去掉连字符，32 位，够短且不可猜测
func newShareCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *shareService) getOwnedGallery(userID, galleryID uint64) (*models.Gallery, error) {
	gallery, err := s.galleryRepo.FindByID(galleryID)
	if err != nil {
		if xerr.Is(err, xerr.ErrGalleryNotFound) {
			return nil, xerr.NewCodeError(xerr.GalleryNotFoundCode, err)
		}
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	if gallery.UserID != userID {
		return nil, xerr.NewCodeError(xerr.PermissionDeniedCode, xerr.ErrPermissionDenied)
	}
	return gallery, nil
}

func (s *shareService) CreateShareLink(ctx context.Context, userID, galleryID uint64, role string, label *string, expireTime *time.Time) (*models.ShareLink, error) {
	if !validRole(role) {
		return nil, xerr.NewCodeError(xerr.InvalidParamsCode, fmt.Errorf("未知链接角色: %s", role))
	}
	if expireTime != nil && expireTime.Before(time.Now()) {
		return nil, xerr.NewCodeError(xerr.InvalidParamsCode, fmt.Errorf("过期时间早于当前时间"))
	}
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return nil, err
	}

	link := &models.ShareLink{
		GalleryID:  galleryID,
		ShareCode:  newShareCode(),
		Role:       role,
		Label:      label,
		ExpireTime: expireTime,
		Status:     models.ShareLinkStatusActive,
	}
	if err := s.shareLinkRepo.Create(link); err != nil {
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("创建上传链接失败: %w", err))
	}
	logger.Info("Share link created",
		zap.Uint64("galleryID", galleryID),
		zap.String("role", role),
		zap.String("shareCode", link.ShareCode))
	return link, nil
}

func (s *shareService) ListShareLinks(ctx context.Context, userID, galleryID uint64) ([]models.ShareLink, error) {
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return nil, err
	}
	links, err := s.shareLinkRepo.FindAllByGalleryID(galleryID)
	if err != nil {
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	return links, nil
}

func (s *shareService) RevokeShareLink(ctx context.Context, userID, galleryID, linkID uint64) error {
	if _, err := s.getOwnedGallery(userID, galleryID); err != nil {
		return err
	}
	link, err := s.shareLinkRepo.FindByID(linkID)
	if err != nil {
		return xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	if link == nil || link.GalleryID != galleryID {
		return xerr.NewCodeError(xerr.ShareLinkNotFoundCode, xerr.ErrShareLinkNotFound)
	}
	if err := s.shareLinkRepo.Revoke(linkID); err != nil {
		return xerr.NewCodeError(xerr.DatabaseErrorCode, fmt.Errorf("撤销上传链接失败: %w", err))
	}
	logger.Info("Share link revoked", zap.Uint64("linkID", linkID), zap.Uint64("galleryID", galleryID))
	return nil
}

// ResolveShareCode 的校验顺序：存在 -> 未撤销 -> 未过期 -> 图库仍正常
// 撤销与过期返回不同错误码，客户端提示语不同
func (s *shareService) ResolveShareCode(ctx context.Context, code string) (*models.ShareLink, error) {
	if code == "" {
		return nil, xerr.NewCodeError(xerr.ShareLinkNotFoundCode, xerr.ErrShareLinkNotFound)
	}
	link, err := s.shareLinkRepo.FindByShareCode(code)
	if err != nil {
		return nil, xerr.NewCodeError(xerr.DatabaseErrorCode, err)
	}
	if link == nil {
		return nil, xerr.NewCodeError(xerr.ShareLinkNotFoundCode, xerr.ErrShareLinkNotFound)
	}
	if link.Status == models.ShareLinkStatusRevoked {
		return nil, xerr.NewCodeError(xerr.ShareLinkRevokedCode, xerr.ErrShareLinkRevoked)
	}
	if link.IsExpired(time.Now()) {
		return nil, xerr.NewCodeError(xerr.ShareLinkExpiredCode, xerr.ErrShareLinkExpired)
	}
	if link.Gallery == nil || link.Gallery.Status != models.GalleryStatusNormal {
		return nil, xerr.NewCodeError(xerr.GalleryNotFoundCode, xerr.ErrGalleryNotFound)
	}
	return link, nil
}
