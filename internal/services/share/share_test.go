package share

import (
	"context"
	"testing"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShareLinkRepo struct {
	repositories.ShareLinkRepository

	links map[string]*models.ShareLink
}

func (f *fakeShareLinkRepo) FindByShareCode(code string) (*models.ShareLink, error) {
	return f.links[code], nil
}

func (f *fakeShareLinkRepo) Create(link *models.ShareLink) error {
	if f.links == nil {
		f.links = make(map[string]*models.ShareLink)
	}
	link.ID = uint64(len(f.links) + 1)
	f.links[link.ShareCode] = link
	return nil
}

type fakeGalleryRepo struct {
	repositories.GalleryRepository

	galleries map[uint64]*models.Gallery
}

func (f *fakeGalleryRepo) FindByID(id uint64) (*models.Gallery, error) {
	if g, ok := f.galleries[id]; ok {
		return g, nil
	}
	return nil, xerr.ErrGalleryNotFound
}

func activeLink(code string) *models.ShareLink {
	return &models.ShareLink{
		ID:        1,
		GalleryID: 42,
		ShareCode: code,
		Role:      models.ShareRoleGuest,
		Status:    models.ShareLinkStatusActive,
		Gallery:   &models.Gallery{ID: 42, UserID: 7, Status: models.GalleryStatusNormal, GuestUpload: true},
	}
}

func TestResolveShareCodeValid(t *testing.T) {
	repo := &fakeShareLinkRepo{links: map[string]*models.ShareLink{"abc": activeLink("abc")}}
	svc := NewShareService(repo, &fakeGalleryRepo{})

	link, err := svc.ResolveShareCode(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), link.GalleryID)
}

func TestResolveShareCodeUnknown(t *testing.T) {
	svc := NewShareService(&fakeShareLinkRepo{}, &fakeGalleryRepo{})

	_, err := svc.ResolveShareCode(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, xerr.ShareLinkNotFoundCode, xerr.CodeOf(err))
}

func TestResolveShareCodeRevoked(t *testing.T) {
	link := activeLink("abc")
	link.Status = models.ShareLinkStatusRevoked
	svc := NewShareService(&fakeShareLinkRepo{links: map[string]*models.ShareLink{"abc": link}}, &fakeGalleryRepo{})

	_, err := svc.ResolveShareCode(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, xerr.ShareLinkRevokedCode, xerr.CodeOf(err))
}

func TestResolveShareCodeExpired(t *testing.T) {
	link := activeLink("abc")
	past := time.Now().Add(-time.Hour)
	link.ExpireTime = &past
	svc := NewShareService(&fakeShareLinkRepo{links: map[string]*models.ShareLink{"abc": link}}, &fakeGalleryRepo{})

	_, err := svc.ResolveShareCode(context.Background(), "abc")
	require.Error(t, err)
	// 过期与撤销要能区分，客户端提示不同
	assert.Equal(t, xerr.ShareLinkExpiredCode, xerr.CodeOf(err))
}

func TestCreateShareLinkGeneratesCode(t *testing.T) {
	galleryRepo := &fakeGalleryRepo{galleries: map[uint64]*models.Gallery{
		42: {ID: 42, UserID: 7, Status: models.GalleryStatusNormal},
	}}
	repo := &fakeShareLinkRepo{}
	svc := NewShareService(repo, galleryRepo)

	link, err := svc.CreateShareLink(context.Background(), 7, 42, models.ShareRoleContributor, nil, nil)
	require.NoError(t, err)
	assert.Len(t, link.ShareCode, 32)
	assert.Equal(t, models.ShareRoleContributor, link.Role)
}

func TestCreateShareLinkRejectsForeignGallery(t *testing.T) {
	galleryRepo := &fakeGalleryRepo{galleries: map[uint64]*models.Gallery{
		42: {ID: 42, UserID: 7},
	}}
	svc := NewShareService(&fakeShareLinkRepo{}, galleryRepo)

	_, err := svc.CreateShareLink(context.Background(), 999, 42, models.ShareRoleGuest, nil, nil)
	require.Error(t, err)
	assert.Equal(t, xerr.PermissionDeniedCode, xerr.CodeOf(err))
}

func TestCreateShareLinkRejectsUnknownRole(t *testing.T) {
	svc := NewShareService(&fakeShareLinkRepo{}, &fakeGalleryRepo{})

	_, err := svc.CreateShareLink(context.Background(), 7, 42, "superuser", nil, nil)
	require.Error(t, err)
	assert.Equal(t, xerr.InvalidParamsCode, xerr.CodeOf(err))
}
