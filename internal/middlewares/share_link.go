package middlewares

import (
	"net/http"

	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/share"
	"github.com/gin-gonic/gin"
)

const (
	// 中间件写入 Gin Context 的键
	CtxShareLink = "shareLink"
	CtxGallery   = "gallery"
)

// ShareLinkMiddleware 解析 URL 中的 :share_link 段
// 校验通过后把链接与所属图库放进 Context，供公开上传 Handler 使用
// roles 非空时还要求链接角色在其中
func ShareLinkMiddleware(shareService share.ShareService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("share_link")
		link, err := shareService.ResolveShareCode(c.Request.Context(), code)
		if err != nil {
			bizCode := xerr.CodeOf(err)
			status := http.StatusForbidden
			if bizCode == xerr.ShareLinkNotFoundCode || bizCode == xerr.GalleryNotFoundCode {
				status = http.StatusNotFound
			} else if bizCode == xerr.DatabaseErrorCode {
				status = http.StatusInternalServerError
			}
			xerr.AbortWithError(c, status, bizCode, err.Error())
			return
		}

		if len(roles) > 0 {
			matched := false
			for _, r := range roles {
				if link.Role == r {
					matched = true
					break
				}
			}
			if !matched {
				xerr.AbortWithError(c, http.StatusForbidden, xerr.ShareLinkWrongRoleCode, xerr.ErrShareLinkWrongRole.Error())
				return
			}
		}

		// 访客链接还受图库开关控制，协作/拍照亭链接不受影响
		if link.Role == models.ShareRoleGuest && !link.Gallery.GuestUpload {
			xerr.AbortWithError(c, http.StatusForbidden, xerr.UploadDisabledCode, xerr.ErrUploadDisabled.Error())
			return
		}

		c.Set(CtxShareLink, link)
		c.Set(CtxGallery, link.Gallery)
		c.Next()
	}
}

// ShareLinkFromContext 取出中间件写入的链接记录
func ShareLinkFromContext(c *gin.Context) (*models.ShareLink, bool) {
	v, exists := c.Get(CtxShareLink)
	if !exists {
		xerr.AbortWithError(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Share link not found in context")
		return nil, false
	}
	link, ok := v.(*models.ShareLink)
	if !ok {
		xerr.AbortWithError(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Invalid share link type in context")
		return nil, false
	}
	return link, true
}
