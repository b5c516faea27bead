package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/utils"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/share"
	"github.com/gin-gonic/gin"
)

type CreateShareLinkRequest struct {
	Role       string     `json:"role" binding:"required"` // guest / contributor / booth
	Label      *string    `json:"label"`
	ExpireTime *time.Time `json:"expire_time"`
}

// @Summary 创建上传链接
// @Description 为图库签发一个访客/协作者/拍照亭上传链接
// @Tags 上传链接
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param data body CreateShareLinkRequest true "链接参数"
// @Success 200 {object} xerr.Response "创建成功，返回链接码"
// @Failure 400 {object} xerr.Response "参数错误"
// @Router /api/v1/galleries/{gallery_id}/share-links [post]
func CreateShareLinkHandler(shareService share.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		var req CreateShareLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		link, err := shareService.CreateShareLink(c.Request.Context(), currentUserID, galleryID, req.Role, req.Label, req.ExpireTime)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Share link created", link)
	}
}

// @Summary 上传链接列表
// @Tags 上传链接
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Success 200 {object} xerr.Response "链接列表"
// @Router /api/v1/galleries/{gallery_id}/share-links [get]
func ListShareLinksHandler(shareService share.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}

		links, err := shareService.ListShareLinks(c.Request.Context(), currentUserID, galleryID)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Share links retrieved", links)
	}
}

// @Summary 撤销上传链接
// @Description 被撤销的链接立刻失效，已上传内容不受影响
// @Tags 上传链接
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param link_id path int true "链接ID"
// @Success 200 {object} xerr.Response "撤销成功"
// @Router /api/v1/galleries/{gallery_id}/share-links/{link_id} [delete]
func RevokeShareLinkHandler(shareService share.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		linkID, err := strconv.ParseUint(c.Param("link_id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid link_id")
			return
		}

		if err := shareService.RevokeShareLink(c.Request.Context(), currentUserID, galleryID, linkID); err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Share link revoked", nil)
	}
}
