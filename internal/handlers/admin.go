package handlers

import (
	"net/http"
	"strconv"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/utils"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/admin"
	"github.com/gin-gonic/gin"
)

type SetPremiumRequest struct {
	Premium *bool `json:"premium" binding:"required"`
}

type SetGuestUploadRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// @Summary 当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "用户信息"
// @Router /api/v1/users/me [get]
func GetProfileHandler(userService admin.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		user, err := userService.GetUserProfile(currentUserID)
		if err != nil {
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Profile retrieved", user)
	}
}

// @Summary 用户列表
// @Tags 平台管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} xerr.Response "用户列表"
// @Failure 403 {object} xerr.Response "需要管理员权限"
// @Router /api/v1/admin/users [get]
func ListUsersHandler(userService admin.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		users, total, err := userService.ListUsers(page, pageSize)
		if err != nil {
			xerr.Error(c, http.StatusInternalServerError, xerr.DatabaseErrorCode, err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Users retrieved", gin.H{
			"users": users,
			"total": total,
		})
	}
}

// @Summary 开关图库 premium 标记
// @Description premium 图库上传不受 lite 批次上限约束
// @Tags 平台管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param data body SetPremiumRequest true "premium 开关"
// @Success 200 {object} xerr.Response "更新成功"
// @Failure 403 {object} xerr.Response "需要管理员权限"
// @Router /api/v1/admin/galleries/{gallery_id}/premium [put]
func SetGalleryPremiumHandler(userService admin.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		var req SetPremiumRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		g, err := userService.SetGalleryPremium(galleryID, *req.Premium)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Gallery premium flag updated", g)
	}
}

// @Summary 开关图库访客上传
// @Tags 平台管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param data body SetGuestUploadRequest true "访客上传开关"
// @Success 200 {object} xerr.Response "更新成功"
// @Failure 403 {object} xerr.Response "需要管理员权限"
// @Router /api/v1/admin/galleries/{gallery_id}/guest-upload [put]
func SetGuestUploadHandler(userService admin.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		var req SetGuestUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		g, err := userService.SetGuestUpload(galleryID, *req.Enabled)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Gallery guest upload updated", g)
	}
}
