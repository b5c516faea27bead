package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/utils"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/gallery"
	"github.com/3Eeeecho/go-gallerycloud/internal/themes"
	"github.com/gin-gonic/gin"
)

type CreateGalleryRequest struct {
	Title     string     `json:"title" binding:"required,max=255"`
	ThemeKey  string     `json:"theme_key"`
	EventDate *time.Time `json:"event_date"`
}

type UpdateThemeRequest struct {
	ThemeKey string `json:"theme_key" binding:"required"`
}

type CreateSectionRequest struct {
	Name      string `json:"name" binding:"required,max=128"`
	SortOrder int    `json:"sort_order"`
}

// galleryIDFromParam 解析路径中的图库ID，失败时写出 400
func galleryIDFromParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("gallery_id"), 10, 64)
	if err != nil {
		xerr.AbortWithError(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid gallery_id")
		return 0, false
	}
	return id, true
}

// galleryErrStatus 把服务层业务码映射到 HTTP 状态码
func galleryErrStatus(err error) int {
	switch xerr.CodeOf(err) {
	case xerr.GalleryNotFoundCode, xerr.SectionNotFoundCode, xerr.MediaNotFoundCode, xerr.ShareLinkNotFoundCode:
		return http.StatusNotFound
	case xerr.PermissionDeniedCode, xerr.ForbiddenCode:
		return http.StatusForbidden
	case xerr.InvalidParamsCode:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// @Summary 创建图库
// @Tags 图库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body CreateGalleryRequest true "图库信息"
// @Success 200 {object} xerr.Response "创建成功"
// @Failure 400 {object} xerr.Response "参数错误"
// @Router /api/v1/galleries [post]
func CreateGalleryHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		var req CreateGalleryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		g, err := galleryService.CreateGallery(c.Request.Context(), currentUserID, req.Title, req.ThemeKey, req.EventDate)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Gallery created successfully", g)
	}
}

// @Summary 图库列表
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} xerr.Response "图库列表"
// @Router /api/v1/galleries [get]
func ListGalleriesHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		galleries, total, err := galleryService.ListGalleries(c.Request.Context(), currentUserID, page, pageSize)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Galleries retrieved", gin.H{
			"galleries": galleries,
			"total":     total,
		})
	}
}

// @Summary 图库详情
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Success 200 {object} xerr.Response "图库详情，附带主题样式"
// @Failure 404 {object} xerr.Response "图库不存在"
// @Router /api/v1/galleries/{gallery_id} [get]
func GetGalleryHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}

		g, err := galleryService.GetGallery(c.Request.Context(), currentUserID, galleryID)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}

		// 主题键是封闭枚举，Lookup 失败说明数据被手改过，回退默认主题
		schema, ok := themes.Lookup(g.ThemeKey)
		if !ok {
			schema, _ = themes.Lookup(string(themes.DefaultKey()))
		}
		xerr.Success(c, http.StatusOK, "Gallery retrieved", gin.H{
			"gallery": g,
			"theme":   schema,
		})
	}
}

// @Summary 更新图库主题
// @Tags 图库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param data body UpdateThemeRequest true "主题键"
// @Success 200 {object} xerr.Response "更新成功"
// @Failure 400 {object} xerr.Response "未知主题键"
// @Router /api/v1/galleries/{gallery_id}/theme [put]
func UpdateThemeHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		var req UpdateThemeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		g, err := galleryService.UpdateTheme(c.Request.Context(), currentUserID, galleryID, req.ThemeKey)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Theme updated", g)
	}
}

// @Summary 删除图库
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Success 200 {object} xerr.Response "删除成功"
// @Router /api/v1/galleries/{gallery_id} [delete]
func DeleteGalleryHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}

		if err := galleryService.DeleteGallery(c.Request.Context(), currentUserID, galleryID); err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Gallery deleted", nil)
	}
}

// @Summary 创建图库分区
// @Tags 图库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param data body CreateSectionRequest true "分区信息"
// @Success 200 {object} xerr.Response "创建成功"
// @Router /api/v1/galleries/{gallery_id}/sections [post]
func CreateSectionHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		var req CreateSectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		section, err := galleryService.CreateSection(c.Request.Context(), currentUserID, galleryID, req.Name, req.SortOrder)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Section created", section)
	}
}

// @Summary 删除图库分区
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param section_id path int true "分区ID"
// @Success 200 {object} xerr.Response "删除成功"
// @Router /api/v1/galleries/{gallery_id}/sections/{section_id} [delete]
func DeleteSectionHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		sectionID, err := strconv.ParseUint(c.Param("section_id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid section_id")
			return
		}

		if err := galleryService.DeleteSection(c.Request.Context(), currentUserID, galleryID, sectionID); err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Section deleted", nil)
	}
}

// @Summary 图库媒体列表
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param section_id query int false "按分区过滤"
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} xerr.Response "媒体列表"
// @Router /api/v1/galleries/{gallery_id}/media [get]
func ListMediaHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		var sectionID *uint64
		if raw := c.Query("section_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid section_id")
				return
			}
			sectionID = &id
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

		items, total, err := galleryService.ListMedia(c.Request.Context(), currentUserID, galleryID, sectionID, page, pageSize)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Media retrieved", gin.H{
			"items": items,
			"total": total,
		})
	}
}

// @Summary 删除媒体文件
// @Description 对象与搜索索引由异步任务清理
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param media_id path int true "媒体ID"
// @Success 200 {object} xerr.Response "已进入删除队列"
// @Router /api/v1/galleries/{gallery_id}/media/{media_id} [delete]
func DeleteMediaHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		mediaID, err := strconv.ParseUint(c.Param("media_id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid media_id")
			return
		}

		if err := galleryService.DeleteMedia(c.Request.Context(), currentUserID, galleryID, mediaID); err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Media deletion scheduled", nil)
	}
}

// @Summary 获取媒体下载地址
// @Description 对象存储媒体返回限时预签名地址，fotoshare 外链返回原始地址
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param media_id path int true "媒体ID"
// @Success 200 {object} xerr.Response "下载地址"
// @Failure 404 {object} xerr.Response "媒体不存在"
// @Router /api/v1/galleries/{gallery_id}/media/{media_id}/download [get]
func MediaDownloadURLHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		mediaID, err := strconv.ParseUint(c.Param("media_id"), 10, 64)
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "Invalid media_id")
			return
		}

		url, err := galleryService.MediaDownloadURL(c.Request.Context(), currentUserID, galleryID, mediaID)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Download URL generated", gin.H{"url": url})
	}
}

// @Summary 按文件名搜索媒体
// @Tags 图库管理
// @Produce json
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Param q query string true "关键词"
// @Param limit query int false "返回条数上限"
// @Success 200 {object} xerr.Response "命中列表"
// @Router /api/v1/galleries/{gallery_id}/media/search [get]
func SearchMediaHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}
		keyword := c.Query("q")
		if keyword == "" {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "q is required")
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		hits, err := galleryService.SearchMedia(c.Request.Context(), currentUserID, galleryID, keyword, limit)
		if err != nil {
			xerr.Error(c, galleryErrStatus(err), xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Search completed", hits)
	}
}

// @Summary 导出图库压缩包
// @Description 把图库内全部媒体打 ZIP，流式写回响应
// @Tags 图库管理
// @Produce application/zip
// @Security BearerAuth
// @Param gallery_id path int true "图库ID"
// @Success 200 {file} binary "ZIP 文件流"
// @Router /api/v1/galleries/{gallery_id}/export [get]
func ExportGalleryHandler(galleryService gallery.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}
		galleryID, ok := galleryIDFromParam(c)
		if !ok {
			return
		}

		c.Header("Content-Type", "application/zip")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"gallery-%d.zip\"", galleryID))

		if err := galleryService.ExportArchive(c.Request.Context(), currentUserID, galleryID, c.Writer); err != nil {
			// 响应头可能已经写出，只能记录后中断
			c.Abort()
			return
		}
	}
}
