package handlers

import (
	"net/http"
	"strings"

	"github.com/3Eeeecho/go-gallerycloud/internal/config"
	"github.com/3Eeeecho/go-gallerycloud/internal/middlewares"
	"github.com/3Eeeecho/go-gallerycloud/internal/models"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/public"
	"github.com/gin-gonic/gin"
)

// CheckDuplicatesHandler 批量查重预检
// @Summary 批量查重
// @Description 按文件名（不区分大小写）与内容哈希把一批文件划分为重复与新文件
// @Tags 公开上传
// @Accept json
// @Produce json
// @Param share_link path string true "上传链接码"
// @Param request body models.CheckDuplicatesRequest true "文件名与哈希列表"
// @Success 200 {object} xerr.Response "划分结果"
// @Failure 400 {object} xerr.Response "参数错误"
// @Failure 404 {object} xerr.Response "链接不存在"
// @Router /api/public/gallery/{share_link}/check-duplicates [post]
func CheckDuplicatesHandler(uploadService public.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, ok := middlewares.ShareLinkFromContext(c)
		if !ok {
			return
		}

		var req models.CheckDuplicatesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}
		// 哈希列表允许整体缺省，但给了就必须与文件名一一对应
		if len(req.Hashes) != 0 && len(req.Hashes) != len(req.Filenames) {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "hashes length must match filenames length")
			return
		}

		resp, err := uploadService.CheckDuplicates(c.Request.Context(), link, &req)
		if err != nil {
			xerr.Error(c, http.StatusInternalServerError, xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Duplicates checked", resp)
	}
}

// validateMediaFile 统一的服务端文件校验，校验顺序固定：类型 -> 空文件 -> 大小
func validateMediaFile(c *gin.Context, kind, mimeType string, size, maxSize int64) bool {
	wantPrefix := "image/"
	if kind == models.MediaKindVideo {
		wantPrefix = "video/"
	}
	if !strings.HasPrefix(mimeType, wantPrefix) {
		xerr.Error(c, http.StatusBadRequest, xerr.FileTypeInvalidCode, xerr.ErrFileTypeInvalid.Error())
		return false
	}
	if size == 0 {
		xerr.Error(c, http.StatusBadRequest, xerr.FileEmptyCode, xerr.ErrFileEmpty.Error())
		return false
	}
	if size > maxSize {
		xerr.Error(c, http.StatusRequestEntityTooLarge, xerr.FileTooLargeCode, xerr.ErrFileTooLarge.Error())
		return false
	}
	return true
}

func uploadMediaHandler(uploadService public.UploadService, cfg *config.Config, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, ok := middlewares.ShareLinkFromContext(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "file field is required")
			return
		}
		if fileHeader.Filename == "" {
			xerr.Error(c, http.StatusBadRequest, xerr.FileNameInvalidCode, xerr.ErrFileNameInvalid.Error())
			return
		}

		maxSize := cfg.Upload.MaxFileSize
		if kind == models.MediaKindVideo {
			maxSize = cfg.Upload.MaxVideoSize
		}
		mimeType := fileHeader.Header.Get("Content-Type")
		if !validateMediaFile(c, kind, mimeType, fileHeader.Size, maxSize) {
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to open uploaded file")
			return
		}
		defer src.Close()

		params := &public.UploadMediaParams{
			FileName:    fileHeader.Filename,
			Size:        fileHeader.Size,
			MimeType:    mimeType,
			Kind:        kind,
			ContentHash: c.PostForm("content_hash"),
			GuestName:   c.PostForm("guest_name"),
			Reader:      src,
		}

		result, err := uploadService.UploadMedia(c.Request.Context(), link, params)
		if err != nil {
			bizCode := xerr.CodeOf(err)
			// 重复不是失败，客户端据 409 把文件标记为 duplicate
			if bizCode == xerr.DuplicateMediaCode {
				xerr.Error(c, http.StatusConflict, bizCode, err.Error())
				return
			}
			xerr.Error(c, http.StatusInternalServerError, bizCode, err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Media uploaded successfully", result)
	}
}

// UploadPhotoHandler 访客/供应商上传单张照片
// @Summary 上传照片
// @Description 单文件顺序上传，服务端做权威查重，重复返回 409
// @Tags 公开上传
// @Accept multipart/form-data
// @Produce json
// @Param share_link path string true "上传链接码"
// @Param file formData file true "照片文件"
// @Param guest_name formData string false "访客署名"
// @Param content_hash formData string false "客户端算好的 MD5"
// @Success 200 {object} xerr.Response "上传成功"
// @Failure 400 {object} xerr.Response "文件校验失败"
// @Failure 409 {object} xerr.Response "文件已存在"
// @Failure 413 {object} xerr.Response "文件过大"
// @Router /api/public/gallery/{share_link}/upload [post]
func UploadPhotoHandler(uploadService public.UploadService, cfg *config.Config) gin.HandlerFunc {
	return uploadMediaHandler(uploadService, cfg, models.MediaKindPhoto)
}

// UploadVideoHandler 供应商链接上传视频
// @Summary 上传视频
// @Description 仅协作者链接可用，大小上限高于照片
// @Tags 公开上传
// @Accept multipart/form-data
// @Produce json
// @Param share_link path string true "上传链接码"
// @Param file formData file true "视频文件"
// @Param content_hash formData string false "客户端算好的 MD5"
// @Success 200 {object} xerr.Response "上传成功"
// @Failure 403 {object} xerr.Response "链接角色不匹配"
// @Failure 409 {object} xerr.Response "文件已存在"
// @Router /api/public/contributor/{share_link}/video [post]
func UploadVideoHandler(uploadService public.UploadService, cfg *config.Config) gin.HandlerFunc {
	return uploadMediaHandler(uploadService, cfg, models.MediaKindVideo)
}

// RegisterFotoshareHandler 360 拍照亭批量登记外链资源
// @Summary 登记拍照亭资源
// @Description 资源文件不经过对象存储，只落外链记录
// @Tags 公开上传
// @Accept json
// @Produce json
// @Param share_link path string true "上传链接码"
// @Param request body models.FotoshareRequest true "外链资源列表"
// @Success 200 {object} xerr.Response "登记成功"
// @Failure 403 {object} xerr.Response "链接角色不匹配"
// @Router /api/public/contributor/{share_link}/fotoshare [post]
func RegisterFotoshareHandler(uploadService public.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, ok := middlewares.ShareLinkFromContext(c)
		if !ok {
			return
		}

		var req models.FotoshareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		results, err := uploadService.RegisterFotoshare(c.Request.Context(), link, &req)
		if err != nil {
			xerr.Error(c, http.StatusInternalServerError, xerr.CodeOf(err), err.Error())
			return
		}
		xerr.Success(c, http.StatusOK, "Fotoshare assets registered", results)
	}
}
