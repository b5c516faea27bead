package handlers

import (
	"net/http"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/themes"
	"github.com/gin-gonic/gin"
)

// @Summary 可用主题列表
// @Description 返回全部内置主题及其样式字段，主题集合是封闭的
// @Tags 主题
// @Produce json
// @Success 200 {object} xerr.Response "主题列表"
// @Router /api/v1/themes [get]
func ListThemesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		xerr.Success(c, http.StatusOK, "Themes retrieved", themes.All())
	}
}
