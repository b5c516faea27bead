package handlers

import (
	"net/http"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/utils"
	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/3Eeeecho/go-gallerycloud/internal/services/admin"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=64"`
	Password   string `json:"password" binding:"required,min=6,max=255"`
	Email      string `json:"email" binding:"required,email"`
	StudioName string `json:"studio_name" binding:"max=128"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // 可以是用户名或邮箱
	Password   string `json:"password" binding:"required"`
}

// @Summary 摄影师注册
// @Description 摄影师账号注册接口
// @Tags 用户认证
// @Accept json
// @Produce json
// @Param data body RegisterRequest true "注册信息"
// @Success 200 {object} xerr.Response "注册成功"
// @Failure 400 {object} xerr.Response "参数错误"
// @Failure 409 {object} xerr.Response "用户名或邮箱已存在"
// @Router /api/v1/auth/register [post]
func Register(authService admin.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		user, err := authService.RegisterUser(req.Username, req.Password, req.Email, req.StudioName)
		if err != nil {
			// 根据错误类型返回不同的状态码和业务码
			if err.Error() == "username already exists" {
				xerr.Error(c, http.StatusConflict, xerr.UserAlreadyExistsCode, err.Error())
				return
			}
			if err.Error() == "email already exists" {
				xerr.Error(c, http.StatusConflict, xerr.EmailAlreadyExistsCode, err.Error())
				return
			}
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to register user")
			return
		}

		xerr.Success(c, http.StatusOK, "User registered successfully", gin.H{
			"user_id":     user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"studio_name": user.StudioName,
		})
	}
}

// @Summary 摄影师登录
// @Description 支持用户名或邮箱登录，成功返回 JWT
// @Tags 用户认证
// @Accept json
// @Produce json
// @Param data body LoginRequest true "登录信息"
// @Success 200 {object} xerr.Response "登录成功，返回token"
// @Failure 400 {object} xerr.Response "参数错误"
// @Failure 401 {object} xerr.Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func Login(authService admin.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
			return
		}

		tokenString, err := authService.LoginUser(req.Identifier, req.Password)
		if err != nil {
			if err.Error() == "user not found" {
				xerr.Error(c, http.StatusUnauthorized, xerr.UserNotFoundCode, "User not found")
				return
			}
			if err.Error() == "invalid credentials" {
				xerr.Error(c, http.StatusUnauthorized, xerr.InvalidCredentialsCode, "Invalid username or password")
				return
			}
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Failed to login")
			return
		}

		xerr.Success(c, http.StatusOK, "Login successful", gin.H{"token": tokenString})
	}
}

// @Summary 刷新 Token
// @Description 用仍在有效期内的 Token 换取新 Token
// @Tags 用户认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "刷新成功，返回新token"
// @Failure 401 {object} xerr.Response "未授权"
// @Router /api/v1/auth/refresh [post]
func RefreshToken(authService admin.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUserID, ok := utils.GetUserIDFromContext(c)
		if !ok {
			return
		}

		tokenString, err := authService.RefreshToken(currentUserID)
		if err != nil {
			xerr.Error(c, http.StatusUnauthorized, xerr.TokenInvalidCode, "Failed to refresh token")
			return
		}
		xerr.Success(c, http.StatusOK, "Token refreshed", gin.H{"token": tokenString})
	}
}
