package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inmo_dev_v1_202608/internal/api/dto"
	"inmo_dev_v1_202608/internal/middleware"
	"inmo_dev_v1_202608/internal/service"
)

// ==================== 控制器 ====================

// UserController 用户控制器
type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ==================== API 方法 ====================

// Login 登录
// @Summary 用户登录
// @Tags User
// @Accept json
// @Param body body dto.LoginRequest true "登录请求"
// @Success 200 {object} dto.LoginResponse
// @Router /api/auth/login [post]
func (ctrl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	result, err := ctrl.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserDisabled) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "登录失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// Register 注册
// @Summary 用户注册
// @Tags User
// @Accept json
// @Param body body dto.RegisterRequest true "注册请求"
// @Success 201 {object} dto.UserInfo
// @Router /api/auth/register [post]
func (ctrl *UserController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	result, err := ctrl.userService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameExists) || errors.Is(err, service.ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{
				"code":    409,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "注册失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// RefreshToken 刷新令牌
// @Summary 刷新访问令牌
// @Tags User
// @Accept json
// @Param body body dto.RefreshTokenRequest true "刷新请求"
// @Success 200 {object} dto.RefreshTokenResponse
// @Router /api/auth/refresh [post]
func (ctrl *UserController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	result, err := ctrl.userService.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}

// ChangePassword 修改密码
// @Summary 修改当前用户密码
// @Tags User
// @Accept json
// @Param body body dto.ChangePasswordRequest true "修改请求"
// @Success 200 {object} map[string]interface{}
// @Router /api/user/password [put]
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	userID := middleware.GetUserID(c)
	if err := ctrl.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrInvalidOldPassword) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "修改失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
	})
}

// Profile 当前用户信息
// @Summary 获取当前用户信息
// @Tags User
// @Success 200 {object} dto.UserInfo
// @Router /api/user/profile [get]
func (ctrl *UserController) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	result, err := ctrl.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    result,
	})
}
