package controller

import (
	"skillswap/internal/service"
	"skillswap/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// LoginRequest defines model for login
// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest swagger:model RefreshRequest
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Register godoc
// @Summary 注册新用户
// @Description Register a MENTOR or LEARNER account and return a token pair
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "registration"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "username or email taken"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Register(req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "credentials"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Refresh godoc
// @Summary 刷新令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RefreshRequest true "refresh token"
// @Success 200 {object} util.Response{data=util.TokenPair}
// @Failure 401 {object} util.Response
// @Router /api/auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pair, err := c.AuthService.Refresh(req.Refresh)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, pair)
}
