package controller

import (
	"skillswap/internal/service"
	"skillswap/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user, err := c.UserService.GetUserByID(util.CurrentUserID(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary 更新当前用户资料
// @Description Partial update; omitted fields are unchanged
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProfileUpdate true "fields to change"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(util.CurrentUserID(ctx), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "image"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	user, err := c.UserService.UploadAvatar(ctx.Request.Context(), util.CurrentUserID(ctx), file.Filename, src, file.Size)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// GetUser godoc
// @Summary 获取用户公开资料
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	user, err := c.UserService.GetUserByID(id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
