package controller

import (
	"skillswap/internal/service"
	"skillswap/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	CategoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

// List godoc
// @Summary 分类列表
// @Tags 分类
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Category}
// @Router /api/categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	categories, err := c.CategoryService.List()
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// Create godoc
// @Summary 创建分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CategoryInput true "category"
// @Success 201 {object} util.Response{data=model.Category}
// @Router /api/categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req service.CategoryInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.CategoryService.Create(req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// Update godoc
// @Summary 更新分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "category id"
// @Param body body service.CategoryInput true "category"
// @Success 200 {object} util.Response{data=model.Category}
// @Failure 404 {object} util.Response
// @Router /api/categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.CategoryInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	category, err := c.CategoryService.Update(id, req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// Delete godoc
// @Summary 删除分类
// @Description Skills in the category become uncategorized
// @Tags 分类
// @Security ApiKeyAuth
// @Param id path int true "category id"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /api/categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.CategoryService.Delete(id); err != nil {
		handleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
