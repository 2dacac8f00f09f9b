package controller

import (
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// List godoc
// @Summary 技能列表
// @Description Newest first, optionally filtered by category and level
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Param category query int false "category id"
// @Param level query string false "BEGINNER, INTERMEDIATE or ADVANCED"
// @Success 200 {object} util.Response{data=[]model.Skill}
// @Router /api/skills [get]
func (c *SkillController) List(ctx *gin.Context) {
	categoryID, err := util.ParseOptionalUint(ctx.Query("category"))
	if err != nil {
		util.BadRequest(ctx, "category must be an integer id")
		return
	}
	filter := repository.SkillFilter{
		CategoryID: categoryID,
		Level:      model.SkillLevel(strings.ToUpper(ctx.Query("level"))),
	}

	skills, err := c.SkillService.List(filter)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nonNil(skills))
}

// MySkills godoc
// @Summary 我发布的技能
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Skill}
// @Router /api/skills/my_skills [get]
func (c *SkillController) MySkills(ctx *gin.Context) {
	skills, err := c.SkillService.ListByMentor(util.CurrentUserID(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nonNil(skills))
}

// Get godoc
// @Summary 技能详情
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "skill id"
// @Success 200 {object} util.Response{data=model.Skill}
// @Failure 404 {object} util.Response
// @Router /api/skills/{id} [get]
func (c *SkillController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	skill, err := c.SkillService.Get(id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// Create godoc
// @Summary 发布技能
// @Description The caller becomes the skill's mentor
// @Tags 技能
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SkillInput true "skill"
// @Success 201 {object} util.Response{data=model.Skill}
// @Failure 400 {object} util.Response
// @Router /api/skills [post]
func (c *SkillController) Create(ctx *gin.Context) {
	var req service.SkillInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	skill, err := c.SkillService.Create(util.CurrentUserID(ctx), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, skill)
}

// Update godoc
// @Summary 更新技能
// @Tags 技能
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "skill id"
// @Param body body service.SkillInput true "skill"
// @Success 200 {object} util.Response{data=model.Skill}
// @Failure 403 {object} util.Response "not the owner"
// @Router /api/skills/{id} [put]
func (c *SkillController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.SkillInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	skill, err := c.SkillService.Update(util.CurrentUserID(ctx), id, req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// Delete godoc
// @Summary 删除技能
// @Tags 技能
// @Security ApiKeyAuth
// @Param id path int true "skill id"
// @Success 204
// @Failure 403 {object} util.Response "not the owner"
// @Router /api/skills/{id} [delete]
func (c *SkillController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.SkillService.Delete(util.CurrentUserID(ctx), id); err != nil {
		handleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
