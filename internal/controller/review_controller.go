package controller

import (
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// List godoc
// @Summary 评价列表
// @Description ?user_id= reviews received by that user; ?session= reviews of a session; otherwise reviews given or received by the caller
// @Tags 评价
// @Produce json
// @Security ApiKeyAuth
// @Param user_id query int false "reviewed user"
// @Param session query int false "session id"
// @Success 200 {object} util.Response{data=[]model.Review}
// @Router /api/reviews [get]
func (c *ReviewController) List(ctx *gin.Context) {
	userID, err := util.ParseOptionalUint(ctx.Query("user_id"))
	if err != nil {
		util.BadRequest(ctx, "user_id must be an integer id")
		return
	}
	sessionID, err := util.ParseOptionalUint(ctx.Query("session"))
	if err != nil {
		util.BadRequest(ctx, "session must be an integer id")
		return
	}

	var filter repository.ReviewFilter
	switch {
	case userID != nil:
		filter.ReviewedID = *userID
	case sessionID != nil:
		filter.SessionID = *sessionID
	default:
		filter.Involving = util.CurrentUserID(ctx)
	}

	reviews, err := c.ReviewService.List(filter)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, reviews)
}

// ForUser godoc
// @Summary 用户收到的评价
// @Tags 评价
// @Produce json
// @Security ApiKeyAuth
// @Param user_id query int true "reviewed user"
// @Success 200 {object} util.Response{data=[]model.Review}
// @Failure 400 {object} util.Response "user_id missing"
// @Router /api/reviews/for_user [get]
func (c *ReviewController) ForUser(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Query("user_id"))
	reviews, err := c.ReviewService.ForUser(userID)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, reviews)
}

// Create godoc
// @Summary 发表评价
// @Description Only on COMPLETED sessions, once per participant. reviewed_id defaults to the other participant
// @Tags 评价
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateReviewInput true "review"
// @Success 201 {object} util.Response{data=model.Review}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "already reviewed"
// @Router /api/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	var req service.CreateReviewInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	review, err := c.ReviewService.Create(util.CurrentUserID(ctx), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, review)
}

// Update godoc
// @Summary 修改评价
// @Tags 评价
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "review id"
// @Param body body service.UpdateReviewInput true "review"
// @Success 200 {object} util.Response{data=model.Review}
// @Failure 403 {object} util.Response
// @Router /api/reviews/{id} [put]
func (c *ReviewController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.UpdateReviewInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	review, err := c.ReviewService.Update(util.CurrentUserID(ctx), id, req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// Delete godoc
// @Summary 删除评价
// @Tags 评价
// @Security ApiKeyAuth
// @Param id path int true "review id"
// @Success 204
// @Failure 403 {object} util.Response
// @Router /api/reviews/{id} [delete]
func (c *ReviewController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.ReviewService.Delete(util.CurrentUserID(ctx), id); err != nil {
		handleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
