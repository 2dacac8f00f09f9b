package controller

import (
	"errors"
	"io"
	"skillswap/internal/service"
	"skillswap/internal/util"
	"skillswap/internal/workflow"

	"github.com/gin-gonic/gin"
)

// SessionController 处理学习预约及其会话聊天
type SessionController struct {
	SessionService *service.SessionService
	ChatService    *service.ChatService
	Hub            *service.ChatHub
}

func NewSessionController(sessionService *service.SessionService, chatService *service.ChatService, hub *service.ChatHub) *SessionController {
	return &SessionController{
		SessionService: sessionService,
		ChatService:    chatService,
		Hub:            hub,
	}
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Message string `json:"message" example:"See you at 5!"`
}

func (c *SessionController) list(ctx *gin.Context, scope string) {
	sessions, err := c.SessionService.List(util.CurrentUserID(ctx), scope)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, nonNil(sessions))
}

// List godoc
// @Summary 我的预约
// @Description Sessions where the caller is learner or mentor, newest first
// @Tags 预约
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningSession}
// @Router /api/sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	c.list(ctx, service.ScopeAll)
}

// AsLearner godoc
// @Summary 作为学员的预约
// @Tags 预约
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningSession}
// @Router /api/sessions/as_learner [get]
func (c *SessionController) AsLearner(ctx *gin.Context) {
	c.list(ctx, service.ScopeLearner)
}

// AsMentor godoc
// @Summary 作为导师的预约
// @Tags 预约
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningSession}
// @Router /api/sessions/as_mentor [get]
func (c *SessionController) AsMentor(ctx *gin.Context) {
	c.list(ctx, service.ScopeMentor)
}

// Get godoc
// @Summary 预约详情
// @Tags 预约
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "session id"
// @Success 200 {object} util.Response{data=model.LearningSession}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	session, err := c.SessionService.Get(util.CurrentUserID(ctx), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// Book godoc
// @Summary 预约技能
// @Description Creates a PENDING session; the mentor is the skill's owner
// @Tags 预约
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BookInput true "booking"
// @Success 201 {object} util.Response{data=model.LearningSession}
// @Failure 400 {object} util.Response
// @Router /api/sessions [post]
func (c *SessionController) Book(ctx *gin.Context) {
	var req service.BookInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	session, err := c.SessionService.Book(util.CurrentUserID(ctx), req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// Action returns the handler for one workflow action.
// @Summary 预约状态流转
// @Description approve, reject (mentor_response required), edit_time (scheduled_datetime required), complete, cancel
// @Tags 预约
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "session id"
// @Param body body service.ActionInput false "payload"
// @Success 200 {object} util.Response{data=model.LearningSession}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response "not allowed in current status"
// @Router /api/sessions/{id}/approve [post]
// @Router /api/sessions/{id}/reject [post]
// @Router /api/sessions/{id}/edit_time [post]
// @Router /api/sessions/{id}/complete [post]
// @Router /api/sessions/{id}/cancel [post]
func (c *SessionController) Action(action workflow.Action) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		var req service.ActionInput
		// 空请求体视为无附加参数
		if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			util.BadRequest(ctx, err.Error())
			return
		}
		session, err := c.SessionService.Act(util.CurrentUserID(ctx), id, action, req)
		if err != nil {
			handleError(ctx, err)
			return
		}
		util.Success(ctx, session)
	}
}

// Messages godoc
// @Summary 会话消息
// @Description Oldest first; participants only
// @Tags 预约
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "session id"
// @Success 200 {object} util.Response{data=[]model.SessionMessage}
// @Router /api/sessions/{id}/messages [get]
func (c *SessionController) Messages(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	messages, err := c.ChatService.History(util.CurrentUserID(ctx), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Success(ctx, messages)
}

// SendMessage godoc
// @Summary 发送会话消息
// @Description Allowed while the session is APPROVED or COMPLETED
// @Tags 预约
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "session id"
// @Param body body SendMessageRequest true "message"
// @Success 201 {object} util.Response{data=model.SessionMessage}
// @Failure 400 {object} util.Response
// @Router /api/sessions/{id}/messages [post]
func (c *SessionController) SendMessage(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	msg, err := c.ChatService.Send(util.CurrentUserID(ctx), id, req.Message)
	if err != nil {
		handleError(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

// HandleWS godoc
// @Summary 会话消息推送
// @Description Websocket stream of MESSAGE and TYPING events for one session
// @Tags 预约
// @Security ApiKeyAuth
// @Param id path int true "session id"
// @Param token query string false "JWT Token"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/sessions/{id}/ws [get]
func (c *SessionController) HandleWS(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	userID := util.CurrentUserID(ctx)
	if _, err := c.SessionService.Get(userID, id); err != nil {
		handleError(ctx, err)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, id, userID)
}
