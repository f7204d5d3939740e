package controller

import (
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// @Summary 开始测验作答
// @Tags 作答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Param body body service.StartAttemptRequest false "客户端环境信息"
// @Success 201 {object} util.Response
// @Router /api/quiz-attempts/start/{quizId} [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartAttemptRequest
	// body 可省略，客户端环境信息为可选
	ctx.ShouldBindJSON(&req)

	attempt, session, err := c.Service.StartAttempt(
		claims.UserID,
		util.MustParseUint(ctx.Param("quizId")),
		req,
		ctx.ClientIP(),
		ctx.Request.UserAgent(),
	)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"attempt": attempt, "session": session})
}

// @Summary 提交测验作答
// @Tags 作答
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "作答ID"
// @Param body body service.SubmitAttemptRequest true "答案与耗时"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/submit/{attemptId} [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.SubmitAttempt(claims.UserID, util.MustParseUint(ctx.Param("attemptId")), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attempt": attempt})
}

// @Summary 获取作答详情
// @Tags 作答
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{attemptId} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.Service.GetAttempt(claims.UserID, util.MustParseUint(ctx.Param("attemptId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempt": attempt})
}

// @Summary 获取当前用户的作答列表
// @Tags 作答
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := util.ParseIntDefault(ctx.Query("limit"), 20)
	offset := util.ParseIntDefault(ctx.Query("offset"), 0)

	attempts, total, err := c.Service.ListAttempts(claims.UserID, limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attempts": attempts, "total": total})
}

// @Summary 删除作答（级联删除会话与事件）
// @Tags 作答
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{attemptId} [delete]
func (c *AttemptController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.DeleteAttempt(claims.UserID, util.MustParseUint(ctx.Param("attemptId"))); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 获取作答的会话列表与统计
// @Tags 作答遥测
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{attemptId}/sessions [get]
func (c *AttemptController) GetSessions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, stats, err := c.Service.GetSessions(claims.UserID, util.MustParseUint(ctx.Param("attemptId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sessions": sessions, "stats": stats})
}

// @Summary 获取作答的事件列表、统计与时间线
// @Tags 作答遥测
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "作答ID"
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{attemptId}/events [get]
func (c *AttemptController) GetEvents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := util.ParseIntDefault(ctx.Query("limit"), 0)
	offset := util.ParseIntDefault(ctx.Query("offset"), 0)

	events, stats, timeline, err := c.Service.GetEvents(claims.UserID, util.MustParseUint(ctx.Param("attemptId")), limit, offset)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"events": events, "stats": stats, "timeline": timeline})
}

// @Summary 记录客户端事件
// @Tags 作答遥测
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "作答ID"
// @Param body body service.LogEventRequest true "事件"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{attemptId}/events [post]
func (c *AttemptController) LogEvent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LogEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.Service.LogEvent(claims.UserID, util.MustParseUint(ctx.Param("attemptId")), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"event": event})
}

// @Summary 测验维度作答统计
// @Tags 作答统计
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/stats/quiz/{quizId} [get]
func (c *AttemptController) GetQuizStats(ctx *gin.Context) {
	stats, err := c.Service.GetQuizStats(util.MustParseUint(ctx.Param("quizId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"stats": stats})
}

// @Summary 用户维度作答统计
// @Tags 作答统计
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/stats/user [get]
func (c *AttemptController) GetUserStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.Service.GetUserStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"stats": stats})
}
