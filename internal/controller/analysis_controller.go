package controller

import (
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	Service *service.AnalysisService
}

func NewAnalysisController(svc *service.AnalysisService) *AnalysisController {
	return &AnalysisController{Service: svc}
}

// @Summary 获取作答的AI分析报告
// @Tags 作答分析
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "作答ID"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{attemptId}/analysis [get]
func (c *AnalysisController) Analyze(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	report, err := c.Service.AnalyzeAttempt(ctx.Request.Context(), claims.UserID, util.MustParseUint(ctx.Param("attemptId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
