package controller

import (
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NoteController struct {
	Service *service.NoteService
}

func NewNoteController(svc *service.NoteService) *NoteController {
	return &NoteController{Service: svc}
}

// @Summary 创建笔记
// @Tags 笔记
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.NoteRequest true "笔记内容"
// @Success 201 {object} util.Response
// @Router /api/notes [post]
func (c *NoteController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.NoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note, err := c.Service.CreateNote(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, note)
}

// @Summary 获取笔记列表
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/notes [get]
func (c *NoteController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	notes, err := c.Service.ListNotes(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notes)
}

// @Summary 获取笔记详情
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "笔记ID"
// @Success 200 {object} util.Response
// @Router /api/notes/{id} [get]
func (c *NoteController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	note, err := c.Service.GetNote(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// @Summary 更新笔记
// @Tags 笔记
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "笔记ID"
// @Param body body service.NoteRequest true "笔记内容"
// @Success 200 {object} util.Response
// @Router /api/notes/{id} [put]
func (c *NoteController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.NoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note, err := c.Service.UpdateNote(claims.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// @Summary 删除笔记
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "笔记ID"
// @Success 200 {object} util.Response
// @Router /api/notes/{id} [delete]
func (c *NoteController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.DeleteNote(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
