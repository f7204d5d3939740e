package controller

import (
	"strings"

	"quizgen_backend/internal/config"
	"quizgen_backend/internal/service"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	Service *service.DocumentService
	Config  *config.Config
}

func NewDocumentController(svc *service.DocumentService, cfg *config.Config) *DocumentController {
	return &DocumentController{Service: svc, Config: cfg}
}

// @Summary 上传PDF文档
// @Tags 文档
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "PDF文件"
// @Success 201 {object} util.Response
// @Router /api/documents/upload [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	maxSize := c.Config.Upload.MaxSizeMB * 1024 * 1024
	if fileHeader.Size > maxSize {
		util.BadRequest(ctx, "file too large")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != util.MimePDF && contentType != util.MimeOctetStream &&
		!strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		util.BadRequest(ctx, "only PDF files are supported")
		return
	}

	doc, err := c.Service.Upload(ctx.Request.Context(), claims.UserID, fileHeader)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, doc)
}

// @Summary 获取文档列表
// @Tags 文档
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "每页数量"
// @Param offset query int false "偏移"
// @Success 200 {object} util.Response
// @Router /api/documents [get]
func (c *DocumentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := util.ParseIntDefault(ctx.Query("limit"), 20)
	offset := util.ParseIntDefault(ctx.Query("offset"), 0)

	docs, total, err := c.Service.ListDocuments(claims.UserID, limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"documents": docs, "total": total})
}

// @Summary 获取文档详情
// @Tags 文档
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "文档ID"
// @Success 200 {object} util.Response
// @Router /api/documents/{id} [get]
func (c *DocumentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	doc, err := c.Service.GetDocument(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, doc)
}

// @Summary 删除文档
// @Tags 文档
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "文档ID"
// @Success 200 {object} util.Response
// @Router /api/documents/{id} [delete]
func (c *DocumentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.DeleteDocument(ctx.Request.Context(), claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
