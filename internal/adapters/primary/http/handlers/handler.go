package handlers

import (
	"viya-model-manager/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	importSvc   *services.ModelImportService
	pipelineSvc *services.PipelineService
}

func New(importSvc *services.ModelImportService, pipelineSvc *services.PipelineService) *Handler {
	return &Handler{
		importSvc:   importSvc,
		pipelineSvc: pipelineSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Model import
	r.POST("/imports", h.ImportModel)
	r.GET("/imports", h.ListImports)

	// Fit statistics
	r.POST("/fitstat/calculate", h.CalculateFitStatistics)
	r.POST("/fitstat/input", h.InputFitStatistics)

	// Model files
	r.POST("/model-properties", h.ModelProperties)
	r.POST("/file-metadata", h.FileMetadata)
	r.POST("/variables", h.Variables)

	// Pipeline automation projects
	r.GET("/pipeline-projects", h.ListPipelineProjects)
	r.GET("/pipeline-projects/:id", h.GetPipelineProject)
	r.POST("/pipeline-projects", h.CreatePipelineProject)
	r.PATCH("/pipeline-projects/:id", h.UpdatePipelineProject)
	r.DELETE("/pipeline-projects/:id", h.DeletePipelineProject)
}
