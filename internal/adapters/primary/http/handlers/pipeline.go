package handlers

import (
	"net/http"
	"strconv"

	"viya-model-manager/internal/adapters/primary/http/dto"
	"viya-model-manager/internal/core/ports/output"
	"viya-model-manager/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListPipelineProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	projects, err := h.pipelineSvc.List(c.Request.Context(), ports.PipelineListFilter{
		Name:   c.Query("name"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PipelineProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, dto.ToPipelineProjectResponse(&projects[i]))
	}

	c.JSON(http.StatusOK, dto.ListPipelineProjectsResponse{
		Items:      items,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetPipelineProject(c *gin.Context) {
	project, err := h.pipelineSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineProjectResponse(project))
}

func (h *Handler) CreatePipelineProject(c *gin.Context) {
	var req services.CreatePipelineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.pipelineSvc.Create(c.Request.Context(), req)
	if err != nil {
		log.WithError(err).Error("create pipeline project failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPipelineProjectResponse(project))
}

func (h *Handler) UpdatePipelineProject(c *gin.Context) {
	var req services.UpdatePipelineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.pipelineSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineProjectResponse(project))
}

func (h *Handler) DeletePipelineProject(c *gin.Context) {
	if err := h.pipelineSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
