package handlers

import (
	"net/http"
	"strings"

	"viya-model-manager/internal/adapters/primary/http/dto"
	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/fitstat"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CalculateFitStatistics(c *gin.Context) {
	var req dto.CalculateFitStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := fitstat.CalculateOptions{TargetValue: req.TargetValue, Threshold: req.Threshold}
	res, err := fitstat.CalculateModelStatistics(c.Request.Context(), opts, req.Partitions())
	if err != nil {
		log.WithError(err).Warn("calculate fit statistics failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFitStatFilesResponse(res))
}

func (h *Handler) InputFitStatistics(c *gin.Context) {
	var req dto.InputFitStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, _, err := fitstat.InputFitStatistics(fitstat.InputOptions{Entries: req.Entries}, "")
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) ModelProperties(c *gin.Context) {
	var req artifacts.ModelPropertiesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	props, err := artifacts.BuildModelProperties(req)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, props)
}

func (h *Handler) FileMetadata(c *gin.Context) {
	var req dto.FileMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, artifacts.FileMetadata(req.Prefix, req.H2O))
}

// Variables derives inputVar/outputVar definitions from a CSV sample sent as
// the request body.
func (h *Handler) Variables(c *gin.Context) {
	cols, err := artifacts.ColumnsFromCSV(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := artifacts.InputVarFile
	if strings.EqualFold(c.Query("direction"), "output") {
		name = artifacts.OutputVarFile
	}
	c.JSON(http.StatusOK, gin.H{name: artifacts.GenerateVariableProperties(cols)})
}
