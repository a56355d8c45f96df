package handlers

import (
	"errors"
	"net/http"

	"viya-model-manager/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrProjectUUIDNotFound),
		errors.Is(err, domain.ErrProjectVersionNotFound),
		errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrPipelineProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrModelNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidModelName),
		errors.Is(err, domain.ErrInvalidProject),
		errors.Is(err, domain.ErrInvalidModelFiles),
		errors.Is(err, domain.ErrInvalidTargetValues),
		errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrInvalidDataRole),
		errors.Is(err, domain.ErrNoPartitionData),
		errors.Is(err, domain.ErrInvalidDataset),
		errors.Is(err, domain.ErrMLflowModelInvalid),
		errors.Is(err, domain.ErrInvalidPipelineName),
		errors.Is(err, domain.ErrInvalidPipelineTable),
		errors.Is(err, domain.ErrInvalidPipelineTarget),
		errors.Is(err, domain.ErrInvalidMaxModels):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Upstream errors
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrRepositoryNotFound):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrViyaUnavailable),
		errors.Is(err, domain.ErrNoCredentials),
		errors.Is(err, domain.ErrImportHistoryOff):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
