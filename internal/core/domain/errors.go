package domain

import "errors"

// ============================================================================
// Model Repository Errors
// ============================================================================

// Not found errors
var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrProjectVersionNotFound = errors.New("project version not found")
	ErrModelNotFound          = errors.New("model not found")
	ErrRepositoryNotFound     = errors.New("no default repository configured")
)

// Conflict errors
var (
	ErrModelNameConflict = errors.New("a model with the same name exists in the project version; set overwrite to replace it")
)

// Validation errors
var (
	ErrInvalidModelName    = errors.New("model prefix is required")
	ErrInvalidProject      = errors.New("project name or id is required")
	ErrProjectUUIDNotFound = errors.New("the provided UUID does not match any project; enter a valid UUID or a new project name")
	ErrInvalidModelFiles   = errors.New("model files must be a directory or an in-memory file map")
)

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrInvalidTargetValues = errors.New("provide all possible values for the target variable, including a no-event value")
	ErrInvalidParameter    = errors.New("invalid fit statistic parameter")
	ErrInvalidDataRole     = errors.New("data role must be 1, 2, 3 or TRAIN, TEST, VALIDATE")
	ErrNoPartitionData     = errors.New("no data was provided; provide actual and predicted values for at least one partition (VALIDATE, TRAIN or TEST)")
	ErrInvalidDataset      = errors.New("dataset must contain actual and predicted values of equal length")
	ErrMLflowModelInvalid  = errors.New("MLmodel file is missing or malformed")
)

// ============================================================================
// Pipeline Automation Errors
// ============================================================================

var (
	ErrPipelineProjectNotFound = errors.New("pipeline automation project not found")
	ErrInvalidPipelineName     = errors.New("pipeline project name is required")
	ErrInvalidPipelineTable    = errors.New("pipeline project data table URI is required")
	ErrInvalidPipelineTarget   = errors.New("pipeline project target variable is required")
	ErrInvalidMaxModels        = errors.New("max models must be >= 0")
)

// ============================================================================
// Platform Errors
// ============================================================================

var (
	ErrViyaUnavailable  = errors.New("SAS Viya is not reachable")
	ErrUnauthorized     = errors.New("SAS Viya rejected the credentials")
	ErrNoCredentials    = errors.New("no SAS Viya credentials configured")
	ErrImportHistoryOff = errors.New("import history store is not configured")
)
