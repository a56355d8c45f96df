package dto

import (
	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/fitstat"
)

type CalculateFitStatRequest struct {
	TargetValue string           `json:"target_value" binding:"required"`
	Threshold   *float64         `json:"threshold"`
	Validate    *fitstat.Dataset `json:"validate"`
	Train       *fitstat.Dataset `json:"train"`
	Test        *fitstat.Dataset `json:"test"`
}

func (r *CalculateFitStatRequest) Partitions() fitstat.Partitions {
	return fitstat.Partitions{Validate: r.Validate, Train: r.Train, Test: r.Test}
}

// FitStatFilesResponse carries the generated documents keyed by the file
// name Model Manager expects.
type FitStatFilesResponse map[string]*fitstat.Document

func ToFitStatFilesResponse(res *fitstat.Result) FitStatFilesResponse {
	return FitStatFilesResponse{
		artifacts.FitStatFile: res.FitStat,
		artifacts.ROCFile:     res.ROC,
		artifacts.LiftFile:    res.Lift,
	}
}

type InputFitStatRequest struct {
	Entries []fitstat.Entry `json:"entries" binding:"required,min=1"`
}

type FileMetadataRequest struct {
	Prefix string `json:"prefix" binding:"required"`
	H2O    bool   `json:"h2o"`
}
