package ports

import (
	"context"

	"viya-model-manager/internal/core/domain"
)

type ScoreCodeRequest struct {
	Prefix  string
	Options domain.ScoreCodeOptions
	// Dir, when set, is where the generated score code is also written.
	Dir string
	// Model is set for SAS Viya 3.5, where score code is generated after the
	// model has been registered.
	Model *domain.Model
}

// ScoreCodeWriter generates score code files keyed by file name.
type ScoreCodeWriter interface {
	WriteScoreCode(ctx context.Context, req ScoreCodeRequest) (map[string][]byte, error)
}
