package ports

import (
	"context"

	"viya-model-manager/internal/core/domain"
)

type ImportListFilter struct {
	ProjectName string
	ModelName   string
	Limit       int
	Offset      int
}

type ImportRecordRepository interface {
	Create(ctx context.Context, record *domain.ImportRecord) error
	List(ctx context.Context, filter ImportListFilter) ([]*domain.ImportRecord, int, error)
}
