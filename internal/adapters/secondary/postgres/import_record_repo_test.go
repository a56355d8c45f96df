package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"viya-model-manager/internal/core/ports/output"
)

func TestImportFilter(t *testing.T) {
	where, args := importFilter(ports.ImportListFilter{})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)

	where, args = importFilter(ports.ImportListFilter{ProjectName: "HMEQ", ModelName: "tree"})
	assert.Equal(t, "project_name = $1 AND model_name ILIKE $2", where)
	assert.Equal(t, []interface{}{"HMEQ", "%tree%"}, args)

	where, args = importFilter(ports.ImportListFilter{ModelName: "tree"})
	assert.Equal(t, "model_name ILIKE $1", where)
	assert.Len(t, args, 1)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "req-1", *nullIfEmpty("req-1"))
}
