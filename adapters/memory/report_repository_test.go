package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/core"
	"statkit/domain/report"
)

func TestSaveAndGetByID(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()

	rep := report.New("outcome", 0.05, []string{"dose"}, []string{"site"})
	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.Target, got.Target)
	assert.Equal(t, rep.Significant, got.Significant)
}

func TestGetByIDMissing(t *testing.T) {
	repo := NewReportRepository()

	_, err := repo.GetByID(context.Background(), core.ID("nope"))
	assert.ErrorIs(t, err, core.ErrReportNotFound)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()

	first := report.New("a", 0.05, nil, nil)
	second := report.New("b", 0.05, nil, nil)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Target)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "b", limited[0].Target)
}
