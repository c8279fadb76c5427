package memory

import (
	"context"
	"testing"

	"custmaker/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHistory(t *testing.T) {
	ctx := context.Background()
	h := NewRunHistory(2)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, id := range ids {
		require.NoError(t, h.Save(ctx, &domain.GenerationRun{ID: id, Count: i}))
	}

	runs, err := h.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	require.NoError(t, h.Save(ctx, &domain.GenerationRun{ID: ids[2], Count: 99}))
	runs, err = h.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 99, runs[0].Count)
}
