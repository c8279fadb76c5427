package mongodb

import (
	"testing"
	"time"

	"custmaker/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRunDocument_BSONRoundTrip(t *testing.T) {
	started := time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC)
	run := &domain.GenerationRun{
		ID:         uuid.New(),
		Count:      1000,
		JoinDate:   "20230101",
		Status:     domain.RunStatusSucceeded,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Duration:   1500 * time.Millisecond,
	}

	raw, err := bson.Marshal(toDocument(run))
	require.NoError(t, err)

	var decoded runDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, run.ID.String(), decoded.RunID)
	assert.EqualValues(t, 1500, decoded.DurationMS)

	back, err := decoded.toEntity()
	require.NoError(t, err)
	assert.Equal(t, run, back)
}

func TestRunDocument_InvalidID(t *testing.T) {
	_, err := (&runDocument{RunID: "not-a-uuid"}).toEntity()
	assert.Error(t, err)
}
