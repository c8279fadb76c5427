// Package mongodb implements MongoDB adapters for the application.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"custmaker/core/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionRuns = "generation_runs"

// RunHistoryAdapter implements out.RunHistoryRepository using MongoDB.
type RunHistoryAdapter struct {
	collection *mongo.Collection
}

// NewRunHistoryAdapter creates a new MongoDB run history adapter.
func NewRunHistoryAdapter(db *mongo.Database) *RunHistoryAdapter {
	return &RunHistoryAdapter{collection: db.Collection(collectionRuns)}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *RunHistoryAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "started_at", Value: -1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

type runDocument struct {
	RunID      string    `bson:"run_id"`
	Count      int       `bson:"count"`
	JoinDate   string    `bson:"join_date"`
	Status     string    `bson:"status"`
	Error      string    `bson:"error,omitempty"`
	StartedAt  time.Time `bson:"started_at"`
	FinishedAt time.Time `bson:"finished_at"`
	DurationMS int64     `bson:"duration_ms"`
}

func toDocument(run *domain.GenerationRun) *runDocument {
	return &runDocument{
		RunID:      run.ID.String(),
		Count:      run.Count,
		JoinDate:   run.JoinDate,
		Status:     string(run.Status),
		Error:      run.Error,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		DurationMS: run.Duration.Milliseconds(),
	}
}

func (d *runDocument) toEntity() (*domain.GenerationRun, error) {
	id, err := uuid.Parse(d.RunID)
	if err != nil {
		return nil, fmt.Errorf("invalid run_id %q: %w", d.RunID, err)
	}
	return &domain.GenerationRun{
		ID:         id,
		Count:      d.Count,
		JoinDate:   d.JoinDate,
		Status:     domain.RunStatus(d.Status),
		Error:      d.Error,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Duration:   time.Duration(d.DurationMS) * time.Millisecond,
	}, nil
}

// Save upserts the run by id.
func (a *RunHistoryAdapter) Save(ctx context.Context, run *domain.GenerationRun) error {
	doc := toDocument(run)
	_, err := a.collection.ReplaceOne(ctx,
		bson.M{"run_id": doc.RunID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", doc.RunID, err)
	}
	return nil
}

// ListRecent returns the newest runs first.
func (a *RunHistoryAdapter) ListRecent(ctx context.Context, limit int) ([]*domain.GenerationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := a.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []runDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}

	runs := make([]*domain.GenerationRun, 0, len(docs))
	for i := range docs {
		run, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
