package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/metrics"
	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
)

// Gate makes a performance's scores visible beyond the judging panel.
type Gate struct {
	store      store.CompetitionStore
	aggregator *Aggregator
	now        func() time.Time
}

func NewGate(s store.CompetitionStore, aggregator *Aggregator) *Gate {
	return &Gate{
		store:      s,
		aggregator: aggregator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type PublishResult struct {
	PerformanceID    string     `json:"performance_id"`
	AlreadyPublished bool       `json:"already_published"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	// Scoring is returned so callers can see whether quorum was met; it is not enforced.
	Scoring *Status `json:"scoring"`
}

// Publish is idempotent: publishing twice records a single approval.
func (g *Gate) Publish(ctx context.Context, performanceID, approverID string) (*PublishResult, error) {
	if approverID == "" {
		return nil, fmt.Errorf("approver id is required: %w", models.ErrValidation)
	}

	status, err := g.aggregator.Status(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if !status.IsFullyScored {
		logger.Info.Printf("Publishing performance %s before quorum (%d/%d judges)",
			performanceID, status.ScoredJudges, status.TotalJudges)
	}

	published := false
	err = g.store.InTx(ctx, func(tx store.CompetitionStore) error {
		now := g.now()
		published, err = tx.MarkScoresPublished(ctx, performanceID, now)
		if err != nil || !published {
			return err
		}
		return tx.InsertScoreApproval(ctx, &models.ScoreApproval{
			ID:            uuid.NewString(),
			PerformanceID: performanceID,
			ApproverID:    approverID,
			ApprovedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	p, err := g.store.GetPerformance(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", performanceID, models.ErrPerformanceMissing)
	}

	if published {
		metrics.ScoresPublished.Inc()
		logger.Info.Printf("Scores of performance %s published by %s", performanceID, approverID)
	}

	status.ScoresPublished = p.ScoresPublished
	return &PublishResult{
		PerformanceID:    performanceID,
		AlreadyPublished: !published,
		PublishedAt:      p.ScoresPublishedAt,
		Scoring:          status,
	}, nil
}
