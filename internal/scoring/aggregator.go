// internal/scoring/aggregator.go
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
)

// MinimumQuorum is the number of assigned judges an event needs before any
// performance in it can count as fully scored.
const MinimumQuorum = 3

type PendingJudge struct {
	JudgeID string `json:"judge_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

type JudgeTotal struct {
	ScoreID string  `json:"score_id"`
	JudgeID string  `json:"judge_id"`
	Name    string  `json:"name,omitempty"`
	Total   float64 `json:"total"`
}

type Status struct {
	PerformanceID     string         `json:"performance_id"`
	TotalJudges       int            `json:"total_judges"`
	ScoredJudges      int            `json:"scored_judges"`
	IsFullyScored     bool           `json:"is_fully_scored"`
	IsPartiallyScored bool           `json:"is_partially_scored"`
	PendingJudges     []PendingJudge `json:"pending_judges"`
	PerJudgeTotals    []JudgeTotal   `json:"per_judge_totals"`
	Percentage        int            `json:"percentage"`
	ScoresPublished   bool           `json:"scores_published"`
}

type Aggregator struct {
	store store.CompetitionStore
}

func NewAggregator(s store.CompetitionStore) *Aggregator {
	return &Aggregator{store: s}
}

// IsFullyScored requires every assigned judge to have scored and the roster
// to meet MinimumQuorum.
func IsFullyScored(scoredJudges, totalJudges int) bool {
	return scoredJudges >= totalJudges && totalJudges >= MinimumQuorum
}

// Percentage divides by the assigned roster size, not by the number of
// submitted scores, so missing scores pull the result down. With no roster
// it falls back to the scores present.
func Percentage(totals []float64, totalJudges int) int {
	effective := totalJudges
	if effective <= 0 {
		effective = len(totals)
	}
	if effective == 0 {
		return 0
	}

	var sum float64
	for _, t := range totals {
		sum += t
	}
	return int(math.Round(sum / float64(effective)))
}

func (a *Aggregator) Status(ctx context.Context, performanceID string) (*Status, error) {
	p, err := a.store.GetPerformance(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", performanceID, models.ErrPerformanceMissing)
	}

	judges, err := a.store.ListAssignedJudges(ctx, p.EventID)
	if err != nil {
		return nil, err
	}
	scores, err := a.store.ListScores(ctx, performanceID)
	if err != nil {
		return nil, err
	}

	return Summarize(p, judges, scores), nil
}

// Summarize builds the scoring status from already loaded rows.
func Summarize(p *models.Performance, judges []models.JudgeAssignment, scores []models.Score) *Status {
	names := make(map[string]string, len(judges))
	for _, j := range judges {
		names[j.JudgeID] = j.Name
	}

	scored := make(map[string]bool, len(scores))
	totals := make([]float64, 0, len(scores))
	perJudge := make([]JudgeTotal, 0, len(scores))
	for _, s := range scores {
		scored[s.JudgeID] = true
		totals = append(totals, s.TotalPercentage)
		perJudge = append(perJudge, JudgeTotal{
			ScoreID: s.ID,
			JudgeID: s.JudgeID,
			Name:    names[s.JudgeID],
			Total:   s.TotalPercentage,
		})
	}

	pending := make([]PendingJudge, 0)
	for _, j := range judges {
		if !scored[j.JudgeID] {
			pending = append(pending, PendingJudge{JudgeID: j.JudgeID, Name: j.Name, Email: j.Email})
		}
	}

	return &Status{
		PerformanceID:     p.ID,
		TotalJudges:       len(judges),
		ScoredJudges:      len(scores),
		IsFullyScored:     IsFullyScored(len(scores), len(judges)),
		IsPartiallyScored: len(scores) > 0,
		PendingJudges:     pending,
		PerJudgeTotals:    perJudge,
		Percentage:        Percentage(totals, len(judges)),
		ScoresPublished:   p.ScoresPublished,
	}
}
