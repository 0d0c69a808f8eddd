// Package lifecycle owns performance status changes and fires certificate
// issuance on completion.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/metrics"
	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
)

const maxAttempts = 5

type CertificateIssuer interface {
	Issue(ctx context.Context, performanceID string) (*models.Certificate, error)
}

type Machine struct {
	store  store.CompetitionStore
	issuer CertificateIssuer
	now    func() time.Time
}

func NewMachine(s store.CompetitionStore, issuer CertificateIssuer) *Machine {
	return &Machine{
		store:  s,
		issuer: issuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type Result struct {
	Performance *models.Performance      `json:"performance"`
	Previous    models.PerformanceStatus `json:"previous_status"`
	Changed     bool                     `json:"changed"`
	Certificate *models.Certificate      `json:"certificate,omitempty"`
	// CertificateErr is set when issuance failed; the status change still stands.
	CertificateErr error `json:"-"`
}

// CertificateError is the issuance failure as text, for responses.
func (r *Result) CertificateError() string {
	if r.CertificateErr == nil {
		return ""
	}
	return r.CertificateErr.Error()
}

// SetStatus moves a performance to status. The write is a compare-and-set on
// the status read just before, so among concurrent callers exactly one
// observes each non-completed to completed edge and issues the certificate.
func (m *Machine) SetStatus(ctx context.Context, performanceID, status string) (*Result, error) {
	next, err := models.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var previous models.PerformanceStatus
	changed := false
	for attempt := 1; attempt <= maxAttempts && !changed; attempt++ {
		p, err := m.store.GetPerformance(ctx, performanceID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%s: %w", performanceID, models.ErrPerformanceMissing)
		}

		previous = p.Status
		if previous == next {
			return &Result{Performance: p, Previous: previous}, nil
		}

		changed, err = m.store.CompareAndSetStatus(ctx, performanceID, previous, next, m.now())
		if err != nil {
			return nil, err
		}
		if !changed {
			logger.Debug.Printf("Status of %s changed underneath us (attempt %d)", performanceID, attempt)
		}
	}
	if !changed {
		return nil, fmt.Errorf("status of %s kept changing concurrently: %w", performanceID, models.ErrConflict)
	}

	metrics.StatusTransitions.WithLabelValues(string(previous), string(next)).Inc()
	logger.Info.Printf("Performance %s: %s -> %s", performanceID, previous, next)

	result := &Result{Previous: previous, Changed: true}
	if next == models.StatusCompleted && previous != models.StatusCompleted {
		result.Certificate, result.CertificateErr = m.issuer.Issue(ctx, performanceID)
		if result.CertificateErr != nil {
			logger.Error.Printf("Certificate for %s failed after completion: %v", performanceID, result.CertificateErr)
		}
	}

	result.Performance, err = m.store.GetPerformance(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	return result, nil
}
