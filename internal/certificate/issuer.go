// internal/certificate/issuer.go
package certificate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/identity"
	"github.com/shrimpsizemoose/encore/internal/metrics"
	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/scoring"
	"github.com/shrimpsizemoose/encore/internal/store"
)

// Sink renders and delivers certificate artifacts.
type Sink interface {
	// Ref is the stable reference an artifact for performanceID is stored under.
	Ref(performanceID string) string
	Deliver(ctx context.Context, ref string, artifact []byte) error
}

type Issuer struct {
	store    store.CompetitionStore
	resolver *identity.Resolver
	sink     Sink
	config   Config
	now      func() time.Time
}

// NewIssuer accepts a nil sink; certificates are then persisted but never
// marked as sent.
func NewIssuer(s store.CompetitionStore, sink Sink, config Config) *Issuer {
	return &Issuer{
		store:    s,
		resolver: identity.NewResolver(s),
		sink:     sink,
		config:   config.withDefaults(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Issue derives, persists and delivers the certificate of a performance.
// Calling it again regenerates the same fields and keeps delivery tracking.
func (i *Issuer) Issue(ctx context.Context, performanceID string) (*models.Certificate, error) {
	cert, err := i.issue(ctx, performanceID)
	if err != nil {
		metrics.CertificatesIssued.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CertificatesIssued.WithLabelValues("ok").Inc()
	metrics.PerformancePercentage.WithLabelValues(cert.Medallion).Observe(float64(cert.Percentage))
	return cert, nil
}

func (i *Issuer) issue(ctx context.Context, performanceID string) (*models.Certificate, error) {
	in, err := i.gather(ctx, performanceID)
	if err != nil {
		return nil, err
	}

	derived := i.config.Derive(*in)
	now := i.now()
	derived.ID = uuid.NewString()
	derived.CreatedAt = now
	derived.UpdatedAt = now
	if i.sink != nil {
		derived.ArtifactRef = i.sink.Ref(performanceID)
	}

	cert, err := i.store.UpsertCertificate(ctx, derived)
	if err != nil {
		return nil, err
	}

	if i.sink == nil {
		logger.Debug.Printf("No certificate sink configured, %s stored only", performanceID)
		return cert, nil
	}

	artifact, err := newArtifact(cert, i.config.renderName(*in, cert), in.Event).Encode()
	if err != nil {
		return nil, err
	}
	if err := i.sink.Deliver(ctx, cert.ArtifactRef, artifact); err != nil {
		return nil, fmt.Errorf("failed to deliver certificate for %s: %w: %w", performanceID, models.ErrDependency, err)
	}
	if err := i.store.MarkCertificateSent(ctx, performanceID, now); err != nil {
		return nil, err
	}

	logger.Info.Printf("Certificate for %s delivered: %s %d%% (%s)",
		performanceID, cert.DisplayName, cert.Percentage, cert.Medallion)

	return i.store.GetCertificate(ctx, performanceID)
}

func (i *Issuer) gather(ctx context.Context, performanceID string) (*Inputs, error) {
	p, err := i.store.GetPerformance(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", performanceID, models.ErrPerformanceMissing)
	}

	scores, err := i.store.ListScores(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%s: %w", performanceID, models.ErrNoScores)
	}
	judges, err := i.store.ListAssignedJudges(ctx, p.EventID)
	if err != nil {
		return nil, err
	}
	totals := make([]float64, 0, len(scores))
	for _, s := range scores {
		totals = append(totals, s.TotalPercentage)
	}

	event, err := i.store.GetEvent(ctx, p.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%s: %w", p.EventID, models.ErrEventNotFound)
	}

	entry, err := i.store.GetEntry(ctx, p.EventEntryID)
	if err != nil {
		return nil, err
	}
	studio, err := i.studioFor(ctx, entry)
	if err != nil {
		return nil, err
	}

	return &Inputs{
		Performance: p,
		Entry:       entry,
		Studio:      studio,
		Event:       event,
		Percentage:  scoring.Percentage(totals, len(judges)),
	}, nil
}

// studioFor prefers the entry's own studio. Group entries without one fall
// back to the studio every resolved participant dances for.
func (i *Issuer) studioFor(ctx context.Context, entry *models.EventEntry) (*models.Studio, error) {
	if entry == nil {
		return nil, nil
	}
	studioID := entry.StudioID
	if studioID == nil && i.config.isGroup(entry.PerformanceType) {
		participants, err := i.resolver.ResolveAll(ctx, entry.ParticipantIDs)
		if err != nil {
			return nil, err
		}
		studioID = identity.SharedStudio(participants)
	}
	if studioID == nil {
		return nil, nil
	}
	return i.store.GetStudio(ctx, *studioID)
}

// MarkDownloaded records the first download of an issued certificate.
func (i *Issuer) MarkDownloaded(ctx context.Context, performanceID string) (*models.Certificate, error) {
	if err := i.store.MarkCertificateDownloaded(ctx, performanceID, i.now()); err != nil {
		return nil, err
	}
	return i.store.GetCertificate(ctx, performanceID)
}
