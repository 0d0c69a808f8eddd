package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/encore/internal/models"
)

const certificateColumns = `
	id, performance_id, display_name, percentage, style, title, medallion,
	event_date, artifact_ref, sent_at, downloaded_at, created_at, updated_at`

func (s *BaseStore) UpsertCertificate(ctx context.Context, cert *models.Certificate) (*models.Certificate, error) {
	_, err := s.exec(ctx, `
		INSERT INTO certificates (`+certificateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?)
		ON CONFLICT (performance_id) DO UPDATE SET
			display_name = excluded.display_name,
			percentage = excluded.percentage,
			style = excluded.style,
			title = excluded.title,
			medallion = excluded.medallion,
			event_date = excluded.event_date,
			artifact_ref = COALESCE(NULLIF(excluded.artifact_ref, ''), certificates.artifact_ref),
			updated_at = excluded.updated_at
	`,
		cert.ID, cert.PerformanceID, cert.DisplayName, cert.Percentage, cert.Style, cert.Title, cert.Medallion,
		cert.EventDate, cert.ArtifactRef, cert.CreatedAt, cert.UpdatedAt,
	)
	if err != nil {
		return nil, s.wrap("failed to upsert certificate", err)
	}

	stored, err := s.GetCertificate(ctx, cert.PerformanceID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("certificate for %s vanished after upsert: %w", cert.PerformanceID, models.ErrConflict)
	}
	return stored, nil
}

func (s *BaseStore) GetCertificate(ctx context.Context, performanceID string) (*models.Certificate, error) {
	var cert models.Certificate
	found, err := s.get(ctx, &cert, `SELECT `+certificateColumns+` FROM certificates WHERE performance_id = ?`, performanceID)
	if err != nil {
		return nil, s.wrap("failed to get certificate", err)
	}
	if !found {
		return nil, nil
	}
	return &cert, nil
}

func (s *BaseStore) MarkCertificateSent(ctx context.Context, performanceID string, at time.Time) error {
	return s.markCertificate(ctx, "sent_at", performanceID, at)
}

func (s *BaseStore) MarkCertificateDownloaded(ctx context.Context, performanceID string, at time.Time) error {
	return s.markCertificate(ctx, "downloaded_at", performanceID, at)
}

// markCertificate sets a delivery-tracking column once; later calls keep the first timestamp.
func (s *BaseStore) markCertificate(ctx context.Context, column, performanceID string, at time.Time) error {
	n, err := s.exec(ctx, fmt.Sprintf(`
		UPDATE certificates
		SET %[1]s = COALESCE(%[1]s, ?)
		WHERE performance_id = ?
	`, column), at, performanceID)
	if err != nil {
		return s.wrap("failed to mark certificate "+column, err)
	}
	if n == 0 {
		return fmt.Errorf("certificate for %s: %w", performanceID, models.ErrNotFound)
	}
	return nil
}
