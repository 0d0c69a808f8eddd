// Package identity resolves participant references that may come from either
// the internal dancer id space or the public competitor id space.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/models"
)

// Namespace names the id space a reference was resolved in.
type Namespace string

const (
	NamespaceDancer     Namespace = "dancer"
	NamespaceCompetitor Namespace = "competitor"
	NamespaceNone       Namespace = ""
)

// DancerLookup is the subset of the store the resolver reads.
type DancerLookup interface {
	GetDancer(ctx context.Context, id string) (*models.Dancer, error)
	GetDancerByCompetitorID(ctx context.Context, competitorID string) (*models.Dancer, error)
}

// Participant is the outcome of a resolution. DancerID is empty and
// Namespace is NamespaceNone when the reference matched nothing.
type Participant struct {
	Reference   string    `json:"reference"`
	DisplayName string    `json:"display_name"`
	DancerID    string    `json:"dancer_id,omitempty"`
	StudioID    *string   `json:"studio_id,omitempty"`
	Namespace   Namespace `json:"namespace,omitempty"`
}

func (p Participant) Resolved() bool {
	return p.Namespace != NamespaceNone
}

type lookupFunc func(ctx context.Context, id string) (*models.Dancer, error)

type step struct {
	ns     Namespace
	lookup lookupFunc
}

type Resolver struct {
	order []step
}

// NewResolver tries the canonical dancer id first, then the public competitor id.
func NewResolver(dancers DancerLookup) *Resolver {
	return &Resolver{order: []step{
		{ns: NamespaceDancer, lookup: dancers.GetDancer},
		{ns: NamespaceCompetitor, lookup: dancers.GetDancerByCompetitorID},
	}}
}

// Resolve looks id up in each namespace in order. A miss is not an error and
// yields the "Participant {index}" placeholder; a failed lookup is returned
// tagged with ErrDependency. index is 1-based.
func (r *Resolver) Resolve(ctx context.Context, id string, index int) (Participant, error) {
	if id != "" {
		for _, step := range r.order {
			dancer, err := step.lookup(ctx, id)
			if err != nil {
				if !errors.Is(err, models.ErrDependency) {
					err = fmt.Errorf("%w: %w", models.ErrDependency, err)
				}
				return Participant{}, fmt.Errorf("participant %q lookup in %s namespace: %w", id, step.ns, err)
			}
			if dancer == nil {
				continue
			}
			return Participant{
				Reference:   id,
				DisplayName: dancer.Name,
				DancerID:    dancer.ID,
				StudioID:    dancer.StudioID,
				Namespace:   step.ns,
			}, nil
		}
	}

	logger.Debug.Printf("Participant %q unresolved, using placeholder #%d", id, index)
	return Participant{
		Reference:   id,
		DisplayName: Placeholder(index),
	}, nil
}

// ResolveParticipant is Resolve for display callers: it never fails, and a
// failed lookup is logged and shown as the placeholder.
func (r *Resolver) ResolveParticipant(ctx context.Context, id string, index int) Participant {
	p, err := r.Resolve(ctx, id, index)
	if err != nil {
		logger.Error.Printf("Showing placeholder for %q: %v", id, err)
		return Participant{Reference: id, DisplayName: Placeholder(index)}
	}
	return p
}

// ResolveAll resolves ids in order, keeping positions stable. It stops at the
// first failed lookup so callers never persist placeholders caused by an outage.
func (r *Resolver) ResolveAll(ctx context.Context, ids []string) ([]Participant, error) {
	participants := make([]Participant, 0, len(ids))
	for i, id := range ids {
		p, err := r.Resolve(ctx, id, i+1)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// SharedStudio returns the studio every resolved participant belongs to, or
// nil when none resolved or they disagree. Unresolved participants are ignored.
func SharedStudio(participants []Participant) *string {
	var studio *string
	for _, p := range participants {
		if !p.Resolved() {
			continue
		}
		if p.StudioID == nil {
			return nil
		}
		if studio != nil && *studio != *p.StudioID {
			return nil
		}
		studio = p.StudioID
	}
	return studio
}

func Placeholder(index int) string {
	return fmt.Sprintf("Participant %d", index)
}

func Names(participants []Participant) []string {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.DisplayName
	}
	return names
}
