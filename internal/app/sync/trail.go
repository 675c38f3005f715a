package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/stridr-app/stridr/internal/domain"
)

// SelectTrail activates a trail attempt. Any in-progress attempt is
// discarded: trail-scoped counters reset to zero while lifetime stats
// are untouched. The caller is trusted to have confirmed the switch.
func (r *Reconciler) SelectTrail(ctx context.Context, id domain.Identity, trailID string, now time.Time) (*domain.UserProgress, error) {
	trail, ok := r.catalog.Trail(trailID)
	if !ok {
		return nil, domain.ErrTrailNotFound
	}

	p, err := r.loadOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SelectedTrailID == trailID {
		return nil, domain.ErrTrailAlreadyActive
	}

	p.ClearTrail()
	p.SelectedTrailID = trail.ID
	start := now
	p.TrailStartDate = &start
	p.TargetDays = trail.SuggestedDays

	if err := r.store.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

// CancelTrail abandons the active attempt. Lifetime and monthly
// counters keep everything already credited.
func (r *Reconciler) CancelTrail(ctx context.Context, id domain.Identity) (*domain.UserProgress, error) {
	p, err := r.loadOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SelectedTrailID == "" {
		return nil, domain.ErrNoActiveTrail
	}

	p.ClearTrail()
	if err := r.store.SaveProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}
