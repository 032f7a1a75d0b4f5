package desk

import (
	"context"
	"hostel/config"
	"hostel/infras/metrics"
	"hostel/infras/otel"
	bookingService "hostel/internal/domains/booking/service"
	referenceService "hostel/internal/domains/reference/service"
	"hostel/shared/failure"
	"hostel/shared/session"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultIdle       = time.Hour
	minSweepInterval  = time.Minute
	messageNoOperator = "Sign in to use the desk."
)

// Registry keeps one Workspace per operator and hostel, in memory, and drops
// the ones left idle.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace

	idle      time.Duration
	pageLimit int
	bookings  bookingService.Booking
	reference referenceService.Reference
	otel      otel.Otel
	now       func() time.Time
	sweeping  atomic.Bool
}

func NewRegistry(cfg *config.Config, bookings bookingService.Booking, reference referenceService.Reference, otel otel.Otel) *Registry {
	idle := time.Duration(cfg.App.Desk.IdleMinutes) * time.Minute
	if idle <= 0 {
		idle = defaultIdle
	}

	return &Registry{
		workspaces: make(map[string]*Workspace),
		idle:       idle,
		pageLimit:  cfg.Backend.PageLimit,
		bookings:   bookings,
		reference:  reference,
		otel:       otel,
		now:        time.Now,
	}
}

// Workspace returns the workspace of sess, creating it on first use.
func (r *Registry) Workspace(sess session.Session) (*Workspace, error) {
	key := sess.Key()
	if key == "" {
		return nil, failure.Unauthorized(messageNoOperator)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workspaces[key]; ok {
		return w, nil
	}

	w := newWorkspace(key, r.bookings, r.reference, r.otel, r.pageLimit, r.now)
	r.workspaces[key] = w
	metrics.SetWorkspaces(len(r.workspaces))

	return w, nil
}

// Sweep removes the workspaces idle for longer than the configured period and
// returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idle)
	removed := 0

	for key, w := range r.workspaces {
		if w.idleSince().Before(cutoff) {
			delete(r.workspaces, key)
			removed++
		}
	}

	metrics.SetWorkspaces(len(r.workspaces))

	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.workspaces)
}

// Sweeping reports whether Run is active.
func (r *Registry) Sweeping() bool {
	return r.sweeping.Load()
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	r.sweeping.Store(true)
	defer r.sweeping.Store(false)

	interval := max(r.idle/4, minSweepInterval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 {
				log.Info().Int("removed", removed).Msg("evicted idle desk workspaces")
			}
		}
	}
}
