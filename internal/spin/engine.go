// Package spin implements the randomized offer-selection engine.
package spin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/catalog"
	"github.com/eatup-app/eatup/internal/models"
)

// DefaultDelay matches the wheel animation length on the client.
const DefaultDelay = 3 * time.Second

// ErrSpinInProgress is returned when a user already has a spin in flight.
// Spins are serialized per user, not process-wide, so unrelated users spin
// independently.
var ErrSpinInProgress = errors.New("a spin is already in progress for this user")

// ErrNoOffersAvailable is returned when the requested tier has no offers.
var ErrNoOffersAvailable = catalog.ErrNoOffers

// Recorder receives a copy of each completed spin, e.g. for an offline
// analytics consumer. Failures are logged and never fail the spin.
type Recorder interface {
	RecordSpin(ctx context.Context, spin models.Spin) error
}

// Engine selects offers at random for a given price tier, after a fixed
// delay that keeps the server result in sync with the client's wheel
// animation. It keeps an append-only, newest-first spin history.
type Engine struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	recorder Recorder
	delay    time.Duration
	inflight map[uuid.UUID]struct{}
	history  []models.Spin
}

// NewEngine builds an engine over the catalog. recorder may be nil.
func NewEngine(c *catalog.Catalog, recorder Recorder) *Engine {
	return &Engine{
		catalog:  c,
		recorder: recorder,
		delay:    DefaultDelay,
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// SetDelay overrides the simulated wheel delay.
func (e *Engine) SetDelay(d time.Duration) {
	e.mu.Lock()
	e.delay = d
	e.mu.Unlock()
}

// IsSpinning reports whether the user has a spin in flight.
func (e *Engine) IsSpinning(userID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inflight[userID]
	return ok
}

// Spin runs one spin for the user at the given tier. It waits out the wheel
// delay, honoring ctx so a torn-down caller never applies a stale result,
// then picks uniformly among the tier's offers and records the spin. An empty
// tier yields ErrNoOffersAvailable, never an undefined pick.
func (e *Engine) Spin(ctx context.Context, userID uuid.UUID, tier models.PriceRange) (*models.Spin, error) {
	e.mu.Lock()
	if _, busy := e.inflight[userID]; busy {
		e.mu.Unlock()
		return nil, ErrSpinInProgress
	}
	e.inflight[userID] = struct{}{}
	delay := e.delay
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inflight, userID)
		e.mu.Unlock()
	}()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	offer, err := e.catalog.RandomOffer(tier)
	if err != nil {
		return nil, err
	}

	s := models.Spin{
		ID:          uuid.New(),
		UserID:      userID,
		PriceRange:  tier,
		OfferResult: offer,
		CreatedAt:   time.Now(),
	}

	e.mu.Lock()
	e.history = append([]models.Spin{s}, e.history...)
	e.mu.Unlock()

	if e.recorder != nil {
		if err := e.recorder.RecordSpin(ctx, s); err != nil {
			log.Warnf("failed to record spin %s: %v", s.ID, err)
		}
	}

	return &s, nil
}

// History returns the full spin history, newest first.
func (e *Engine) History() []models.Spin {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Spin, len(e.history))
	copy(out, e.history)
	return out
}

// HistoryFor returns the user's spins, newest first.
func (e *Engine) HistoryFor(userID uuid.UUID) []models.Spin {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []models.Spin
	for _, s := range e.history {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}
