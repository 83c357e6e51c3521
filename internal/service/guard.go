package service

import (
	"context"
	"sync"

	"github.com/hgky95/Idle2Earn/internal/domain"
	"github.com/hgky95/Idle2Earn/internal/logger"
)

// assetGuard serializes mutating operations per asset. Acquisition is
// non-blocking: a second call against a busy asset is rejected outright,
// which also stops a collaborator callback from re-entering the state
// machine mid-transition.
type assetGuard struct {
	mu   sync.Mutex
	busy map[int64]bool
}

func newAssetGuard() *assetGuard {
	return &assetGuard{busy: make(map[int64]bool)}
}

func (g *assetGuard) acquire(assetID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[assetID] {
		return domain.ErrOperationInProgress
	}
	g.busy[assetID] = true
	return nil
}

func (g *assetGuard) release(assetID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, assetID)
}

// renterIndex is a derived view of the ACTIVE rentals, keyed by renter. It is
// kept consistent with the rental records on every transition. Removal swaps
// with the last element and truncates; the slices carry no ordering
// guarantee.
type renterIndex struct {
	mu       sync.RWMutex
	byRenter map[int64][]int64
}

func newRenterIndex() *renterIndex {
	return &renterIndex{byRenter: make(map[int64][]int64)}
}

func (i *renterIndex) add(renterID, assetID int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.byRenter[renterID] = append(i.byRenter[renterID], assetID)
}

func (i *renterIndex) remove(renterID, assetID int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	assets := i.byRenter[renterID]
	for n, id := range assets {
		if id == assetID {
			assets[n] = assets[len(assets)-1]
			assets = assets[:len(assets)-1]
			break
		}
	}
	if len(assets) == 0 {
		delete(i.byRenter, renterID)
		return
	}
	i.byRenter[renterID] = assets
}

func (i *renterIndex) assets(renterID int64) []int64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]int64(nil), i.byRenter[renterID]...)
}

// compensator collects undo actions for the side effects of a multi-step
// transition. On failure the completed steps are unwound in reverse order so
// no partial effect remains observable.
type compensator struct {
	undos []func(context.Context) error
}

func (c *compensator) push(undo func(context.Context) error) {
	c.undos = append(c.undos, undo)
}

func (c *compensator) unwind(ctx context.Context) {
	for n := len(c.undos) - 1; n >= 0; n-- {
		if err := c.undos[n](ctx); err != nil {
			logger.Error("Compensation step failed", "step", n, "error", err)
		}
	}
}
