package sync

import (
	"context"
	"sync"
)

// Hub hands out one Store per floor plan so dashboards viewing different
// plans never share a position map. Stores are created and loaded lazily on
// first touch.
type Hub struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister PositionPersister
}

// NewHub returns an empty hub backed by the given persister.
func NewHub(persister PositionPersister) *Hub {
	return &Hub{
		stores:    make(map[string]*Store),
		persister: persister,
	}
}

// Store returns the store for a floor plan, loading its snapshot on first
// use. A failed initial load is not cached: the next call retries.
func (h *Hub) Store(ctx context.Context, floorPlanID string) (*Store, error) {
	h.mu.Lock()
	st, ok := h.stores[floorPlanID]
	h.mu.Unlock()
	if ok {
		return st, nil
	}

	st = NewStore(floorPlanID, h.persister)
	if err := st.LoadForFloorPlan(ctx); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.stores[floorPlanID]; ok {
		return existing, nil
	}
	h.stores[floorPlanID] = st
	return st, nil
}

// Peek returns the store for a floor plan only if it is already loaded.
func (h *Hub) Peek(floorPlanID string) (*Store, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.stores[floorPlanID]
	return st, ok
}
