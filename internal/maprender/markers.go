package maprender

import (
	"sync"

	"astroview/internal/models"
)

const defaultFitPadding = 50

// MarkerManager reconciles the rendered marker set against the current
// record set. The rebuild is deliberately full, not incremental: record
// sets are small and rebuild cost is dominated by fetch time. Clearing
// first makes repeated reconciliation with the same set idempotent.
type MarkerManager struct {
	mu       sync.Mutex
	renderer Renderer
	onSelect func(models.SiteRecord)
	padding  int
	count    int
}

func NewMarkerManager(renderer Renderer, padding int, onSelect func(models.SiteRecord)) *MarkerManager {
	if padding <= 0 {
		padding = defaultFitPadding
	}
	return &MarkerManager{
		renderer: renderer,
		onSelect: onSelect,
		padding:  padding,
	}
}

// Reconcile tears down every rendered marker and builds one per record,
// then refits the viewport. Called when the change detector confirms a
// material change, and once at startup for the initial render.
func (mm *MarkerManager) Reconcile(records []models.SiteRecord) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	mm.renderer.Clear()
	for _, rec := range records {
		// the handler captures the record by value; a later rebuild must
		// never change what an already-bound handler opens
		rec := rec
		mm.renderer.AddMarker(Marker{
			Position: NewPosition(rec.Longitude, rec.Latitude),
			Title:    rec.Name,
			Glyph:    DefaultGlyph,
			onSelect: func() {
				if mm.onSelect != nil {
					mm.onSelect(rec)
				}
			},
		})
	}
	mm.count = len(records)

	if len(records) > 0 {
		mm.renderer.FitView(mm.padding)
	}
}

// Count reports how many markers the last reconciliation placed.
func (mm *MarkerManager) Count() int {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return mm.count
}
