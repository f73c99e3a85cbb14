package internal

import (
	"astroview/internal/maprender"
	"astroview/internal/models"
	"astroview/internal/structures"
	"astroview/internal/view"
)

// NewMarkerManager binds marker selection to the detail view session: a
// click on a rendered marker opens that record, exactly one detail view at
// a time.
func NewMarkerManager(conf *structures.Config, renderer *maprender.MemoryRenderer, session *view.Controller) *maprender.MarkerManager {
	return maprender.NewMarkerManager(renderer, conf.Refresh.FitPadding, func(rec models.SiteRecord) {
		session.Open(rec)
	})
}
