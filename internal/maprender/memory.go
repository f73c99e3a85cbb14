package maprender

import "sync"

// Bounds is the viewport box that FitView computed from the current
// markers, longitude-first like Position.
type Bounds struct {
	MinLng  float64 `json:"minLng"`
	MaxLng  float64 `json:"maxLng"`
	MinLat  float64 `json:"minLat"`
	MaxLat  float64 `json:"maxLat"`
	Padding int     `json:"padding"`
}

// ViewState is the full renderer model served to the page.
type ViewState struct {
	Markers  []Marker  `json:"markers"`
	Layer    TileLayer `json:"layer"`
	RoadNet  bool      `json:"roadNet"`
	Viewport *Bounds   `json:"viewport,omitempty"`
}

// MemoryRenderer is the daemon's built-in Renderer: it keeps the marker
// and layer model in memory for the HTTP surface to serve, leaving the
// actual drawing to the page's map SDK.
type MemoryRenderer struct {
	mu       sync.RWMutex
	markers  []Marker
	layer    TileLayer
	roadNet  bool
	viewport *Bounds
}

func NewMemoryRenderer() *MemoryRenderer {
	return &MemoryRenderer{layer: LayerStandard}
}

func (r *MemoryRenderer) AddMarker(m Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = append(r.markers, m)
}

func (r *MemoryRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markers = nil
	r.viewport = nil
}

func (r *MemoryRenderer) FitView(padding int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.markers) == 0 {
		r.viewport = nil
		return
	}

	b := &Bounds{
		MinLng:  r.markers[0].Position.Lng,
		MaxLng:  r.markers[0].Position.Lng,
		MinLat:  r.markers[0].Position.Lat,
		MaxLat:  r.markers[0].Position.Lat,
		Padding: padding,
	}
	for _, m := range r.markers[1:] {
		b.MinLng = min(b.MinLng, m.Position.Lng)
		b.MaxLng = max(b.MaxLng, m.Position.Lng)
		b.MinLat = min(b.MinLat, m.Position.Lat)
		b.MaxLat = max(b.MaxLat, m.Position.Lat)
	}
	r.viewport = b
}

// SetTileLayer switches the base layer. Switching to the already-active
// layer is a no-op; leaving the satellite layer hides the road net.
func (r *MemoryRenderer) SetTileLayer(layer TileLayer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if layer == r.layer {
		return
	}
	r.layer = layer
	if layer != LayerSatellite {
		r.roadNet = false
	}
}

// SetRoadNet toggles the road-net overlay; it only renders on the
// satellite layer.
func (r *MemoryRenderer) SetRoadNet(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.layer != LayerSatellite {
		r.roadNet = false
		return
	}
	r.roadNet = visible
}

// State returns a copy of the current renderer model.
func (r *MemoryRenderer) State() ViewState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := ViewState{
		Markers: make([]Marker, len(r.markers)),
		Layer:   r.layer,
		RoadNet: r.roadNet,
	}
	copy(state.Markers, r.markers)
	if r.viewport != nil {
		vp := *r.viewport
		state.Viewport = &vp
	}
	return state
}
