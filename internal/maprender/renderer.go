package maprender

// The map SDK is an opaque collaborator. Renderer is the capability
// surface the daemon relies on: place markers, clear them, refit the
// viewport, switch tile layers.

type TileLayer string

const (
	LayerStandard  TileLayer = "standard"
	LayerSatellite TileLayer = "satellite"
)

// Position is longitude-first, matching the underlying map API. Always
// construct through NewPosition so the coordinate order is transposed in
// exactly one place.
type Position struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func NewPosition(lng, lat float64) Position {
	return Position{Lng: lng, Lat: lat}
}

// DefaultGlyph is the visual pin shown for every site.
const DefaultGlyph = "pin"

// Marker is one rendered map marker with its bound select handler.
type Marker struct {
	Position Position `json:"position"`
	Title    string   `json:"title"`
	Glyph    string   `json:"glyph"`
	onSelect func()
}

// Select invokes the handler bound at reconciliation time.
func (m Marker) Select() {
	if m.onSelect != nil {
		m.onSelect()
	}
}

type Renderer interface {
	AddMarker(m Marker)
	Clear()
	FitView(padding int)
	SetTileLayer(layer TileLayer)
	SetRoadNet(visible bool)
}
