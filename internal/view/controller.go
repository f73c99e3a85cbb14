package view

import (
	"errors"
	"fmt"
	"sync"

	"astroview/internal/models"
)

// Session states. Only one detail view may be open at a time; the
// transition table below is the source of truth and HTTP handlers are thin
// adapters over it.
//
//	closed  -> viewing           Open
//	viewing -> viewing           Open (another record)
//	viewing -> editing           BeginEdit
//	editing -> viewing           CancelEdit, SubmitEdit
//	editing -> viewing -> ...    Open while editing force-drops the draft
//	any     -> closed            Close
type State int

const (
	StateClosed State = iota
	StateViewing
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	default:
		return "closed"
	}
}

var (
	ErrNotViewing = errors.New("no record is open")
	ErrNotEditing = errors.New("no edit in progress")
	ErrNoChanges  = errors.New("no changes detected")
)

// DetailView is the render model for an open record, with classification
// codes resolved to display labels.
type DetailView struct {
	Record             models.SiteRecord `json:"record"`
	CoordinateText     string            `json:"coordinateText"`
	BortleLabel        string            `json:"bortleLabel"`
	StandardLightLabel string            `json:"standardLightLabel"`
	StandardLightColor string            `json:"standardLightColor,omitempty"`
	SqmText            string            `json:"sqmText"`
	Climate            string            `json:"climate"`
	Accommodation      string            `json:"accommodation"`
	Notes              string            `json:"notes"`
	Images             []string          `json:"images,omitempty"`
}

// Controller owns the single-focus detail/edit session.
type Controller struct {
	mu      sync.Mutex
	state   State
	current models.SiteRecord
	draft   *models.SiteRecord
}

func NewController() *Controller {
	return &Controller{state: StateClosed}
}

// Open snapshots the record as current and enters viewing. Opening while
// an edit is in progress drops the stale draft first so it can never leak
// into another record's context.
func (c *Controller) Open(rec models.SiteRecord) DetailView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = nil
	rec.Normalize()
	c.current = rec
	c.state = StateViewing
	return buildDetailView(rec)
}

func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
	c.current = models.SiteRecord{}
	c.state = StateClosed
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the snapshot of the open record.
func (c *Controller) Current() (models.SiteRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return models.SiteRecord{}, false
	}
	return c.current.Clone(), true
}

// BeginEdit clones the current record into a form draft. The clone is
// deep: draft mutations never alias the original snapshot.
func (c *Controller) BeginEdit() (models.SiteRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateViewing {
		return models.SiteRecord{}, ErrNotViewing
	}
	draft := c.current.Clone()
	c.draft = &draft
	c.state = StateEditing
	return draft.Clone(), nil
}

// CancelEdit discards the draft and returns to viewing, original
// untouched.
func (c *Controller) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrNotEditing
	}
	c.draft = nil
	c.state = StateViewing
	return nil
}

// SubmitEdit diffs the edited draft against the original snapshot. An
// empty changeset short-circuits with ErrNoChanges and the session stays
// in editing; otherwise the draft is destroyed, the session returns to
// viewing, and the original plus changeset are handed back for dispatch.
func (c *Controller) SubmitEdit(edited models.SiteRecord) (models.SiteRecord, []models.FieldChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return models.SiteRecord{}, nil, ErrNotEditing
	}

	edited.Normalize()
	changes := models.DiffRecords(c.current, edited)
	if len(changes) == 0 {
		return models.SiteRecord{}, nil, ErrNoChanges
	}

	original := c.current.Clone()
	c.draft = nil
	c.state = StateViewing
	return original, changes, nil
}

func buildDetailView(rec models.SiteRecord) DetailView {
	view := DetailView{
		Record:         rec,
		CoordinateText: fmt.Sprintf("%.4f°N, %.4f°E", rec.Latitude, rec.Longitude),
		BortleLabel:    models.BortleLabel(rec.Bortle),
		SqmText:        fmt.Sprintf("%s mag/arcsec²", rec.Sqm),
		Climate:        textOr(rec.Climate, "Not recorded"),
		Accommodation:  textOr(rec.Accommodation, "Not recorded"),
		Notes:          textOr(rec.Notes, "No notes"),
		Images:         rec.ImageList(),
	}

	if level, ok := models.StandardLightFor(rec.StandardLight); ok {
		view.StandardLightLabel = level.Label
		view.StandardLightColor = level.Color
	} else {
		view.StandardLightLabel = rec.StandardLight
	}
	return view
}

func textOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
