package refresh

import (
	json "github.com/goccy/go-json"
	"strconv"

	"astroview/internal/models"
)

// ChangeDetectorInterface decides whether a freshly fetched record set is
// materially different from the last-loaded one. The digest is change
// detection, not integrity verification: it is deterministic and
// order-sensitive but makes no non-collision claim, and can be swapped for
// a stronger one without touching callers.
type ChangeDetectorInterface interface {
	Fingerprint(records []models.SiteRecord) (string, error)
	HasChanged(prev, next string) bool
}

type rollingHashDetector struct{}

func NewChangeDetector() ChangeDetectorInterface {
	return &rollingHashDetector{}
}

// Fingerprint folds the canonical JSON serialization of the record
// sequence into a 32-bit accumulator (h = h*31 + b, wrapping).
func (d *rollingHashDetector) Fingerprint(records []models.SiteRecord) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	var h int32
	for _, b := range data {
		h = h*31 + int32(b)
	}
	return strconv.FormatInt(int64(h), 10), nil
}

// HasChanged is false for the very first observation: there is no prior
// token to diff against, which suppresses a spurious refresh on initial
// load.
func (d *rollingHashDetector) HasChanged(prev, next string) bool {
	return prev != "" && prev != next
}
