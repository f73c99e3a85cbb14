package models

import (
	"math"
	"strings"
)

// ValueAbsent is the display sentinel for classification fields that were
// never filled in. Templates render it as-is instead of handling null.
const ValueAbsent = "-"

// CoordinatePrecision is the number of decimal places coordinates are
// rounded to before submission (6 decimals ≈ 0.11 m).
const CoordinatePrecision = 6

// SiteRecord is a single stargazing site. Legacy records carry a singular
// Image field instead of the Images list; Normalize folds the two together.
type SiteRecord struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Coordinates   string   `json:"coordinates,omitempty"`
	Bortle        string   `json:"bortle"`
	StandardLight string   `json:"standardLight"`
	Sqm           string   `json:"sqm"`
	Climate       string   `json:"climate,omitempty"`
	Accommodation string   `json:"accommodation,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Image         string   `json:"image,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// Clone returns a deep copy. Draft edits must never alias the original.
func (r SiteRecord) Clone() SiteRecord {
	cp := r
	if r.Images != nil {
		cp.Images = make([]string, len(r.Images))
		copy(cp.Images, r.Images)
	}
	return cp
}

// Normalize is applied at every ingestion boundary (feed load, edit
// prefill, submission). The plural Images list wins over the legacy Image
// string; a singular value may hold several URLs separated by newlines or
// semicolons. Duplicates are dropped keeping first-occurrence order.
// Classification fields fall back to the "-" sentinel.
func (r *SiteRecord) Normalize() {
	r.Images = r.ImageList()
	r.Image = ""

	if strings.TrimSpace(r.Bortle) == "" {
		r.Bortle = ValueAbsent
	}
	if strings.TrimSpace(r.StandardLight) == "" {
		r.StandardLight = ValueAbsent
	}
	if strings.TrimSpace(r.Sqm) == "" {
		r.Sqm = ValueAbsent
	}
}

// ImageList returns the normalized image URL list without mutating the
// record.
func (r SiteRecord) ImageList() []string {
	var urls []string
	for _, img := range r.Images {
		if u := strings.TrimSpace(img); u != "" {
			urls = append(urls, u)
		}
	}
	if r.Image != "" {
		for _, part := range strings.FieldsFunc(r.Image, func(c rune) bool {
			return c == '\n' || c == ';'
		}) {
			if u := strings.TrimSpace(part); u != "" {
				urls = append(urls, u)
			}
		}
	}
	if len(urls) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(urls))
	unique := urls[:0]
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}

// RoundCoordinates snaps both coordinates to the submission precision so
// float drift on round-trips does not produce noisy diffs.
func (r *SiteRecord) RoundCoordinates() {
	r.Latitude = roundTo(r.Latitude, CoordinatePrecision)
	r.Longitude = roundTo(r.Longitude, CoordinatePrecision)
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow10(places)
	return math.Round(v*factor) / factor
}
