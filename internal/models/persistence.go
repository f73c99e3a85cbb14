package models

// SnapshotV2 is the current on-disk format for the last-good record set.
// The fingerprint token travels with the records so a restart detects
// upstream changes that happened while the daemon was down.
type SnapshotV2 struct {
	Version     int          `json:"version"`
	Token       string       `json:"token"`
	LastUpdated string       `json:"lastUpdated"`
	Source      string       `json:"source"`
	Records     []SiteRecord `json:"observatories"`
}

// SnapshotVersion is the version written by the current format.
const SnapshotVersion = 2
