package services

import (
	"astroview/internal/models"
)

type SiteServiceInterface interface {
	Records() []models.SiteRecord
	Get(id string) (models.SiteRecord, bool)
	Count() int
	Token() string
	LastUpdated() string
	Source() string
	Replace(records []models.SiteRecord, token, lastUpdated, source string)
	Snapshot() *models.SnapshotV2
	RestoreSnapshot(snap *models.SnapshotV2)
}

// SiteService fronts the record store. All ingestion goes through Replace,
// which is the single normalization choke point for loaded data.
type SiteService struct {
	store *models.SiteStore
}

func NewSiteService() SiteServiceInterface {
	return &SiteService{store: models.NewSiteStore()}
}

func (ss *SiteService) Records() []models.SiteRecord {
	return ss.store.Records()
}

func (ss *SiteService) Get(id string) (models.SiteRecord, bool) {
	return ss.store.Get(id)
}

func (ss *SiteService) Count() int {
	return ss.store.Count()
}

func (ss *SiteService) Token() string {
	return ss.store.Token()
}

func (ss *SiteService) LastUpdated() string {
	return ss.store.LastUpdated()
}

func (ss *SiteService) Source() string {
	return ss.store.Source()
}

func (ss *SiteService) Replace(records []models.SiteRecord, token, lastUpdated, source string) {
	normalized := make([]models.SiteRecord, len(records))
	for i, r := range records {
		r.Normalize()
		normalized[i] = r
	}
	ss.store.Replace(normalized, token, lastUpdated, source)
}

func (ss *SiteService) Snapshot() *models.SnapshotV2 {
	return &models.SnapshotV2{
		Version:     models.SnapshotVersion,
		Token:       ss.store.Token(),
		LastUpdated: ss.store.LastUpdated(),
		Source:      ss.store.Source(),
		Records:     ss.store.Records(),
	}
}

func (ss *SiteService) RestoreSnapshot(snap *models.SnapshotV2) {
	if snap == nil {
		return
	}
	ss.Replace(snap.Records, snap.Token, snap.LastUpdated, snap.Source)
}
