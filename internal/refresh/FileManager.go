package refresh

import (
	"os"

	json "github.com/goccy/go-json"

	"astroview/internal/models"
	"astroview/internal/providers"
	"astroview/internal/refresh/interfaces"
	"astroview/internal/services"
)

// FileManager persists the last-good record snapshot so the map serves
// data right after a restart, before the first poll completes.
type FileManager struct {
	service    services.SiteServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.SiteServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := f.service.Snapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	// Current format: versioned envelope with token
	var snapshot models.SnapshotV2
	if err := json.Unmarshal(decompressedData, &snapshot); err == nil && snapshot.Version >= models.SnapshotVersion {
		f.service.RestoreSnapshot(&snapshot)
		return nil
	}

	// Legacy format: raw feed document without version or token. The
	// missing token means the first live poll counts as the initial
	// observation again.
	if snapshot.Records != nil {
		f.logger.Warnf(providers.TypeApp, "Legacy snapshot found, migrating feed-document format")
		f.service.Replace(snapshot.Records, "", snapshot.LastUpdated, snapshot.Source)
		return nil
	}

	// Oldest format: a bare record array
	var records []models.SiteRecord
	if err := json.Unmarshal(decompressedData, &records); err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot migration failed")
		return err
	}
	f.logger.Warnf(providers.TypeApp, "Legacy snapshot found, migrating bare-array format")
	f.service.Replace(records, "", "", "")

	return nil
}
