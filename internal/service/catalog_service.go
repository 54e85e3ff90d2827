package service

import (
	"context"
	"os"

	"virtual-budtender-be/internal/dto"
	"virtual-budtender-be/internal/pkg/logger"
	"virtual-budtender-be/pkg/catalog"
	"virtual-budtender-be/pkg/events"
)

type ICatalogService interface {
	Load(ctx context.Context) (*dto.CatalogReloadResponse, error)
	Reload(ctx context.Context) (*dto.CatalogReloadResponse, error)
	Stats(ctx context.Context) (*dto.CatalogStatsResponse, error)
}

type catalogService struct {
	index            *catalog.Index
	filePath         string
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewCatalogService(
	index *catalog.Index,
	filePath string,
	publisherService IPublisherService,
	log logger.ILogger,
) ICatalogService {
	return &catalogService{
		index:            index,
		filePath:         filePath,
		publisherService: publisherService,
		logger:           log,
	}
}

// Load reads the catalog file and publishes a fresh index generation.
// A missing or unreadable file is fatal for the caller to handle; bad
// individual records are skipped and counted.
func (cs *catalogService) Load(ctx context.Context) (*dto.CatalogReloadResponse, error) {
	data, err := os.ReadFile(cs.filePath)
	if err != nil {
		return nil, &catalog.LoadError{Reason: "cannot read catalog file", Err: err}
	}

	records, err := catalog.ParseRecords(data)
	if err != nil {
		return nil, err
	}

	accepted, rejected := cs.index.Load(records)
	cs.logger.Info("CatalogService", "Catalog loaded", map[string]interface{}{
		"file":     cs.filePath,
		"accepted": accepted,
		"rejected": rejected,
	})

	if cs.publisherService != nil {
		if err := cs.publisherService.PublishEvent(ctx, events.NewCatalogReloaded(accepted, rejected)); err != nil {
			cs.logger.Warn("CatalogService", "Failed to publish catalog event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.CatalogReloadResponse{Accepted: accepted, Rejected: rejected}, nil
}

// Reload re-reads the file. In-flight searches keep the old generation
// until the swap completes.
func (cs *catalogService) Reload(ctx context.Context) (*dto.CatalogReloadResponse, error) {
	return cs.Load(ctx)
}

func (cs *catalogService) Stats(ctx context.Context) (*dto.CatalogStatsResponse, error) {
	stats := cs.index.Stats()
	return &dto.CatalogStatsResponse{
		Items:      stats.Items,
		Accepted:   stats.Accepted,
		Rejected:   stats.Rejected,
		Categories: stats.Categories,
		Strains:    stats.Strains,
		Effects:    stats.Effects,
		LoadedAt:   stats.LoadedAt,
	}, nil
}
