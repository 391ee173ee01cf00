package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"retail-insights/internal/domain"
	"retail-insights/internal/model"
	"retail-insights/pkg/logger"
)

// SourceLoad describes one file to read. After LoadAll, Records holds its rows,
// or Missing is set for an optional source that has not been uploaded.
type SourceLoad struct {
	Source   string
	Path     string
	Optional bool

	Records []model.Record
	Missing bool
}

// LoadAll reads every source concurrently and waits for all of them.
// The first failure cancels the others and is returned.
func LoadAll(ctx context.Context, loads ...*SourceLoad) error {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	for _, load := range loads {
		g.Go(func() error {
			records, err := ReadCSV(gctx, load.Source, load.Path)
			if err != nil {
				if load.Optional && domain.IsSourceNotFound(err) {
					logger.FromContext(ctx).Warn("optional source missing, continuing without it",
						"source", load.Source,
						"path", load.Path,
					)
					load.Missing = true
					return nil
				}
				return err
			}
			load.Records = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.FromContext(ctx).Debug("sources loaded",
		"count", len(loads),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
