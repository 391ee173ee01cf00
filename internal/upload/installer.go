// Package upload installs uploaded CSV files as the current version of a source.
package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"retail-insights/internal/config"
	"retail-insights/internal/domain"
	"retail-insights/internal/metrics"
	"retail-insights/internal/model"
	"retail-insights/internal/pipeline"
	"retail-insights/pkg/logger"
	"retail-insights/pkg/utils"
)

// Recorder keeps the upload log.
type Recorder interface {
	SaveUpload(ctx context.Context, up *model.Upload) error
}

// Installer writes uploads next to their destination and renames them into
// place only after they were fully written, synced and validated.
type Installer struct {
	dir      *utils.UploadDir
	sources  config.SourcesConfig
	recorder Recorder
}

// NewInstaller returns an installer for the configured sources. recorder may be nil.
func NewInstaller(sources config.SourcesConfig, recorder Recorder) *Installer {
	return &Installer{
		dir:      utils.NewUploadDir(sources.Dir),
		sources:  sources,
		recorder: recorder,
	}
}

// ResolveSource picks the destination of an upload. An explicit source may be
// a logical name or a well-known file name. Without one, an upload named like
// a well-known file replaces that file and anything else replaces the submission.
func (in *Installer) ResolveSource(requested, originalName string) (model.Source, error) {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		for _, src := range in.sources.All() {
			if strings.EqualFold(requested, src.Name) || strings.EqualFold(requested, src.File) {
				return src, nil
			}
		}
		return model.Source{}, domain.NewInvalidInputError(fmt.Sprintf("unknown source '%s'", requested))
	}

	base := filepath.Base(originalName)
	for _, src := range in.sources.All() {
		if strings.EqualFold(base, src.File) {
			return src, nil
		}
	}
	src, _ := in.sources.Lookup(model.SourceSubmission)
	return src, nil
}

// Install copies r into the destination of the resolved source. On any error
// the destination is left untouched and the temporary file is removed.
func (in *Installer) Install(ctx context.Context, requested, originalName string, r io.Reader) (*model.Upload, error) {
	log := logger.FromContext(ctx)

	if utils.FileType(originalName) != "csv" {
		return nil, domain.NewInvalidInputError("only .csv files are accepted")
	}
	src, err := in.ResolveSource(requested, originalName)
	if err != nil {
		return nil, err
	}

	up, err := in.install(ctx, src, originalName, r)
	if err != nil {
		metrics.RecordUpload(src.Name, "failed")
		return nil, err
	}
	metrics.RecordUpload(src.Name, "success")

	if in.recorder != nil {
		if err := in.recorder.SaveUpload(ctx, up); err != nil {
			// the file is already in place; a missing log entry is not worth failing the upload
			log.Warn("failed to record upload", "upload_id", up.ID, "error", err)
			metrics.RecordError("upload_log", "store")
		}
	}

	log.Info("source installed",
		"source", up.Source,
		"path", up.Path,
		"rows", up.Rows,
		"bytes", up.Size,
		"checksum", up.Checksum,
	)
	return up, nil
}

func (in *Installer) install(ctx context.Context, src model.Source, originalName string, r io.Reader) (*model.Upload, error) {
	if err := in.dir.EnsureExists(); err != nil {
		return nil, domain.NewInternalError(err)
	}

	tmp, err := os.CreateTemp(in.dir.BaseDir, ".upload-*.tmp")
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), r)
	if err != nil {
		return nil, domain.NewInputError(src.Name, "upload interrupted", err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("sync temp file: %w", err))
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("rewind temp file: %w", err))
	}

	records, headers, err := pipeline.ParseCSV(ctx, src.Name, tmp)
	if err != nil {
		return nil, err
	}
	if err := pipeline.ValidateHeader(src, headers); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("close temp file: %w", err))
	}

	dest := in.dir.PathFor(src.File)
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		committed = true
		return nil, domain.NewInternalError(fmt.Errorf("install %s: %w", dest, err))
	}
	committed = true

	return &model.Upload{
		ID:           uuid.New().String(),
		Source:       src.Name,
		OriginalName: filepath.Base(originalName),
		Path:         dest,
		Size:         size,
		Checksum:     hex.EncodeToString(hasher.Sum(nil)),
		Rows:         len(records),
	}, nil
}
