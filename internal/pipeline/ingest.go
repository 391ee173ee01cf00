package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"retail-insights/internal/domain"
	"retail-insights/internal/model"
	"retail-insights/pkg/logger"
	"retail-insights/pkg/utils"
)

// ------------------- CSV Ingestion -------------------

// ReadCSV loads every row of the CSV file at path. The whole file is consumed
// before returning; any read error aborts with no partial result.
func ReadCSV(ctx context.Context, source, path string) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewSourceNotFoundError(source, err)
		}
		return nil, domain.NewInputError(source, "cannot open file", err)
	}
	defer file.Close()

	records, _, err := ParseCSV(ctx, source, file)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("csv ingestion done",
		"source", source,
		"path", path,
		"records", len(records),
	)
	return records, nil
}

// ParseCSV reads a header line followed by data rows from r.
// Short rows leave the trailing fields absent.
func ParseCSV(ctx context.Context, source string, r io.Reader) ([]model.Record, []string, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, domain.NewInputError(source, "file is empty", err)
	}
	if err != nil {
		return nil, nil, domain.NewInputError(source, "cannot read header", err)
	}
	headers = cleanHeaders(headers)

	records := make([]model.Record, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, domain.NewInputError(source, fmt.Sprintf("unreadable row after %d records", len(records)), err)
		}

		rec := make(model.Record, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			rec[h] = utils.ParseValue(row[i])
		}
		records = append(records, rec)
	}

	return records, headers, nil
}

// cleanHeaders trims whitespace, drops quotes and a leading byte order mark.
func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		out[i] = strings.ReplaceAll(h, `"`, "")
	}
	return out
}
