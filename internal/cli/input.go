package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SlideStack/internal/importer"
	"github.com/piwi3910/SlideStack/internal/model"
	"github.com/piwi3910/SlideStack/internal/normalize"
	"github.com/piwi3910/SlideStack/internal/project"
)

// loadDeckConfig reads the config at path, or the default config path when
// path is empty. A missing file yields the built-in defaults.
func loadDeckConfig(ctx context.Context, path string) (model.DeckConfig, error) {
	logger := loggerFromContext(ctx)
	if path == "" {
		path = project.DefaultConfigPath()
	}

	loaded, err := project.LoadConfig(path)
	if err != nil {
		return model.DeckConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if !loaded.Found {
		logger.Debug("config not found, using defaults", "path", path)
	} else {
		logger.Debug("loaded config", "path", path)
	}
	for _, key := range loaded.Undecoded {
		logger.Warn("unknown config key", "key", key, "path", path)
	}
	return loaded.Config, nil
}

// importRecords reads every record from input. Import warnings are logged;
// import errors abort.
func importRecords(ctx context.Context, input string, cfg model.DeckConfig) ([]model.Record, error) {
	logger := loggerFromContext(ctx)

	im, err := importer.New(cfg.Columns)
	if err != nil {
		return nil, fmt.Errorf("column aliases: %w", err)
	}

	result := im.Import(input)
	for _, w := range result.Warnings {
		logger.Warn(w, "file", input)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("import %s: %s", input, strings.Join(result.Errors, "; "))
	}
	logger.Debug("imported records", "file", input, "count", len(result.Records))
	return result.Records, nil
}

// cleanRecords applies normalize.Clean and logs how many duplicates went away.
func cleanRecords(ctx context.Context, records []model.Record) []model.Record {
	result := normalize.Clean(records)
	if result.Removed > 0 {
		loggerFromContext(ctx).Warn("removed duplicate records", "count", result.Removed)
	}
	return result.Records
}

// outputPath returns output, or input with its extension replaced by ext.
func outputPath(input, output, ext string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
