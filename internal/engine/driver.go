package engine

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/piwi3910/SlideStack/internal/model"
)

// LayoutRecord lays out a single record with a one-off engine. Callers laying
// out many records should build one Engine with New and reuse it.
func LayoutRecord(fields map[model.Role]string, geometry model.PageGeometry, config []model.FieldConfig, settings model.LayoutSettings) (model.Layout, error) {
	e, err := New(geometry, settings, config)
	if err != nil {
		return model.Layout{}, err
	}
	return e.LayoutRecord(fields)
}

// LayoutAll lays out records with up to workers goroutines. Results are in
// the same order as records. A workers value below 1 uses GOMAXPROCS.
// Records not yet started when ctx is cancelled are skipped and ctx.Err()
// is returned.
func (e *Engine) LayoutAll(ctx context.Context, records []model.Record, workers int) ([]model.Layout, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(1, len(records)))

	layouts := make([]model.Layout, len(records))
	errs := make([]error, len(records))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				layout, err := e.LayoutRecord(records[i].Fields)
				layout.RecordID = records[i].ID
				layouts[i], errs[i] = layout, err
			}
		}()
	}

	var cancelErr error
feed:
	for i := range records {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelErr != nil {
		return nil, cancelErr
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return layouts, nil
}

// trimField strips surrounding whitespace so padded cells do not add lines.
func trimField(s string) string {
	return strings.TrimSpace(s)
}
