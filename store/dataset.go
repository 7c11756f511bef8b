// Package store loads the MedDRA reference tables and keeps them in memory
// for the lifetime of the process.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-meddra-lookup/internal/errors"
	"github.com/gcbaptista/go-meddra-lookup/internal/logging"
	"github.com/gcbaptista/go-meddra-lookup/model"
)

// Table file names inside the dataset directory.
const (
	LLTFile    = "llt.asc"
	PTFile     = "pt.asc"
	MDHierFile = "mdhier.asc"
)

// lazyTable memoizes the build of one table. The build runs exactly once even
// under concurrent callers, and its error is cached with the value.
type lazyTable[T any] struct {
	once    sync.Once
	built   atomic.Bool
	value   T
	err     error
	dropped int
}

func (l *lazyTable[T]) get(build func() (T, int, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.dropped, l.err = build()
		l.built.Store(true)
	})
	return l.value, l.err
}

// peek returns the table without triggering its build. ok is false until a
// build has completed successfully.
func (l *lazyTable[T]) peek() (value T, dropped int, ok bool) {
	if !l.built.Load() || l.err != nil {
		return value, 0, false
	}
	return l.value, l.dropped, true
}

// Dataset gives read access to the three reference tables. Each table is
// parsed on first access and is read-only afterwards, so concurrent readers
// need no locking once it is built.
type Dataset struct {
	root   string
	dir    string
	logger *zap.Logger

	llt       lazyTable[[]model.LowestLevelTerm]
	pt        lazyTable[map[string]model.PreferredTerm]
	hierarchy lazyTable[map[string][]model.HierarchyEntry]
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithLogger sets the logger used to report table loads.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dataset) {
		d.logger = logger
	}
}

// WithDatasetDir overrides the subdirectory holding the tables (default "ascii-281").
func WithDatasetDir(name string) Option {
	return func(d *Dataset) {
		if name != "" {
			d.dir = name
		}
	}
}

// Open prepares a dataset rooted at root. It fails with a
// DatasetUnavailableError when the dataset directory is absent; individual
// tables are only checked when first needed.
func Open(root string, opts ...Option) (*Dataset, error) {
	d := &Dataset{
		root:   root,
		dir:    "ascii-281",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.OrNop(d.logger)

	dirPath := d.Dir()
	info, err := os.Stat(dirPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, internalErrors.NewDatasetUnavailableError(dirPath)
		}
		return nil, internalErrors.NewDatasetUnavailableError(dirPath, err)
	}
	if !info.IsDir() {
		return nil, internalErrors.NewDatasetUnavailableError(dirPath, fmt.Errorf("not a directory"))
	}
	return d, nil
}

// Dir returns the directory holding the table files.
func (d *Dataset) Dir() string {
	return filepath.Join(d.root, d.dir)
}

// LowestLevelTerms returns every LLT in source order.
func (d *Dataset) LowestLevelTerms() ([]model.LowestLevelTerm, error) {
	return d.llt.get(d.loadLowestLevelTerms)
}

// PreferredTerms returns the PT records keyed by PT code.
func (d *Dataset) PreferredTerms() (map[string]model.PreferredTerm, error) {
	return d.pt.get(d.loadPreferredTerms)
}

// Hierarchy returns the hierarchy entries keyed by PT code, each list in
// source row order.
func (d *Dataset) Hierarchy() (map[string][]model.HierarchyEntry, error) {
	return d.hierarchy.get(d.loadHierarchy)
}

func (d *Dataset) loadLowestLevelTerms() ([]model.LowestLevelTerm, int, error) {
	path := filepath.Join(d.Dir(), LLTFile)
	var records []model.LowestLevelTerm
	kept, dropped, err := readTable(path, lltFieldCount, func(row []string) bool {
		code, name, ptCode := row[0], row[1], row[2]
		if code == "" || name == "" || ptCode == "" {
			return false
		}
		records = append(records, model.LowestLevelTerm{
			Code:          code,
			Name:          name,
			PreferredCode: ptCode,
			Active:        isYes(row[9]),
		})
		return true
	})
	if err != nil {
		d.logger.Error("Failed to load lowest level terms", zap.String("path", path), zap.Error(err))
		return nil, dropped, err
	}
	d.logger.Info("Loaded lowest level terms", zap.Int("count", kept), zap.Int("dropped", dropped))
	return records, dropped, nil
}

func (d *Dataset) loadPreferredTerms() (map[string]model.PreferredTerm, int, error) {
	path := filepath.Join(d.Dir(), PTFile)
	mapping := make(map[string]model.PreferredTerm)
	kept, dropped, err := readTable(path, ptFieldCount, func(row []string) bool {
		code, name := row[0], row[1]
		if code == "" || name == "" {
			return false
		}
		mapping[code] = model.PreferredTerm{
			Code:           code,
			Name:           name,
			PrimarySOCCode: row[3],
		}
		return true
	})
	if err != nil {
		d.logger.Error("Failed to load preferred terms", zap.String("path", path), zap.Error(err))
		return nil, dropped, err
	}
	d.logger.Info("Loaded preferred terms", zap.Int("count", kept), zap.Int("dropped", dropped))
	return mapping, dropped, nil
}

func (d *Dataset) loadHierarchy() (map[string][]model.HierarchyEntry, int, error) {
	path := filepath.Join(d.Dir(), MDHierFile)
	mapping := make(map[string][]model.HierarchyEntry)
	kept, dropped, err := readTable(path, mdhierFieldCount, func(row []string) bool {
		if row[0] == "" {
			return false
		}
		entry := model.HierarchyEntry{
			PreferredCode: row[0],
			HLTCode:       row[1],
			HLGTCode:      row[2],
			SOCCode:       row[3],
			PreferredName: row[4],
			HLTName:       row[5],
			HLGTName:      row[6],
			SOCName:       row[7],
			SOCAbbrev:     row[8],
			Primary:       isYes(row[11]),
		}
		mapping[entry.PreferredCode] = append(mapping[entry.PreferredCode], entry)
		return true
	})
	if err != nil {
		d.logger.Error("Failed to load hierarchy", zap.String("path", path), zap.Error(err))
		return nil, dropped, err
	}
	d.logger.Info("Loaded hierarchy", zap.Int("entries", kept), zap.Int("preferred_terms", len(mapping)), zap.Int("dropped", dropped))
	return mapping, dropped, nil
}

// Warm parses all three tables concurrently on a pool of the given size.
// Lazy access stays valid afterwards; Warm only moves the cost to startup.
func (d *Dataset) Warm(ctx context.Context, workers int) error {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("failed to create load pool: %w", err)
	}
	defer pool.Release()

	loaders := []func() error{
		func() error { _, err := d.LowestLevelTerms(); return err },
		func() error { _, err := d.PreferredTerms(); return err },
		func() error { _, err := d.Hierarchy(); return err },
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, load := range loaders {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		load := load
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := load(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("failed to submit table load: %w", err))
			mu.Unlock()
		}
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Stats reports the sizes of the tables built so far without triggering a
// load. Loaded is true once all three tables are available.
func (d *Dataset) Stats() model.DatasetStats {
	llt, lltDropped, lltOK := d.llt.peek()
	pt, ptDropped, ptOK := d.pt.peek()
	hier, hierDropped, hierOK := d.hierarchy.peek()

	stats := model.DatasetStats{
		LowestLevelTerms: len(llt),
		PreferredTerms:   len(pt),
		DroppedRows:      lltDropped + ptDropped + hierDropped,
		Loaded:           lltOK && ptOK && hierOK,
	}
	for _, entries := range hier {
		stats.HierarchyEntries += len(entries)
	}
	return stats
}
