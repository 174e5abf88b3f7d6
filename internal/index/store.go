package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pratish7991/TablueMeta/constants"
	"github.com/pratish7991/TablueMeta/internal/metadata"
)

// ErrStoreNotFound is returned when a workbook has no persisted index.
var ErrStoreNotFound = errors.New("index store not found")

// Store persists one index/metadata pair per workbook under Root:
//
//	<root>/<workbook>/dashboards.index
//	<root>/<workbook>/metadata.json
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) workbookDir(workbook string) string {
	return filepath.Join(s.Root, workbook)
}

// IndexPath returns the index file path for workbook.
func (s *Store) IndexPath(workbook string) string {
	return filepath.Join(s.workbookDir(workbook), constants.IndexFileName)
}

// MetadataPath returns the metadata file path for workbook.
func (s *Store) MetadataPath(workbook string) string {
	return filepath.Join(s.workbookDir(workbook), constants.MetadataFileName)
}

// Save writes the index first, then the metadata. A crash between the two
// leaves an index whose extra positions the search side skips.
func (s *Store) Save(workbook string, ix *FlatIndex, dashboards []metadata.Dashboard) error {
	dir := s.workbookDir(workbook)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := ix.WriteFile(s.IndexPath(workbook)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(dashboards, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(s.MetadataPath(workbook), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Load reads the index/metadata pair for workbook. Returns ErrStoreNotFound
// when either file is missing.
func (s *Store) Load(workbook string) (*FlatIndex, []metadata.Dashboard, error) {
	ix, err := ReadFile(s.IndexPath(workbook))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("workbook %s: %w", workbook, ErrStoreNotFound)
		}
		return nil, nil, err
	}
	data, err := os.ReadFile(s.MetadataPath(workbook))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("workbook %s: %w", workbook, ErrStoreNotFound)
		}
		return nil, nil, err
	}
	var dashboards []metadata.Dashboard
	if err := json.Unmarshal(data, &dashboards); err != nil {
		return nil, nil, fmt.Errorf("parse metadata for %s: %w", workbook, err)
	}
	return ix, dashboards, nil
}

// Workbooks lists workbook names that have a persisted index under Root.
func (s *Store) Workbooks() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.IndexPath(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
