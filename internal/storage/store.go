// Package storage keeps summaries of offline analysis runs on disk, one
// metadata.json per run directory. Samples are never written.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/orbitsim/internal/physics"
)

const metadataFile = "metadata.json"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Params     physics.Params     `json:"params"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save writes meta under a new run directory and returns the run ID. ID
// and Timestamp are filled in; non-finite metrics are dropped.
func (s *Store) Save(meta RunMetadata) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	meta.Timestamp = time.Now().UTC()
	runDir, id, err := s.newRunDir(meta.Params.Law.String(), meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = id
	meta.Metrics = finiteMetrics(meta.Metrics)

	f, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := ExportJSON(f, meta); err != nil {
		return "", err
	}
	return id, f.Close()
}

// newRunDir creates <law>_<timestamp>, adding a counter when two runs land
// in the same second.
func (s *Store) newRunDir(law string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%s", law, ts.Format("20060102-150405"))
	id := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, id, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

// finiteMetrics drops NaN and Inf values, which JSON cannot carry.
func finiteMetrics(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// List returns every readable run, oldest first. A missing base directory
// is an empty store.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// ExportJSON writes meta as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
