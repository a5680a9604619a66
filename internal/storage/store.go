package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	metadataFile = "metadata.json"
	orderFile    = "order.csv"
)

var orderHeader = []string{"position", "joint", "type", "parent", "child", "depth", "level"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one registration pass.
type RunMetadata struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
	Joints     int       `json:"joints"`
	Registered int       `json:"registered"`
	DOF        int       `json:"dof"`
	Strict     bool      `json:"strict"`
	Error      string    `json:"error,omitempty"`
}

// OrderEntry is one row of a registration order.
type OrderEntry struct {
	Position int
	Joint    string
	Type     string
	Parent   string
	Child    string
	Depth    int
	Level    int
}

func (s *Store) Save(meta RunMetadata, order []OrderEntry) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", runPrefix(meta.Model), meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, orderFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(orderHeader); err != nil {
		return "", err
	}
	for _, e := range order {
		row := []string{
			strconv.Itoa(e.Position),
			e.Joint,
			e.Type,
			e.Parent,
			e.Child,
			strconv.Itoa(e.Depth),
			strconv.Itoa(e.Level),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// runPrefix turns a model name into a single path element so every run
// lives directly under the base directory.
func runPrefix(model string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	prefix := strings.Trim(r.Replace(model), ". ")
	if prefix == "" {
		return "model"
	}
	return prefix
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadOrder(runID string) ([]OrderEntry, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, orderFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []OrderEntry{}, nil
	}

	order := make([]OrderEntry, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(orderHeader) {
			return nil, fmt.Errorf("%s: malformed row %v", orderFile, record)
		}
		pos, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, err
		}
		depth, err := strconv.Atoi(record[5])
		if err != nil {
			return nil, err
		}
		level, err := strconv.Atoi(record[6])
		if err != nil {
			return nil, err
		}
		order = append(order, OrderEntry{
			Position: pos,
			Joint:    record[1],
			Type:     record[2],
			Parent:   record[3],
			Child:    record[4],
			Depth:    depth,
			Level:    level,
		})
	}

	return order, nil
}
