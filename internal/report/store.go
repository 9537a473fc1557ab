package report

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// stored wraps a Suite with the write timestamp for on-disk archives.
type stored struct {
	SavedAt time.Time `yaml:"saved_at"`
	Suite   *Suite    `yaml:"suite"`
}

// Save writes the suite report to disk as YAML.
func Save(path string, s *Suite) error {
	if s == nil {
		return nil
	}
	data, err := yaml.Marshal(&stored{SavedAt: time.Now().UTC(), Suite: s})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Load reads a suite report from disk. A missing file returns an empty
// suite.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Suite{}, nil
		}
		return nil, err
	}

	var st stored
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.Suite == nil {
		return &Suite{}, nil
	}
	return st.Suite, nil
}
