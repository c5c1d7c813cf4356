// Package dataio reads and writes the pipeline's on-disk artifacts.
package dataio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrMissingInput means a step's input file does not exist yet.
var ErrMissingInput = errors.New("missing input file")

// File names shared by the pipeline steps.
const (
	ProMatchesFile    = "pro_matches.json"
	PublicMatchesFile = "public_matches.json"
	MatchDetailsFile  = "detailed_matches.json"
	HeroesFile        = "heroes.json"
	HeroStatsFile     = "hero_stats.json"
	ProcessedCSVFile  = "processed_matches.csv"
	ModelFile         = "model.json"
	ScalerFile        = "scaler.json"
	MetadataFile      = "metadata.json"
)

// SaveJSON writes v as indented JSON to dir/name, creating dir if needed.
// The document is written to a temp file and renamed into place.
func SaveJSON(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}

// WriteFile streams write's output to dir/name through a temp file that is
// renamed into place only when write succeeds.
func WriteFile(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}

// LoadJSON decodes dir/name into v. A missing file yields an error wrapping
// ErrMissingInput that tells the operator which step produces it.
func LoadJSON(dir, name, producer string, v any) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return MissingInput(path, producer)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Open opens dir/name for reading with the same missing-file handling as LoadJSON.
func Open(dir, name, producer string) (*os.File, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, MissingInput(path, producer)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// MissingInput builds the error returned when path has not been produced yet.
func MissingInput(path, producer string) error {
	if producer == "" {
		return fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	return fmt.Errorf("%w: %s (run %s first)", ErrMissingInput, path, producer)
}
