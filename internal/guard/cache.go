package guard

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrCacheCorrupted is returned when the cache file cannot be parsed
	ErrCacheCorrupted = errors.New("cache file is corrupted")
	// ErrCacheSave is returned when the cache record cannot be persisted
	ErrCacheSave = errors.New("failed to save cache")
)

// Record is the guard's persisted last-known-good state.
type Record struct {
	// LastSuccess is when a run last completed without error
	LastSuccess *time.Time `toml:"last_success,omitempty"`
	// CurrentVersion is the "version" value seen at that time
	CurrentVersion *string `toml:"current_version,omitempty"`
	// TargetVersion is the "with" value seen at that time
	TargetVersion *string `toml:"target_version,omitempty"`
}

// NewRecord builds a complete record for a finished run.
func NewRecord(at time.Time, versions VersionPair) Record {
	ts := at.UTC().Truncate(time.Second)
	return Record{
		LastSuccess:    &ts,
		CurrentVersion: versions.Current,
		TargetVersion:  versions.Target,
	}
}

// Versions returns the recorded version pair.
func (r Record) Versions() VersionPair {
	return VersionPair{Current: r.CurrentVersion, Target: r.TargetVersion}
}

// IsEmpty reports whether nothing has been recorded yet.
func (r Record) IsEmpty() bool {
	return r.LastSuccess == nil && r.CurrentVersion == nil && r.TargetVersion == nil
}

// LoadCache reads the cache record at path. It never fails: a missing or
// unreadable file yields the empty record.
func LoadCache(path string) Record {
	rec, _ := LoadCacheChecked(path)
	return rec
}

// LoadCacheChecked is LoadCache but also reports why a present file was
// discarded. A missing file is not an error. The returned record is always
// usable.
func LoadCacheChecked(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return Record{}, err
	}

	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	return rec, nil
}

// SaveCache writes the record to path, creating the directory if needed.
// The data goes to a temporary file that is renamed over the old one, so a
// crash mid-write leaves the previous record intact.
func SaveCache(path string, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrCacheSave, err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCacheSave, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: write: %v", ErrCacheSave, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on rename failure
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %v", ErrCacheSave, err)
	}

	return nil
}
