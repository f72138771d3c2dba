// Package datastore persists a single flat section of string settings as a
// JSON document on disk:
//
//	{
//	    "bot": {
//	        "prefix": "e!",
//	        "shards": "0"
//	    }
//	}
//
// Every save rewrites the whole document. Writes go through a temporary file
// and a rename, so a crash mid-write leaves either the old or the new document,
// never a truncated one. Concurrent writers in other processes are not
// coordinated.
package datastore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNoSection is returned when the document lacks the configured section.
	ErrNoSection = errors.New("datastore: section not found")
	// ErrMalformed is returned when the document is not valid JSON.
	ErrMalformed = errors.New("datastore: malformed document")
)

// Config holds configuration options for the DataStore
type Config struct {
	FilePath    string
	Section     string
	Indent      string
	BackupCount int // Number of backup files to keep (0 = none)
}

// DefaultConfig returns a default configuration
func DefaultConfig(filePath, section string) *Config {
	return &Config{
		FilePath: filePath,
		Section:  section,
		Indent:   "    ",
	}
}

type DataStore struct {
	config       *Config
	mu           sync.Mutex
	lastChecksum string // checksum of the last document read or written
}

// New creates a DataStore with the default configuration
func New(filePath, section string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath, section))
}

// NewWithConfig creates a DataStore with a custom configuration. No file is
// touched until Load or Save is called.
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.FilePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if config.Section == "" {
		return nil, fmt.Errorf("section cannot be empty")
	}
	return &DataStore{config: config}, nil
}

// Path returns the document location.
func (ds *DataStore) Path() string { return ds.config.FilePath }

// Section returns the name of the object holding the settings.
func (ds *DataStore) Section() string { return ds.config.Section }

// Exists reports whether the document is present as a regular file.
func (ds *DataStore) Exists() (bool, error) {
	info, err := os.Stat(ds.config.FilePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return !info.IsDir(), nil
}

// Load reads the document and returns a copy of its section. Non-string JSON
// values are returned in their literal form, so a hand-edited `"shards": 2`
// reads as "2". A document wrapped in a top-level array is accepted and its
// first element used.
func (ds *DataStore) Load() (map[string]string, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	data, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	values, err := decodeSection(data, ds.config.Section)
	if err != nil {
		return nil, err
	}

	ds.lastChecksum = checksum(data)
	return values, nil
}

// Save rewrites the document with values as its only section.
func (ds *DataStore) Save(values map[string]string) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	data, err := ds.encode(values)
	if err != nil {
		return err
	}

	if ds.config.BackupCount > 0 {
		// a failed backup never blocks the write itself
		_ = ds.createBackup()
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}

	if err := ds.verifyFile(data); err != nil {
		return fmt.Errorf("file verification failed: %w", err)
	}

	ds.lastChecksum = checksum(data)
	return nil
}

// Modified reports whether the file on disk differs from what this store last
// read or wrote. It lets file watchers skip events caused by our own saves.
func (ds *DataStore) Modified() (bool, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	data, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return false, fmt.Errorf("failed to read file: %w", err)
	}
	return checksum(data) != ds.lastChecksum, nil
}

func (ds *DataStore) encode(values map[string]string) ([]byte, error) {
	section := make(map[string]string, len(values))
	for k, v := range values {
		section[k] = v
	}
	doc := map[string]map[string]string{ds.config.Section: section}

	data, err := json.MarshalIndent(doc, "", ds.config.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeSection(data []byte, section string) (map[string]string, error) {
	trimmed := bytes.TrimSpace(data)

	var doc map[string]json.RawMessage
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var docs []map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(docs) == 0 {
			return nil, ErrNoSection
		}
		doc = docs[0]
	} else if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	raw, ok := doc[section]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSection, section)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: section %q is not an object", ErrMalformed, section)
	}

	values := make(map[string]string, len(fields))
	for k, v := range fields {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			values[k] = s
			continue
		}
		values[k] = strings.TrimSpace(string(v))
	}
	return values, nil
}

// writeFileAtomic performs atomic file write using temporary file and rename
func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmpFile := ds.config.FilePath + ".tmp"

	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tmpFile, ds.config.FilePath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// verifyFile verifies that the written file matches expected data
func (ds *DataStore) verifyFile(expectedData []byte) error {
	actualData, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read file for verification: %w", err)
	}

	if checksum(actualData) != checksum(expectedData) {
		return fmt.Errorf("file checksum mismatch")
	}

	return nil
}

// createBackup creates a timestamped backup of the current file
func (ds *DataStore) createBackup() error {
	if _, err := os.Stat(ds.config.FilePath); os.IsNotExist(err) {
		return nil
	}

	timestamp := time.Now().Format("20060102_150405")
	backupFile := fmt.Sprintf("%s.backup.%s", ds.config.FilePath, timestamp)

	src, err := os.Open(ds.config.FilePath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	ds.cleanupOldBackups()
	return nil
}

// cleanupOldBackups removes old backup files beyond the configured limit
func (ds *DataStore) cleanupOldBackups() {
	matches, err := filepath.Glob(ds.config.FilePath + ".backup.*")
	if err != nil || len(matches) <= ds.config.BackupCount {
		return
	}

	type fileInfo struct {
		path    string
		modTime time.Time
	}

	var files []fileInfo
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil {
			files = append(files, fileInfo{match, info.ModTime()})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for i := 0; i < len(files)-ds.config.BackupCount; i++ {
		os.Remove(files[i].path)
	}
}

func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
