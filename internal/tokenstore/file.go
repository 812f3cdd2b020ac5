package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/minio/crc64nvme"
	"github.com/rs/zerolog/log"
)

// ErrChecksumMismatch is returned when the session file was modified outside
// the store or only partly written.
var ErrChecksumMismatch = errors.New("session file checksum mismatch")

const documentVersion = 2

// document is the on-disk layout of a FileStore. Version 1 files carry no
// checksum and are accepted as-is.
type document struct {
	Version  int               `json:"version"`
	Values   map[string]string `json:"values"`
	Checksum string            `json:"checksum,omitempty"`
}

// checksum computes CRC64-NVME over the values in key order.
func (d *document) checksum() string {
	keys := make([]string, 0, len(d.Values))
	for k := range d.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	h := crc64nvme.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(d.Values[k]))
		h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// FileStore keeps every key in a single JSON file. Each write replaces the
// file atomically, so a batch of keys is never partially persisted.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at path.
// If path is empty, uses ~/.luxe/session.json
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".luxe", "session.json")
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &FileStore{path: path}

	if err := store.ensureDocument(); err != nil {
		return nil, err
	}

	log.Debug().Str("path", path).Msg("file token store initialized")

	return store, nil
}

// Path returns the location of the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", err
	}

	v, ok := doc.Values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	return f.SetMany(ctx, map[string]string{key: value})
}

func (f *FileStore) Remove(ctx context.Context, key string) error {
	return f.RemoveMany(ctx, key)
}

func (f *FileStore) SetMany(ctx context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	for k, v := range values {
		doc.Values[k] = v
	}

	return f.save(doc)
}

func (f *FileStore) RemoveMany(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	changed := false
	for _, k := range keys {
		if _, ok := doc.Values[k]; ok {
			delete(doc.Values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	return f.save(doc)
}

// ensureDocument creates an empty document if it doesn't exist.
func (f *FileStore) ensureDocument() error {
	if _, err := os.Stat(f.path); err == nil {
		return nil
	}

	return f.save(&document{
		Values: make(map[string]string),
	})
}

func (f *FileStore) load() (*document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}

	if doc.Version >= documentVersion && doc.Checksum != doc.checksum() {
		return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, f.path)
	}

	return &doc, nil
}

// save writes the document atomically.
func (f *FileStore) save(doc *document) error {
	doc.Version = documentVersion
	doc.Checksum = doc.checksum()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	tempPath := f.path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tempPath, f.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session file: %w", err)
	}

	return nil
}
