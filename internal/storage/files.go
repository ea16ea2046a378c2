package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
	"github.com/jwebster45206/dialogue-engine/pkg/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
	"gopkg.in/yaml.v3"
)

// dataExts are the descriptor extensions tried, in order.
var dataExts = []string{".json", ".yaml", ".yml"}

// FileStorage loads sources, scripts and portraits from a data directory:
//
//	<dataDir>/sources/<id>.json|yaml
//	<dataDir>/scripts/<name>
//	<dataDir>/portraits.json|yaml
//
// It has no transcript store.
type FileStorage struct {
	logger  *slog.Logger
	dataDir string
}

var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage creates a filesystem-only storage.
func NewFileStorage(dataDir string, logger *slog.Logger) *FileStorage {
	if dataDir == "" {
		dataDir = "./data"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStorage{logger: logger, dataDir: dataDir}
}

func (f *FileStorage) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.dataDir); err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error { return nil }

func (f *FileStorage) SaveTranscript(ctx context.Context, t *dialogue.Transcript) error {
	return storage.ErrTranscriptsDisabled
}

func (f *FileStorage) LoadTranscript(ctx context.Context, sessionID string) (*dialogue.Transcript, error) {
	return nil, storage.ErrTranscriptsDisabled
}

func (f *FileStorage) DeleteTranscript(ctx context.Context, sessionID string) error {
	return storage.ErrTranscriptsDisabled
}

// Source operations (filesystem-backed)

func (f *FileStorage) ListSources(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(f.dataDir, "sources"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read sources directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || !slices.Contains(dataExts, ext) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (f *FileStorage) GetSource(ctx context.Context, id string) (*dialogue.Source, error) {
	path, err := f.find(filepath.Join(f.dataDir, "sources", id))
	if err != nil {
		return nil, fmt.Errorf("source not found: %s", id)
	}

	var src dialogue.Source
	if err := decodeFile(path, &src); err != nil {
		return nil, fmt.Errorf("failed to parse source %s: %w", path, err)
	}
	if src.ID == "" {
		src.ID = id // Ensure ID is set from filename
	}
	if src.Script == "" {
		return nil, fmt.Errorf("source %s names no script", id)
	}

	compiled, err := f.GetScript(ctx, src.Script)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", id, err)
	}
	src.Compiled = compiled

	f.logger.Debug("Loaded dialogue source", "id", src.ID, "script", src.Script, "events", len(src.Events))
	return &src, nil
}

// Script operations (filesystem-backed)

// GetScript reads a script and returns it compiled to JSON. YAML scripts
// are converted.
func (f *FileStorage) GetScript(ctx context.Context, name string) ([]byte, error) {
	path := filepath.Join(f.dataDir, "scripts", name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("script not found: %s", name)
		}
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	if isYAML(path) {
		var s story.Script
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse script %s: %w", name, err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid script %s: %w", name, err)
		}
		return json.Marshal(&s)
	}

	if _, err := story.Parse(data); err != nil {
		return nil, fmt.Errorf("invalid script %s: %w", name, err)
	}
	return data, nil
}

// Portrait operations (filesystem-backed)

func (f *FileStorage) GetPortraits(ctx context.Context) (*portrait.Data, error) {
	path, err := f.find(filepath.Join(f.dataDir, "portraits"))
	if err != nil {
		f.logger.Debug("No portrait data found", "data_dir", f.dataDir)
		return nil, nil
	}

	var d portrait.Data
	if err := decodeFile(path, &d); err != nil {
		return nil, fmt.Errorf("failed to parse portraits %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portraits %s: %w", path, err)
	}
	return &d, nil
}

// find returns the first existing file for base with a known extension.
func (f *FileStorage) find(base string) (string, error) {
	for _, ext := range dataExts {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", os.ErrNotExist
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// decodeFile unmarshals JSON or YAML by file extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isYAML(path) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}
