package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spigell/staffmatch/internal/candidate"
)

// File keeps the corpus as a JSON or YAML array of documents, picked by extension.
// TOML files hold the documents as a [[candidates]] array of tables.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("file store path is required")
	}

	return &File{path: path}, nil
}

func (f *File) LoadAll(ctx context.Context) ([]candidate.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.read()
}

func (f *File) Insert(ctx context.Context, rec candidate.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return "", err
	}

	doc, id := withID(rec, "id")
	records = append(records, doc)

	if err := f.write(records); err != nil {
		return "", err
	}

	return id, nil
}

func (f *File) Close(context.Context) error {
	return nil
}

type tomlCorpus struct {
	Candidates []candidate.Record `toml:"candidates"`
}

func (f *File) format() string {
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

func (f *File) decode(data []byte) ([]candidate.Record, error) {
	var records []candidate.Record

	switch f.format() {
	case "yaml":
		err := yaml.Unmarshal(data, &records)
		return records, err
	case "toml":
		var doc tomlCorpus
		err := toml.Unmarshal(data, &doc)
		return doc.Candidates, err
	default:
		err := json.Unmarshal(data, &records)
		return records, err
	}
}

func (f *File) encode(records []candidate.Record) ([]byte, error) {
	switch f.format() {
	case "yaml":
		return yaml.Marshal(records)
	case "toml":
		return toml.Marshal(tomlCorpus{Candidates: records})
	default:
		return json.MarshalIndent(records, "", "  ")
	}
}

func (f *File) read() ([]candidate.Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	records, err := f.decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}

	return records, nil
}

func (f *File) write(records []candidate.Record) error {
	data, err := f.encode(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}

	return nil
}
