// Package store reads and writes candidate records in the configured backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spigell/staffmatch/internal/candidate"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

const candidatesTable = "candidates"

var ErrUnknownDriver = errors.New("unknown store driver")

type Config struct {
	Driver string `mapstructure:"driver"`
	// Path is the corpus file for the file driver and the database file for sqlite.
	Path string `mapstructure:"path"`
	// URI is the connection string for postgres and mongo.
	URI        string `mapstructure:"uri" json:"-"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type Inserter interface {
	Insert(ctx context.Context, rec candidate.Record) (string, error)
}

type Store interface {
	candidate.Loader
	Inserter
	Close(ctx context.Context) error
}

// Open returns the store selected by cfg.Driver. An empty driver means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	var (
		s   Store
		err error
	)

	switch driver {
	case "", DriverFile:
		s, err = NewFile(cfg.Path)
	case DriverSQLite:
		s, err = OpenSQLite(ctx, cfg.Path)
	case DriverPostgres:
		s, err = OpenPostgres(ctx, cfg.URI)
	case DriverMongo:
		s, err = OpenMongo(ctx, cfg.URI, cfg.Database, cfg.Collection)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return s, nil
}

// withID returns a copy of rec that carries an identifier under key, reusing an
// existing _id or id value and generating one otherwise.
func withID(rec candidate.Record, key string) (candidate.Record, string) {
	out := make(candidate.Record, len(rec)+1)
	for k, v := range rec {
		out[k] = v
	}

	for _, k := range []string{"_id", "id"} {
		if v, ok := out[k]; ok && v != nil {
			if id := strings.TrimSpace(fmt.Sprint(v)); id != "" {
				return out, id
			}
		}
	}

	id := uuid.NewString()
	out[key] = id
	return out, id
}
