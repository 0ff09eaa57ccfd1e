package activity

import (
	"context"
	"errors"
	"os"

	"github.com/klokku/timetrack/internal/textfile"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Load(ctx context.Context) (*Catalog, error)
	Save(ctx context.Context, catalog *Catalog) error
}

// FileRepository keeps the catalog in a tab separated text file, one
// activity per line.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load(ctx context.Context) (*Catalog, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("Activity file %s not found, starting with an empty catalog", r.path)
			return NewCatalog(nil)
		}
		log.Errorf("failed to open activity file: %v", err)
		return nil, err
	}
	defer f.Close()

	catalog, err := Load(r.path, f)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d activities from %s", len(catalog.Activities()), r.path)
	return catalog, nil
}

func (r *FileRepository) Save(ctx context.Context, catalog *Catalog) error {
	if err := textfile.WriteLines(r.path, catalog.Lines()); err != nil {
		log.Errorf("failed to write activity file: %v", err)
		return err
	}
	return nil
}
