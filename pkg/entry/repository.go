package entry

import (
	"context"
	"fmt"

	"github.com/klokku/timetrack/internal/textfile"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// LoadAll returns every entry in storage order. A log that doesn't
	// exist yet is empty.
	LoadAll(ctx context.Context) ([]Entry, error)
	// Append durably adds e to the end of the log.
	Append(ctx context.Context, e Entry) error
	// Last returns the newest entry, or nil for an empty log.
	Last(ctx context.Context) (Entry, error)
}

// FileRepository stores the log as one tab separated line per entry. The
// file is only ever appended to.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) LoadAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := textfile.ReadFile(r.path, func(line string) error {
		e, err := ParseLine(line)
		if err != nil {
			return err
		}
		if n := len(entries); n > 0 && e.Timestamp().Before(entries[n-1].Timestamp()) {
			return ErrOutOfOrder
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		log.Errorf("failed to load entries: %v", err)
		return nil, err
	}
	log.Debugf("Loaded %d entries from %s", len(entries), r.path)
	return entries, nil
}

func (r *FileRepository) Append(ctx context.Context, e Entry) error {
	if err := textfile.AppendLine(r.path, FormatLine(e)); err != nil {
		log.Errorf("failed to append entry: %v", err)
		return err
	}
	return nil
}

func (r *FileRepository) Last(ctx context.Context) (Entry, error) {
	line, err := textfile.LastLine(r.path)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	e, err := ParseLine(line)
	if err != nil {
		return nil, fmt.Errorf("%s: last entry %q: %w", r.path, line, err)
	}
	return e, nil
}
