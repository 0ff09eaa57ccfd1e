package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klokku/timetrack/internal/config"
	"github.com/klokku/timetrack/internal/utils"
	"github.com/klokku/timetrack/pkg/entry"
	"github.com/klokku/timetrack/pkg/timesheet"
	log "github.com/sirupsen/logrus"
)

var ErrFileExists = errors.New("file already exists")

type GenerateRequest struct {
	// From defaults to the start of the current month, To to now.
	From time.Time
	To   time.Time
	// Stdout prints the report instead of writing a file.
	Stdout bool
	// FilePath overrides the configured file name. When it names a
	// directory the configured file name is used inside it.
	FilePath string
}

type Result struct {
	Path string
	Rows int
}

type Service interface {
	Rows(ctx context.Context, from, to time.Time) ([]timesheet.CollapsedActivity, error)
	Generate(ctx context.Context, req GenerateRequest) (Result, error)
}

type ServiceImpl struct {
	entries  entry.Repository
	renderer Renderer
	cfg      config.Application
	location *time.Location
	clock    utils.Clock
	stdout   io.Writer
}

func NewService(
	entries entry.Repository,
	renderer Renderer,
	cfg config.Application,
	location *time.Location,
	clock utils.Clock,
	stdout io.Writer,
) *ServiceImpl {
	return &ServiceImpl{
		entries:  entries,
		renderer: renderer,
		cfg:      cfg,
		location: location,
		clock:    clock,
		stdout:   stdout,
	}
}

// Rows collapses the log between from and to. An activity still running at
// to is counted up to to, but never past now.
func (s *ServiceImpl) Rows(ctx context.Context, from, to time.Time) ([]timesheet.CollapsedActivity, error) {
	entries, err := s.entries.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return timesheet.Collapse(entries, from, to,
		timesheet.WithLocation(s.location),
		timesheet.WithOpenInterval(timesheet.CreditOpenInterval),
		timesheet.WithCreditUntil(s.clock.Now()),
	), nil
}

func (s *ServiceImpl) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	from, to := req.From, req.To
	if to.IsZero() {
		to = s.clock.Now()
	}
	if from.IsZero() {
		from = utils.StartOfMonth(to, s.location)
	}
	if !from.Before(to) {
		return Result{}, fmt.Errorf("empty report window: %s is not before %s",
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	log.Debugf("Generating report for [%s, %s)", from.Format(time.RFC3339), to.Format(time.RFC3339))

	collapsed, err := s.Rows(ctx, from, to)
	if err != nil {
		return Result{}, err
	}
	content, err := s.render(collapsed)
	if err != nil {
		return Result{}, err
	}

	if req.Stdout {
		if _, err := io.WriteString(s.stdout, content); err != nil {
			return Result{}, err
		}
		return Result{Rows: len(collapsed)}, nil
	}

	path, err := s.targetPath(req.FilePath, from.In(s.location))
	if err != nil {
		return Result{}, err
	}
	if err := writeNewFile(path, content); err != nil {
		return Result{}, err
	}
	log.Infof("Generated %s with %d rows", path, len(collapsed))
	return Result{Path: path, Rows: len(collapsed)}, nil
}

func (s *ServiceImpl) render(collapsed []timesheet.CollapsedActivity) (string, error) {
	templates, err := ParseTemplates(s.cfg.Output.Values)
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(collapsed))
	for _, c := range collapsed {
		vars := Variables(s.cfg, c, s.location)
		row := make([]string, 0, len(templates))
		for _, tmpl := range templates {
			value, err := tmpl.Evaluate(vars)
			if err != nil {
				return "", err
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	return s.renderer.Render(s.cfg.Output.Keys, rows)
}

func (s *ServiceImpl) targetPath(requested string, date time.Time) (string, error) {
	tmpl, err := ParseTemplate("output.file_name_format", s.cfg.Output.FileNameFormat)
	if err != nil {
		return "", err
	}
	defaultName, err := tmpl.Evaluate(FileVariables(s.cfg, date))
	if err != nil {
		return "", err
	}
	if defaultName == "" {
		return "", errors.New("output.file_name_format evaluated to an empty file name")
	}

	path := requested
	if path == "" {
		path = defaultName
	}
	for {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%s: %w", path, ErrFileExists)
		}
		path = filepath.Join(path, defaultName)
	}
}

func writeNewFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}
		return err
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
