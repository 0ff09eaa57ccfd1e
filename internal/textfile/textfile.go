// Package textfile holds the line-oriented file primitives shared by the
// activity catalog and the entry log.
package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LineError reports a line of a file that could not be parsed.
type LineError struct {
	Source  string
	Line    int
	Content string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v (line: %q)", e.Source, e.Line, e.Err, e.Content)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseLines calls parse for every line read from r. The first failure
// aborts and is returned as a *LineError.
func ParseLines(source string, r io.Reader, parse func(line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if err := parse(line); err != nil {
			return &LineError{Source: source, Line: lineNo, Content: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}
	return nil
}

// ReadFile parses every line of path. A missing file is not an error and
// results in no calls to parse.
func ReadFile(path string, parse func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("%s does not exist yet, treating it as empty", path)
			return nil
		}
		return err
	}
	defer f.Close()
	return ParseLines(path, f, parse)
}

// AppendLine appends line and a newline to path and syncs the file before
// returning. The parent directory is created when missing.
func AppendLine(path string, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteLines replaces path with the given lines. The content is written to a
// temporary file in the same directory and renamed over path, so readers see
// either the old or the new file.
func WriteLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LastLine returns the final non-empty line of path, or "" when the file is
// missing or empty.
func LastLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	const chunkSize = 4096
	var tail []byte
	for offset := info.Size(); offset > 0; {
		size := int64(chunkSize)
		if offset < size {
			size = offset
		}
		offset -= size
		chunk := make([]byte, size)
		if _, err := f.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		tail = append(chunk, tail...)

		trimmed := strings.TrimRight(string(tail), "\r\n")
		if idx := strings.LastIndexByte(trimmed, '\n'); idx >= 0 {
			return strings.TrimSuffix(trimmed[idx+1:], "\r"), nil
		}
		if offset == 0 {
			return trimmed, nil
		}
	}
	return "", nil
}
