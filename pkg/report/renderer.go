package report

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	Render(keys []string, rows [][]string) (string, error)
}

// CsvRendererImpl writes a header row followed by the data rows, separated
// by CRLF and delimited by a configurable character.
type CsvRendererImpl struct {
	delimiter rune
}

func NewCsvRenderer(delimiter rune) *CsvRendererImpl {
	return &CsvRendererImpl{delimiter: delimiter}
}

func (r *CsvRendererImpl) Render(keys []string, rows [][]string) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	writer.Comma = r.delimiter
	writer.UseCRLF = true

	if err := writer.Write(keys); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
