package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	internalErrors "github.com/gcbaptista/go-meddra-lookup/internal/errors"
)

// Field delimiter and schema widths of the MedDRA ASCII distribution.
const (
	fieldDelimiter = '$'

	lltFieldCount    = 12
	ptFieldCount     = 12
	mdhierFieldCount = 13
)

const utf8BOM = "\uFEFF"

// readTable streams every row of a '$'-delimited table to fn, padded to width
// fields. fn returns false to signal that the row was dropped.
// A missing file is reported as a DatasetUnavailableError.
func readTable(path string, width int, fn func(row []string) bool) (kept, dropped int, err error) {
	file, err := os.Open(path) // #nosec G304 -- path is built from the configured data root
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, 0, internalErrors.NewDatasetUnavailableError(path)
		}
		return 0, 0, internalErrors.NewDatasetUnavailableError(path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.Comma = fieldDelimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	first := true
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				dropped++
				continue
			}
			return kept, dropped, fmt.Errorf("failed to read %s: %w", path, readErr)
		}
		if first {
			first = false
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], utf8BOM)
			}
		}
		if fn(padRow(record, width)) {
			kept++
		} else {
			dropped++
		}
	}
	return kept, dropped, nil
}

// padRow returns a copy of row extended with empty strings to at least size fields.
func padRow(row []string, size int) []string {
	n := len(row)
	if n < size {
		n = size
	}
	padded := make([]string, n)
	copy(padded, row)
	return padded
}

// isYes reports whether a MedDRA flag column holds "Y".
func isYes(value string) bool {
	return strings.EqualFold(value, "Y")
}
