// Package statement turns the raw bytes of a brokerage CSV export into rows of cells.
// Brokerage exports are Shift_JIS encoded with a single header line.
package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

var (
	// ErrDecode indicates the upload is not valid Shift_JIS text.
	ErrDecode = errors.New("statement is not valid Shift_JIS")

	// ErrParse indicates the decoded text could not be read as CSV.
	ErrParse = errors.New("statement is not valid CSV")
)

// Decode converts Shift_JIS bytes into a UTF-8 string.
// The x/text decoder substitutes U+FFFD for invalid sequences instead of failing,
// so any replacement rune in the output is reported as ErrDecode. No partial text is returned.
func Decode(b []byte) (string, error) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	for i := 0; i < len(out); {
		r, size := utf8.DecodeRune(out[i:])
		if r == utf8.RuneError {
			return "", fmt.Errorf("%w: invalid byte sequence near offset %d", ErrDecode, i)
		}
		i += size
	}

	return string(out), nil
}

// ReadRows parses decoded text as CSV, discards the header record and returns the data rows.
// Rows may have fewer cells than the header; the record mapper treats missing cells as absent.
// Malformed quoting aborts the whole read with ErrParse.
func ReadRows(text string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = false

	// Header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return [][]string{}, nil
		}
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}

	rows := [][]string{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// Load decodes b and returns its data rows.
func Load(b []byte) ([][]string, error) {
	text, err := Decode(b)
	if err != nil {
		return nil, err
	}
	return ReadRows(text)
}
