// Package fileio reads raw sales logs from disk.
package fileio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/salesflow/internal/common"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// HeaderToken marks a header line that is skipped when it is the first line.
const HeaderToken = "TransactionID"

// ErrUnknownEncoding is returned for an unsupported fallback encoding name.
var ErrUnknownEncoding = errors.New("unknown encoding")

// LookupEncoding maps a configured encoding name to a decoder.
// UTF-8 input never needs one; these cover legacy single-byte exports.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin-9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
}

// ReadLines reads the file at path and returns its non-blank, trimmed lines.
func ReadLines(path string, fallback encoding.Encoding) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file not found: %s", common.ErrNoInput, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeLines(data, fallback)
}

// DecodeLines decodes raw bytes and splits them into cleaned lines.
// Input that is not valid UTF-8 is decoded with fallback.
// A leading header line containing HeaderToken is dropped.
func DecodeLines(data []byte, fallback encoding.Encoding) ([]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var r io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		if fallback == nil {
			fallback = charmap.Windows1252
		}
		r = fallback.NewDecoder().Reader(r)
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}

	if len(lines) > 0 && strings.Contains(lines[0], HeaderToken) {
		lines = lines[1:]
	}

	return lines, nil
}
