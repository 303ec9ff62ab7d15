// Package export writes query results to CSV files.
//
// Conventional comma-separated output via encoding/csv. Parent
// directories are created as needed. No atomicity is promised; when
// the target exists a unique suffixed path is used instead so exports
// never overwrite earlier files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// WriteCSV writes columns and rows to path as CSV and returns the
// absolute path actually written.
func WriteCSV(path string, columns []string, rows [][]string) (string, error) {
	path, err := prepare(path)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(columns) > 0 {
		if err := w.Write(columns); err != nil {
			return "", err
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return path, nil
}

// WriteString writes a pre-formatted text block to path verbatim and
// returns the absolute path actually written.
func WriteString(path string, data string) (string, error) {
	path, err := prepare(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		return "", err
	}
	return path, nil
}

// prepare resolves the path, creates parent directories, and picks a
// unique name when the target already exists.
func prepare(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	return UniquePath(abs), nil
}

// UniquePath returns path unchanged when it does not exist, otherwise
// a variant with a short random token before the extension.
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	token := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%s%s", base, token, ext)
}
