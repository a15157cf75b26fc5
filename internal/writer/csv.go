// Package writer renders generated tables as delimited text files.
package writer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/utafrali/catalog-datagen/internal/domain"
)

// DefaultDelimiter separates fields unless a plan overrides it.
const DefaultDelimiter = ','

// Output file names.
const (
	ProductsFile        = "products.csv"
	VariantGroupsFile   = "variant_groups.csv"
	AttributeGroupsFile = "attribute_groups.csv"
)

// ParseDelimiter returns the first rune of s, or DefaultDelimiter when s is
// empty.
func ParseDelimiter(s string) rune {
	if s == "" {
		return DefaultDelimiter
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// CSVWriter writes tables under an output directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a writer for dir. The directory is created on the
// first write.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteTable writes table to dir/filename and returns the file path.
func (w *CSVWriter) WriteTable(filename string, table *domain.Table, delimiter rune) (path string, err error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", w.dir, err)
	}
	path = filepath.Join(w.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriterSize(f, 64*1024)
	if err := Write(bw, table, delimiter); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}

// Write renders table to out: a header row with the union of all keys in
// first-seen order, then one row per record with absent keys left empty.
// An empty table writes nothing.
func Write(out io.Writer, table *domain.Table, delimiter rune) error {
	if table == nil || table.Len() == 0 {
		return nil
	}
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	cw := csv.NewWriter(out)
	cw.Comma = delimiter

	headers := table.Headers()
	if err := cw.Write(headers); err != nil {
		return err
	}
	row := make([]string, len(headers))
	for _, rec := range table.Records {
		for i, h := range headers {
			row[i], _ = rec.Get(h)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
