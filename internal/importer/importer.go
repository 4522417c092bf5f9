// Package importer reads headword lists from plain text, CSV or Excel files.
package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ordforrad/api/internal/validator"
)

// Result holds the headwords that passed validation, deduplicated, in file
// order.
type Result struct {
	Headwords  []string
	Duplicates int
	Errors     []string
}

// ReadFile picks a reader by extension: .csv and .xlsx take the first column
// and skip a header row; anything else is one headword per line.
func ReadFile(path string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readExcel(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadLines(f)
	}
}

func ReadLines(r io.Reader) (*Result, error) {
	res := newCollector()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		res.add(line, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res.result(), nil
}

func ReadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return fromRows(rows), nil
}

func readExcel(path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Result{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return fromRows(rows), nil
}

// fromRows skips the header row and reads the first column.
func fromRows(rows [][]string) *Result {
	res := newCollector()
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if text := strings.TrimSpace(row[0]); text != "" {
			res.add(i+1, text)
		}
	}
	return res.result()
}

type collector struct {
	seen map[string]bool
	res  Result
}

func newCollector() *collector {
	return &collector{seen: make(map[string]bool)}
}

func (c *collector) add(line int, text string) {
	headword, err := validator.Headword(text)
	if err != nil {
		c.res.Errors = append(c.res.Errors, fmt.Sprintf("Row %d: %q: %v", line, text, err))
		return
	}
	if c.seen[headword] {
		c.res.Duplicates++
		return
	}
	c.seen[headword] = true
	c.res.Headwords = append(c.res.Headwords, headword)
}

func (c *collector) result() *Result {
	return &c.res
}
