package consolidate

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Filename names an export file after the day it was produced.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("vocabulary-export-%s.%s", now.Format("2006-01-02"), ext)
}

// WriteJSON writes entries as an indented UTF-8 JSON array.
func WriteJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// ReadJSON parses a document produced by WriteJSON.
func ReadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return entries, nil
}

// ExportFile writes entries to dir as JSON and returns the file path.
func ExportFile(dir string, entries []Entry, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, entries); err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(now, "json"))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// ImportFile reads an export file back.
func ImportFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

var tableHeader = []string{"Headword", "Level", "Word Type", "Gender", "Meanings", "Synonyms", "Antonyms", "Learned", "Reserved", "My Meaning"}

func tableRow(e Entry) []string {
	var wordType, gender, meanings, synonyms, antonyms string
	if e.Enrichment != nil {
		wordType = e.Enrichment.WordType
		gender = e.Enrichment.Gender
		list := make([]string, len(e.Enrichment.Meanings))
		for i, m := range e.Enrichment.Meanings {
			list[i] = m.English
		}
		meanings = strings.Join(list, "; ")
		synonyms = strings.Join(e.Enrichment.Synonyms, ", ")
		antonyms = strings.Join(e.Enrichment.Antonyms, ", ")
	}
	userMeaning := ""
	if e.UserMeaning != nil {
		userMeaning = *e.UserMeaning
	}
	return []string{
		e.Headword,
		string(e.UnifiedLevel),
		wordType,
		gender,
		meanings,
		synonyms,
		antonyms,
		yesNo(e.IsLearned),
		yesNo(e.IsReserve),
		userMeaning,
	}
}

func WriteCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(tableHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writer.Write(tableRow(e)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// sheetName is the default sheet excelize creates.
const sheetName = "Sheet1"

// WriteXLSX renders entries as a single-sheet workbook.
func WriteXLSX(w io.Writer, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, title := range tableHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return err
		}
	}

	for i, e := range entries {
		row := tableRow(e)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
