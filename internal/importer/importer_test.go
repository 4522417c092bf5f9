package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadLines(t *testing.T) {
	input := "# starter list\nHund\nhund \n\nkatt\nbil9\nSmörgås\n"
	res, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}

	want := []string{"hund", "katt", "smörgås"}
	if strings.Join(res.Headwords, ",") != strings.Join(want, ",") {
		t.Errorf("Headwords = %v, want %v", res.Headwords, want)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "bil9") {
		t.Errorf("Errors = %v", res.Errors)
	}
}

func TestReadCSV(t *testing.T) {
	input := "headword,meaning\nåka,to go\nÅka,to ride\nfika,coffee break\n"
	res, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(res.Headwords, ",") != "åka,fika" || res.Duplicates != 1 {
		t.Errorf("got %+v", res)
	}
}

func TestReadExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{{"Word"}, {"lagom"}, {"Mysig"}, {""}, {"lagom"}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Join(res.Headwords, ",") != "lagom,mysig" || res.Duplicates != 1 {
		t.Errorf("got %+v", res)
	}
}
