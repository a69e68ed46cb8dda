package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rking788/gearsight/models"
)

func TestSaveWritesBothFiles(t *testing.T) {

	basePath := filepath.Join(t.TempDir(), "gear_report")
	collection := testCollection()
	text := Render(collection, false)

	if err := Save(basePath, collection, text); err != nil {
		t.Fatalf("Save failed: %s", err.Error())
	}

	textBytes, err := os.ReadFile(basePath + ".txt")
	if err != nil {
		t.Fatalf("Text report not written: %s", err.Error())
	}
	if string(textBytes) != text {
		t.Error("Text report content does not match the rendered text")
	}

	jsonBytes, err := os.ReadFile(basePath + ".json")
	if err != nil {
		t.Fatalf("JSON report not written: %s", err.Error())
	}

	decoded := &models.GearCollection{}
	if err := json.Unmarshal(jsonBytes, decoded); err != nil {
		t.Fatalf("JSON report does not parse: %s", err.Error())
	}
	if decoded.Summary.TotalItems != collection.Summary.TotalItems {
		t.Errorf("Round-tripped summary diverged: %+v", decoded.Summary)
	}
	if len(decoded.Characters) != 1 || decoded.Characters[0].Class != "Titan" {
		t.Errorf("Round-tripped characters diverged: %+v", decoded.Characters)
	}
}

func TestSaveOverwritesPreviousReports(t *testing.T) {

	basePath := filepath.Join(t.TempDir(), "gear_report")
	collection := testCollection()

	if err := Save(basePath, collection, "first run\n"); err != nil {
		t.Fatalf("First save failed: %s", err.Error())
	}
	if err := Save(basePath, collection, "second run\n"); err != nil {
		t.Fatalf("Second save failed: %s", err.Error())
	}

	textBytes, err := os.ReadFile(basePath + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(textBytes) != "second run\n" {
		t.Errorf("Previous report was not replaced: %q", string(textBytes))
	}

	// No temp files should be left behind after either save.
	entries, err := os.ReadDir(filepath.Dir(basePath))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp") {
			t.Errorf("Leftover temp file: %s", entry.Name())
		}
	}
}

func TestSaveFailsOnMissingDirectory(t *testing.T) {

	basePath := filepath.Join(t.TempDir(), "missing", "gear_report")
	if err := Save(basePath, testCollection(), "text"); err == nil {
		t.Error("Expected an error when the target directory does not exist")
	}
}
