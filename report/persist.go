package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kpango/glg"

	"github.com/rking788/gearsight/models"
)

// Save persists the gear collection as JSON and the rendered text next to it,
// using basePath plus ".json"/".txt" extensions. Both files are built fully in
// memory and moved into place with a rename, so an interrupted run never
// leaves a partially-written report behind.
func Save(basePath string, collection *models.GearCollection, text string) error {

	collectionBytes, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return err
	}

	if err := writeAtomic(basePath+".json", collectionBytes); err != nil {
		return err
	}
	if err := writeAtomic(basePath+".txt", []byte(text)); err != nil {
		return err
	}

	glg.Infof("Saved gear report to %s.json and %s.txt", basePath, basePath)
	return nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it into place. The temp file must be on the same filesystem as the target
// for the rename to be atomic.
func writeAtomic(path string, data []byte) error {

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
