package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	raven "github.com/getsentry/raven-go"
	"github.com/kpango/glg"
	_ "github.com/lib/pq"      // postgres driver, hosted manifest table
	_ "modernc.org/sqlite"     // sqlite driver, local manifest snapshot
	"github.com/rking788/gearsight/models"
)

// ManifestDB is a wrapper around the database connection pool holding the bulk
// manifest snapshot, with the commonly used queries stored as prepared
// statements. The snapshot is read-only; its recorded version must match the
// currently advertised manifest version before it may be served.
type ManifestDB struct {
	Database        *sql.DB
	VersionStmt     *sql.Stmt
	DefinitionsStmt *sql.Stmt
}

// OpenManifest sets up the connection pool for the bulk manifest table and
// prepares the statements used to read it. Supported drivers are "postgres"
// (a hosted manifest table) and "sqlite" (a local snapshot file).
func OpenManifest(driver, dsn string) (*ManifestDB, error) {

	if driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported manifest driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		raven.CaptureError(err, nil)
		glg.Errorf("DB error: %s", err.Error())
		return nil, err
	}

	versionStmt, err := db.Prepare("SELECT version FROM manifest_version LIMIT 1")
	if err != nil {
		raven.CaptureError(err, nil)
		glg.Errorf("DB prepare error: %s", err.Error())
		return nil, err
	}

	definitionsStmt, err := db.Prepare("SELECT item_hash, item_name, item_type_name, " +
		"tier_type, default_damage_type, category_hashes FROM item_definitions")
	if err != nil {
		raven.CaptureError(err, nil)
		glg.Errorf("DB prepare error: %s", err.Error())
		return nil, err
	}

	return &ManifestDB{
		Database:        db,
		VersionStmt:     versionStmt,
		DefinitionsStmt: definitionsStmt,
	}, nil
}

// Close releases the prepared statements and the underlying connection pool.
func (m *ManifestDB) Close() error {
	m.VersionStmt.Close()
	m.DefinitionsStmt.Close()
	return m.Database.Close()
}

// Version reads the manifest version string recorded alongside the snapshot.
func (m *ManifestDB) Version() (string, error) {

	row := m.VersionStmt.QueryRow()

	var version string
	err := row.Scan(&version)
	if err == sql.ErrNoRows {
		return "", errors.New("no manifest version recorded")
	} else if err != nil {
		return "", err
	}

	return version, nil
}

// LoadDefinitions will load all item definition rows from the manifest table.
// Only the columns needed for gear normalization are read into memory.
func (m *ManifestDB) LoadDefinitions() (map[uint]*models.ItemDefinition, error) {

	rows, err := m.DefinitionsStmt.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	definitions := make(map[uint]*models.ItemDefinition)
	for rows.Next() {
		var hash uint
		var categoryJSON string
		def := models.ItemDefinition{}
		err = rows.Scan(&hash, &def.Name, &def.ItemTypeName, &def.TierType,
			&def.DefaultDamageType, &categoryJSON)
		if err != nil {
			raven.CaptureError(err, nil)
			glg.Errorf("Error scanning definition row: %s", err.Error())
			continue
		}

		if categoryJSON != "" {
			if err = json.Unmarshal([]byte(categoryJSON), &def.CategoryHashes); err != nil {
				glg.Warnf("Malformed category hashes for item %d: %s", hash, err.Error())
			}
		}

		definitions[hash] = &def
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return definitions, nil
}
