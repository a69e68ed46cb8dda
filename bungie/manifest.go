package bungie

import (
	"errors"

	"github.com/kpango/glg"

	"github.com/rking788/gearsight/models"
)

// BulkDefinitionSource is the read-only boundary to a bulk manifest snapshot:
// a recorded version string and the full definition table. storage.ManifestDB
// satisfies this over postgres or sqlite.
type BulkDefinitionSource interface {
	Version() (string, error)
	LoadDefinitions() (map[uint]*models.ItemDefinition, error)
}

// DefinitionStore is an optional cross-run cache for definitions resolved
// through the per-miss remote fallback. Failures here are never fatal, the
// store is strictly an optimization.
type DefinitionStore interface {
	GetDefinition(hash uint) (*models.ItemDefinition, error)
	SaveDefinition(hash uint, def *models.ItemDefinition) error
}

// DefinitionCache resolves item hashes to display metadata. It is constructed
// explicitly once per run and holds all of its state itself, there is no
// package-level cache to share between runs.
//
// The primary path is the preloaded bulk table; the fallback is a single-item
// remote fetch memoized for the remainder of the run, so repeat lookups for
// the same hash never re-fetch. Both maps are append-only for the life of one
// run and must not be shared across concurrent runs without synchronization.
type DefinitionCache struct {
	client *Client
	store  DefinitionStore

	bulk    map[uint]*models.ItemDefinition
	session map[uint]*models.ItemDefinition
	misses  map[uint]bool
}

// NewDefinitionCache creates a definition cache backed by the given client for
// per-miss remote fetches and an optional cross-run store. Either may be nil,
// which simply disables that path.
func NewDefinitionCache(client *Client, store DefinitionStore) *DefinitionCache {
	return &DefinitionCache{
		client:  client,
		store:   store,
		session: make(map[uint]*models.ItemDefinition),
		misses:  make(map[uint]bool),
	}
}

// LoadBulk loads the full definition table from the bulk source, but only when
// the source's recorded version matches the currently advertised one. A stale
// snapshot is never served partially: on a version mismatch the bulk path is
// left disabled and every lookup goes through the fallback instead.
func (d *DefinitionCache) LoadBulk(source BulkDefinitionSource, advertisedVersion string) error {
	if source == nil {
		return errors.New("no bulk definition source configured")
	}

	stored, err := source.Version()
	if err != nil {
		return err
	}
	if advertisedVersion != "" && stored != advertisedVersion {
		return errors.New("bulk manifest version " + stored +
			" does not match advertised version " + advertisedVersion)
	}

	definitions, err := source.LoadDefinitions()
	if err != nil {
		return err
	}

	d.bulk = definitions
	glg.Infof("Loaded %d item definitions from the bulk manifest", len(definitions))

	return nil
}

// Resolve looks up the definition for the given hash. The boolean is false
// when the hash is unresolvable anywhere; a remote failure for a single hash
// only marks that hash as missing, it never aborts processing of other items.
func (d *DefinitionCache) Resolve(hash uint) (*models.ItemDefinition, bool) {

	if def, ok := d.bulk[hash]; ok {
		return def, true
	}
	if def, ok := d.session[hash]; ok {
		return def, true
	}
	if d.misses[hash] {
		return nil, false
	}

	if d.store != nil {
		def, err := d.store.GetDefinition(hash)
		if err == nil && def != nil {
			d.session[hash] = def
			return def, true
		}
	}

	def, err := d.fetchDefinition(hash)
	if err != nil {
		glg.Warnf("Remote definition fetch for hash %d failed: %s", hash, err.Error())
		d.misses[hash] = true
		return nil, false
	}

	d.session[hash] = def
	if d.store != nil {
		if err := d.store.SaveDefinition(hash, def); err != nil {
			glg.Warnf("Failed to cache definition for hash %d: %s", hash, err.Error())
		}
	}

	return def, true
}

func (d *DefinitionCache) fetchDefinition(hash uint) (*models.ItemDefinition, error) {
	if d.client == nil {
		return nil, errors.New("no client configured for remote definition fetches")
	}

	definitionResponse := EntityDefinitionResponse{BaseResponse: &BaseResponse{}}
	err := d.client.Execute(NewEntityDefinitionRequest(InventoryItemEntityType, hash),
		&definitionResponse)
	if err != nil {
		return nil, err
	}

	def := definitionResponse.definition()
	if def == nil {
		return nil, errors.New("definition response missing body")
	}

	return def, nil
}
