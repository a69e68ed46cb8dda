package bungie

import (
	"github.com/kpango/glg"

	"github.com/rking788/gearsight/models"
)

// ConsolidatedProfile is the merged intermediate form of the raw component
// payloads: per-character equipment/inventory lists keyed by the character's
// own opaque identifier, a single vault list, and the unioned instance, stat,
// and socket cross-reference tables keyed by instance id.
type ConsolidatedProfile struct {
	EquipmentByCharacter map[string]models.ItemList
	InventoryByCharacter map[string]models.ItemList
	Vault                models.ItemList

	Instances map[string]*models.ItemInstance
	Stats     map[string]*models.ItemStats
	Sockets   map[string]*models.ItemSockets

	// Anomalies counts instance id collisions observed while folding the
	// per-source sub-tables into the global ones. Instance ids are globally
	// unique across an account so this should stay zero; a collision is
	// resolved last-write-wins and counted here, never treated as fatal.
	Anomalies int
}

// Consolidate merges the vault payload and the per-character payloads into one
// ConsolidatedProfile. Character item lists are copied verbatim under their own
// character key, two characters' lists are never merged together. Sub-tables
// from every source are unioned into the global instance/stat/socket tables;
// on a duplicate key the later write wins unless it would replace a populated
// entry with an empty one. A missing sub-component for a character simply
// contributes nothing, no placeholder entries are written. Zero characters is
// valid and yields empty per-character tables with a still-usable vault list.
func Consolidate(vault *VaultPayload, perCharacter map[string]*CharacterPayload) *ConsolidatedProfile {

	profile := &ConsolidatedProfile{
		EquipmentByCharacter: make(map[string]models.ItemList, len(perCharacter)),
		InventoryByCharacter: make(map[string]models.ItemList, len(perCharacter)),
		Instances:            make(map[string]*models.ItemInstance),
		Stats:                make(map[string]*models.ItemStats),
		Sockets:              make(map[string]*models.ItemSockets),
	}

	for characterID, payload := range perCharacter {
		if payload == nil {
			continue
		}

		profile.EquipmentByCharacter[characterID] = payload.Equipment
		profile.InventoryByCharacter[characterID] = payload.Inventory

		profile.mergeInstances(payload.Instances)
		profile.mergeStats(payload.Stats)
		profile.mergeSockets(payload.Sockets)
	}

	// Vault items share the same instance id space as character items so their
	// sub-tables fold into the same global tables.
	if vault != nil {
		profile.Vault = vault.Items
		profile.mergeInstances(vault.Instances)
		profile.mergeStats(vault.Stats)
		profile.mergeSockets(vault.Sockets)
	}

	if profile.Anomalies > 0 {
		glg.Warnf("Found %d instance id collisions while consolidating, resolved last-write-wins",
			profile.Anomalies)
	}

	return profile
}

func (p *ConsolidatedProfile) mergeInstances(instances map[string]*models.ItemInstance) {
	for id, instance := range instances {
		existing, collision := p.Instances[id]
		if collision {
			p.Anomalies++
			glg.Warnf("Duplicate instance id(%s) in instance tables", id)
			if instance == nil && existing != nil {
				continue
			}
		}
		p.Instances[id] = instance
	}
}

func (p *ConsolidatedProfile) mergeStats(stats map[string]*models.ItemStats) {
	for id, block := range stats {
		existing, collision := p.Stats[id]
		if collision {
			p.Anomalies++
			glg.Warnf("Duplicate instance id(%s) in stat tables", id)
			if isEmptyStats(block) && !isEmptyStats(existing) {
				continue
			}
		}
		p.Stats[id] = block
	}
}

func (p *ConsolidatedProfile) mergeSockets(sockets map[string]*models.ItemSockets) {
	for id, block := range sockets {
		existing, collision := p.Sockets[id]
		if collision {
			p.Anomalies++
			glg.Warnf("Duplicate instance id(%s) in socket tables", id)
			if isEmptySockets(block) && !isEmptySockets(existing) {
				continue
			}
		}
		p.Sockets[id] = block
	}
}

func isEmptyStats(block *models.ItemStats) bool {
	return block == nil || len(block.Stats) == 0
}

func isEmptySockets(block *models.ItemSockets) bool {
	return block == nil || len(block.Sockets) == 0
}

// instance returns the instance record for the given id or nil when the id is
// empty or no record was contributed for it.
func (p *ConsolidatedProfile) instance(instanceID string) *models.ItemInstance {
	if instanceID == "" {
		return nil
	}
	return p.Instances[instanceID]
}

func (p *ConsolidatedProfile) statBlock(instanceID string) *models.ItemStats {
	if instanceID == "" {
		return nil
	}
	return p.Stats[instanceID]
}

func (p *ConsolidatedProfile) socketBlock(instanceID string) *models.ItemSockets {
	if instanceID == "" {
		return nil
	}
	return p.Sockets[instanceID]
}
