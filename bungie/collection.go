package bungie

import (
	"time"

	"github.com/kpango/glg"

	"github.com/rking788/gearsight/models"
)

// BuildGearCollection orchestrates normalization across every character and the
// vault, producing the final gear collection plus its summary counters.
//
// Equipped items are retained regardless of category since equipped slots only
// ever hold equippable gear; character inventory and vault lists are filtered
// down to weapons and armor. Characters keep the order they were discovered in
// and item order within each list follows the source payload order.
func BuildGearCollection(characters models.CharacterList, profile *ConsolidatedProfile,
	defs *DefinitionCache) *models.GearCollection {

	collection := &models.GearCollection{
		Characters: make([]*models.CharacterGearBlock, 0, len(characters)),
		Vault:      make([]*models.GearItem, 0, len(profile.Vault)),
	}

	misses := 0

	for _, char := range characters {
		block := &models.CharacterGearBlock{
			CharacterID: char.CharacterID,
			Class:       char.ClassName(),
			Race:        char.RaceName(),
			Gender:      char.GenderName(),
			Light:       char.Light,
			LastPlayed:  char.DateLastPlayed,
			Equipped:    make([]*models.GearItem, 0, 16),
			Inventory:   make([]*models.GearItem, 0, 32),
		}

		for _, stack := range profile.EquipmentByCharacter[char.CharacterID] {
			gear, ok := normalizeItem(stack, profile, models.LocationEquipped, defs)
			if !ok {
				misses++
				continue
			}
			block.Equipped = append(block.Equipped, gear)
		}

		for _, stack := range profile.InventoryByCharacter[char.CharacterID] {
			gear, ok := normalizeItem(stack, profile, models.LocationCharacterInventory, defs)
			if !ok {
				misses++
				continue
			}
			if gear.Category != models.CategoryWeapon && gear.Category != models.CategoryArmor {
				continue
			}
			block.Inventory = append(block.Inventory, gear)
		}

		collection.Characters = append(collection.Characters, block)
	}

	for _, stack := range profile.Vault {
		gear, ok := normalizeItem(stack, profile, models.LocationVault, defs)
		if !ok {
			misses++
			continue
		}
		if gear.Category != models.CategoryWeapon && gear.Category != models.CategoryArmor {
			continue
		}
		collection.Vault = append(collection.Vault, gear)
	}

	collection.Summary = summarize(collection, misses)

	if misses > 0 {
		glg.Warnf("Dropped %d items with unresolvable definitions", misses)
	}

	return collection
}

// summarize recomputes the summary counters with a full scan of every produced
// list. The counters always equal a fresh recount, values are never carried
// over from a previous build.
func summarize(collection *models.GearCollection, definitionMisses int) models.GearSummary {

	summary := models.GearSummary{
		DefinitionMisses: definitionMisses,
		LastUpdated:      time.Now().UTC(),
	}

	count := func(items []*models.GearItem) {
		for _, gear := range items {
			summary.TotalItems++
			switch gear.Category {
			case models.CategoryWeapon:
				summary.WeaponCount++
			case models.CategoryArmor:
				summary.ArmorCount++
			}
			if gear.Tier == models.TierExotic {
				summary.ExoticCount++
			}
		}
	}

	for _, block := range collection.Characters {
		count(block.Equipped)
		count(block.Inventory)
	}
	count(collection.Vault)

	return summary
}
