// Package report turns a gear collection into its persisted forms: a
// deterministic plain-text rendering and a JSON document, written atomically.
package report

import (
	"fmt"
	"strings"

	"github.com/rking788/gearsight/models"
)

// canonicalArmorStats is the fixed render order for armor stat summaries.
// Stats absent from an item's stat map are omitted, never zero-filled.
var canonicalArmorStats = []string{
	"Mobility", "Resilience", "Recovery", "Discipline", "Intellect", "Strength",
}

// defaultPlugNames are cosmetic/placeholder plugs that are not interesting as
// perks and are skipped when rendering perk details.
var defaultPlugNames = map[string]bool{
	"Default Shader":        true,
	"Default Ornament":      true,
	"Empty Mod Socket":      true,
	"Empty Catalyst Socket": true,
	"Empty Memento Socket":  true,
	"Tracker Disabled":      true,
}

// Render serializes the gear collection into a layout-stable plain-text
// report. The output is a pure function of the collection, rendering the same
// collection twice produces identical text.
func Render(collection *models.GearCollection, includeDetails bool) string {

	var b strings.Builder

	summary := collection.Summary
	b.WriteString("==================================================\n")
	b.WriteString(" DESTINY GEAR REPORT\n")
	fmt.Fprintf(&b, " Generated: %s\n", summary.LastUpdated.Format("2006-01-02 15:04:05 MST"))
	if collection.Membership != nil {
		fmt.Fprintf(&b, " Guardian: %s\n", collection.Membership.DisplayName)
	}
	fmt.Fprintf(&b, " Total Items: %d | Weapons: %d | Armor: %d | Exotics: %d\n",
		summary.TotalItems, summary.WeaponCount, summary.ArmorCount, summary.ExoticCount)
	if summary.DefinitionMisses > 0 {
		fmt.Fprintf(&b, " Unresolved items dropped: %d\n", summary.DefinitionMisses)
	}
	if len(summary.FailedScopes) > 0 {
		fmt.Fprintf(&b, " Degraded scopes: %s\n", strings.Join(summary.FailedScopes, ", "))
	}
	b.WriteString("==================================================\n")

	for _, block := range collection.Characters {
		renderCharacter(&b, block, includeDetails)
	}

	renderVault(&b, collection.Vault)

	return b.String()
}

func renderCharacter(b *strings.Builder, block *models.CharacterGearBlock, includeDetails bool) {

	fmt.Fprintf(b, "\n=== %s (%d Light) ===\n", strings.ToUpper(block.Class), block.Light)

	b.WriteString("\nEQUIPPED GEAR:\n")
	if len(block.Equipped) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, gear := range block.Equipped {
		b.WriteString(itemLine(gear, false))
		if includeDetails {
			if perks := perkNames(gear); perks != "" {
				fmt.Fprintf(b, "      Perks: %s\n", perks)
			}
		}
	}

	b.WriteString("\nCHARACTER INVENTORY:\n")
	weapons, armor := splitByCategory(block.Inventory)
	renderCategoryLists(b, weapons, armor, false)
}

func renderVault(b *strings.Builder, vault []*models.GearItem) {

	fmt.Fprintf(b, "\n=== VAULT (%d items) ===\n", len(vault))
	weapons, armor := splitByCategory(vault)
	renderCategoryLists(b, weapons, armor, true)
}

func renderCategoryLists(b *strings.Builder, weapons, armor []*models.GearItem, armorStats bool) {

	b.WriteString("  Weapons:\n")
	if len(weapons) == 0 {
		b.WriteString("    (none)\n")
	}
	for _, gear := range weapons {
		b.WriteString("  ")
		b.WriteString(itemLine(gear, false))
	}

	b.WriteString("  Armor:\n")
	if len(armor) == 0 {
		b.WriteString("    (none)\n")
	}
	for _, gear := range armor {
		b.WriteString("  ")
		b.WriteString(itemLine(gear, armorStats))
	}
}

func splitByCategory(items []*models.GearItem) (weapons, armor []*models.GearItem) {
	for _, gear := range items {
		switch gear.Category {
		case models.CategoryWeapon:
			weapons = append(weapons, gear)
		case models.CategoryArmor:
			armor = append(armor, gear)
		}
	}
	return weapons, armor
}

func itemLine(gear *models.GearItem, withStats bool) string {

	var b strings.Builder

	name := gear.Name
	if name == "" {
		// Fallback label when only the raw hash is known for this item.
		name = fmt.Sprintf("#%d", gear.Hash)
	}

	fmt.Fprintf(&b, "  - %s [%s", name, gear.Tier)
	if gear.Category == models.CategoryWeapon {
		fmt.Fprintf(&b, " %s", gear.Element)
	}
	if gear.Type != "" {
		fmt.Fprintf(&b, " %s", gear.Type)
	}
	b.WriteString("]")

	if gear.Power > 0 {
		fmt.Fprintf(&b, " (Power %d)", gear.Power)
	}
	if gear.Quantity > 1 {
		fmt.Fprintf(&b, " x%d", gear.Quantity)
	}

	if withStats && len(gear.Stats) > 0 {
		parts := make([]string, 0, len(canonicalArmorStats))
		for _, stat := range canonicalArmorStats {
			if value, ok := gear.Stats[stat]; ok {
				parts = append(parts, fmt.Sprintf("%s:%d", stat, value))
			}
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(parts, " "))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func perkNames(gear *models.GearItem) string {

	names := make([]string, 0, len(gear.Sockets))
	for _, perk := range gear.Sockets {
		if defaultPlugNames[perk.Name] {
			continue
		}
		names = append(names, perk.Name)
	}

	return strings.Join(names, ", ")
}
