package report

import (
	"strings"
	"testing"
	"time"

	"github.com/rking788/gearsight/models"
)

func testCollection() *models.GearCollection {
	return &models.GearCollection{
		Membership: &models.Membership{DisplayName: "TestGuardian"},
		Characters: []*models.CharacterGearBlock{
			{
				CharacterID: "char-a",
				Class:       "Titan",
				Light:       1810,
				Equipped: []*models.GearItem{
					{Name: "Fatebringer", Category: models.CategoryWeapon,
						Type: "Hand Cannon", Tier: models.TierLegendary,
						Element: models.ElementKinetic, Power: 1800, Quantity: 1,
						Location: models.LocationEquipped,
						Sockets: []*models.PerkRef{
							{Name: "Explosive Payload", Hash: 7001},
							{Name: "Default Shader", Hash: 7002},
						}},
				},
				Inventory: []*models.GearItem{
					{Name: "Wildwood Helm", Category: models.CategoryArmor,
						Type: "Helmet", Tier: models.TierLegendary, Quantity: 1,
						Location: models.LocationCharacterInventory},
				},
			},
		},
		Vault: []*models.GearItem{
			{Name: "Helm of Saint-14", Category: models.CategoryArmor,
				Type: "Helmet", Tier: models.TierExotic, Quantity: 1,
				Location: models.LocationVault,
				Stats: map[string]int{
					"Strength": 12, "Mobility": 8, "Recovery": 20, "stat_8675309": 4,
				}},
		},
		Summary: models.GearSummary{
			TotalItems:  3,
			WeaponCount: 1,
			ArmorCount:  2,
			ExoticCount: 1,
			LastUpdated: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestRenderLayout(t *testing.T) {

	text := Render(testCollection(), false)

	for _, marker := range []string{
		"DESTINY GEAR REPORT",
		"Guardian: TestGuardian",
		"Total Items: 3 | Weapons: 1 | Armor: 2 | Exotics: 1",
		"=== TITAN (1810 Light) ===",
		"EQUIPPED GEAR:",
		"CHARACTER INVENTORY:",
		"=== VAULT (1 items) ===",
		"- Fatebringer [Legendary Kinetic Hand Cannon] (Power 1800)",
		"- Wildwood Helm [Legendary Helmet]",
	} {
		if !strings.Contains(text, marker) {
			t.Errorf("Rendered report missing %q:\n%s", marker, text)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {

	collection := testCollection()
	first := Render(collection, true)
	second := Render(collection, true)

	if first != second {
		t.Error("Rendering the same collection twice produced different text")
	}
}

func TestRenderArmorStatsInCanonicalOrder(t *testing.T) {

	text := Render(testCollection(), false)

	// Absent stats are omitted, present ones follow the fixed order, and the
	// synthesized stat name never surfaces in the report.
	if !strings.Contains(text, "[Mobility:8 Recovery:20 Strength:12]") {
		t.Errorf("Vault armor stats not rendered in canonical order:\n%s", text)
	}
	if strings.Contains(text, "stat_8675309") {
		t.Error("Unrecognized stat leaked into the rendered report")
	}
}

func TestRenderPerkDetails(t *testing.T) {

	withDetails := Render(testCollection(), true)
	if !strings.Contains(withDetails, "Perks: Explosive Payload") {
		t.Errorf("Expected perk details in the detailed report:\n%s", withDetails)
	}
	if strings.Contains(withDetails, "Default Shader") {
		t.Error("Placeholder plugs must be skipped in perk details")
	}

	withoutDetails := Render(testCollection(), false)
	if strings.Contains(withoutDetails, "Perks:") {
		t.Error("Perk details rendered without the details flag")
	}
}

func TestRenderDegradedHeaderLines(t *testing.T) {

	collection := testCollection()
	collection.Summary.DefinitionMisses = 2
	collection.Summary.FailedScopes = []string{"character char-b"}

	text := Render(collection, false)
	if !strings.Contains(text, "Unresolved items dropped: 2") {
		t.Errorf("Missing the dropped-items line:\n%s", text)
	}
	if !strings.Contains(text, "Degraded scopes: character char-b") {
		t.Errorf("Missing the degraded-scopes line:\n%s", text)
	}
}

func TestRenderEmptyCollection(t *testing.T) {

	collection := &models.GearCollection{
		Characters: []*models.CharacterGearBlock{{Class: "Hunter", Light: 100}},
	}

	text := Render(collection, false)
	if strings.Count(text, "(none)") != 5 {
		t.Errorf("Expected placeholder markers for every empty list:\n%s", text)
	}
}

func TestItemLineHashFallback(t *testing.T) {

	line := itemLine(&models.GearItem{Hash: 12345, Tier: models.TierUnknown,
		Category: models.CategoryOther, Quantity: 3}, false)

	if !strings.Contains(line, "#12345") {
		t.Errorf("Expected the raw hash fallback name: %q", line)
	}
	if !strings.Contains(line, "x3") {
		t.Errorf("Expected the stack quantity suffix: %q", line)
	}
}
