package models

import "time"

// Category classifies a gear item as a weapon, a piece of armor, or neither.
type Category string

// Category values
const (
	CategoryWeapon Category = "Weapon"
	CategoryArmor  Category = "Armor"
	CategoryOther  Category = "Other"
)

// Tier is the rarity classification of an item.
type Tier string

// Tier values
const (
	TierCommon    Tier = "Common"
	TierRare      Tier = "Rare"
	TierLegendary Tier = "Legendary"
	TierExotic    Tier = "Exotic"
	TierUnknown   Tier = "Unknown"
)

// Element is the damage type tied to a weapon.
type Element string

// Element values
const (
	ElementKinetic Element = "Kinetic"
	ElementArc     Element = "Arc"
	ElementSolar   Element = "Solar"
	ElementVoid    Element = "Void"
	ElementStasis  Element = "Stasis"
	ElementStrand  Element = "Strand"
	ElementUnknown Element = "Unknown"
)

// Location describes where an item currently lives.
type Location string

// Location values
const (
	LocationEquipped           Location = "Equipped"
	LocationCharacterInventory Location = "CharacterInventory"
	LocationVault              Location = "Vault"
)

// PerkRef is one resolved socket plug (perk or mod) on a gear item.
type PerkRef struct {
	Name string `json:"name"`
	Hash uint   `json:"hash"`
}

// Masterwork describes the masterwork state of an instanced item, represented
// by its energy capacity facet.
type Masterwork struct {
	Tier int    `json:"tier"`
	Type string `json:"type"`
}

// GearItem is the normalized form of one raw item stack combined with its
// instance, stat, and socket records. Constructed once during normalization
// and never mutated afterwards.
type GearItem struct {
	Name       string         `json:"name"`
	Hash       uint           `json:"hash"`
	InstanceID string         `json:"instanceId,omitempty"`
	Category   Category       `json:"category"`
	Type       string         `json:"type"`
	Tier       Tier           `json:"tier"`
	Element    Element        `json:"element"`
	Power      int            `json:"power,omitempty"`
	Quantity   int            `json:"quantity"`
	Location   Location       `json:"location"`
	Sockets    []*PerkRef     `json:"sockets,omitempty"`
	Stats      map[string]int `json:"stats,omitempty"`
	Masterwork *Masterwork    `json:"masterwork,omitempty"`
}

// CharacterGearBlock groups the normalized gear for one character.
type CharacterGearBlock struct {
	CharacterID string      `json:"characterId"`
	Class       string      `json:"class"`
	Race        string      `json:"race"`
	Gender      string      `json:"gender"`
	Light       int         `json:"light"`
	LastPlayed  time.Time   `json:"lastPlayed"`
	Equipped    []*GearItem `json:"equipped"`
	Inventory   []*GearItem `json:"inventory"`
}

// GearSummary holds the derived counters for a gear collection. The counters
// are recomputed by a full scan on every build, never patched incrementally.
type GearSummary struct {
	TotalItems       int       `json:"totalItems"`
	WeaponCount      int       `json:"weaponCount"`
	ArmorCount       int       `json:"armorCount"`
	ExoticCount      int       `json:"exoticCount"`
	DefinitionMisses int       `json:"definitionMisses"`
	FailedScopes     []string  `json:"failedScopes,omitempty"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// GearCollection is the final consolidated output for one membership: the
// per-character gear blocks in discovery order, the shared vault, and the
// derived summary counters.
type GearCollection struct {
	Membership *Membership           `json:"membership,omitempty"`
	Characters []*CharacterGearBlock `json:"characters"`
	Vault      []*GearItem           `json:"vault"`
	Summary    GearSummary           `json:"summary"`
}
