package bungie

import "github.com/rking788/gearsight/models"

// apiBase is the scheme+host prefix for all Bungie API endpoints. It is a
// package variable so package tests can point requests at a local server.
var apiBase = "https://www.bungie.net"

// API resource paths appended to apiBase when building requests
const (
	membershipsForCurrentUserPath = "/Platform/User/GetMembershipsForCurrentUser/"
	getProfileEndpointFormat      = "/Platform/Destiny2/%d/Profile/%s/"
	getCharacterEndpointFormat    = "/Platform/Destiny2/%d/Profile/%s/Character/%s/"
	manifestPath                  = "/Platform/Destiny2/Manifest/"
	entityDefinitionFormat        = "/Platform/Destiny2/Manifest/%s/%d/"
)

// InventoryItemEntityType is the manifest entity type for item definitions.
const InventoryItemEntityType = "DestinyInventoryItemDefinition"

// Component constant values that are needed for certain Bungie API requests that specify
// which collections of values should be returned in the response.
const (
	ProfilesComponent             = "100"
	ProfileInventoriesComponent   = "102"
	CharactersComponent           = "200"
	CharacterInventoriesComponent = "201"
	CharacterEquipmentComponent   = "205"
	ItemInstancesComponent        = "300"
	ItemPerksComponent            = "302"
	ItemStatsComponent            = "304"
	ItemSocketsComponent          = "305"
)

// Destiny.TierType codes as they appear in item definitions
const (
	CommonTier    = 2
	RareTier      = 3
	LegendaryTier = 4
	ExoticTier    = 5
)

var tierTypeLookup = map[int]models.Tier{
	CommonTier:    models.TierCommon,
	RareTier:      models.TierRare,
	LegendaryTier: models.TierLegendary,
	ExoticTier:    models.TierExotic,
}

// Destiny.DamageType enum values carried on item instances and definitions
const (
	KineticDamage = 1
	ArcDamage     = 2
	SolarDamage   = 3
	VoidDamage    = 4
	StasisDamage  = 6
	StrandDamage  = 7
)

var damageTypeLookup = map[int]models.Element{
	KineticDamage: models.ElementKinetic,
	ArcDamage:     models.ElementArc,
	SolarDamage:   models.ElementSolar,
	VoidDamage:    models.ElementVoid,
	StasisDamage:  models.ElementStasis,
	StrandDamage:  models.ElementStrand,
}

// Destiny.EnergyType values used for masterwork energy
var energyTypeNames = map[int]string{
	1: "Arc",
	2: "Solar",
	3: "Void",
	6: "Stasis",
}

// Item category hashes ('itemCategoryHashes' in the definitions) that identify
// weapons and armor without needing to inspect display names.
var weaponCategoryHashes = map[uint]bool{
	1: true, // Weapon
	2: true, // Kinetic Weapon
	3: true, // Energy Weapon
	4: true, // Power Weapon
}

var armorCategoryHashes = map[uint]bool{
	20: true, // Armor
	45: true, // Helmets
	46: true, // Arms
	47: true, // Chest
	48: true, // Legs
	49: true, // Class Items
}

// Keyword fallbacks for category classification when an item definition does
// not carry any of the known category hashes.
var weaponTypeKeywords = []string{
	"rifle", "cannon", "sword", "bow", "launcher", "shotgun",
	"sidearm", "pistol", "machine", "trace", "fusion",
}

var armorTypeKeywords = []string{
	"helmet", "gauntlets", "chest", "legs", "cloak", "bond", "mark", "armor",
}

// statHashNames maps the stat hashes used in stat blocks to their canonical
// display names. Unrecognized hashes are kept under a synthesized stat_<hash>
// name rather than dropped.
var statHashNames = map[string]string{
	"2996146975": "Mobility",
	"392767087":  "Resilience",
	"1943323491": "Recovery",
	"1735777505": "Discipline",
	"144602215":  "Intellect",
	"4244567218": "Strength",
	"4043523819": "Impact",
	"1240592695": "Range",
	"155624089":  "Stability",
	"943549884":  "Handling",
	"4188031367": "Reload Speed",
	"4284893193": "Rounds Per Minute",
	"3871231066": "Magazine",
	"1345609583": "Aim Assistance",
	"3555269338": "Zoom",
	"2715839340": "Recoil Direction",
	"3614673599": "Blast Radius",
	"2523465841": "Velocity",
	"2961396640": "Charge Time",
	"447667954":  "Draw Time",
	"1591432999": "Accuracy",
}

// BungieMembershipType constant values
const (
	XBOX  = 1
	PSN   = 2
	STEAM = 3
	EPIC  = 6
)
