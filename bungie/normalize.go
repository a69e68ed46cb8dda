package bungie

import (
	"strconv"
	"strings"

	"github.com/kpango/glg"

	"github.com/rking788/gearsight/models"
)

// normalizeItem converts one raw item stack plus its associated instance, stat,
// and socket records into a normalized gear item. The second return value is
// false when the item's definition cannot be resolved anywhere, in which case
// the item is dropped from the collection entirely. Missing instance, stat, or
// socket records for an instanced item are non-fatal and simply leave those
// facets empty.
func normalizeItem(stack *models.Item, profile *ConsolidatedProfile,
	location models.Location, defs *DefinitionCache) (*models.GearItem, bool) {

	def, ok := defs.Resolve(stack.ItemHash)
	if !ok {
		glg.Warnf("No definition resolvable for item hash %d, dropping", stack.ItemHash)
		return nil, false
	}

	gear := &models.GearItem{
		Name:       def.Name,
		Hash:       stack.ItemHash,
		InstanceID: stack.InstanceID,
		Category:   classifyCategory(def),
		Type:       def.ItemTypeName,
		Tier:       tierFromCode(def.TierType),
		Quantity:   stack.Quantity,
		Location:   location,
	}

	instance := profile.instance(stack.InstanceID)
	gear.Element = elementForItem(instance, def)
	gear.Power = instance.Power()

	if instance != nil && instance.Energy != nil {
		gear.Masterwork = &models.Masterwork{
			Tier: instance.Energy.EnergyCapacity,
			Type: masterworkType(instance.Energy.EnergyType),
		}
	}

	gear.Sockets = buildSockets(profile.socketBlock(stack.InstanceID), defs)
	gear.Stats = buildStats(profile.statBlock(stack.InstanceID))

	return gear, true
}

// classifyCategory inspects the definition's category hashes against the known
// weapon and armor hash groups, with the weapon group checked first. Only when
// no known hash matches does it fall back to a case-insensitive keyword match
// against the type display name. Anything matching neither is Other.
func classifyCategory(def *models.ItemDefinition) models.Category {

	for _, hash := range def.CategoryHashes {
		if weaponCategoryHashes[hash] {
			return models.CategoryWeapon
		}
	}
	for _, hash := range def.CategoryHashes {
		if armorCategoryHashes[hash] {
			return models.CategoryArmor
		}
	}

	typeName := strings.ToLower(def.ItemTypeName)
	for _, keyword := range weaponTypeKeywords {
		if strings.Contains(typeName, keyword) {
			return models.CategoryWeapon
		}
	}
	for _, keyword := range armorTypeKeywords {
		if strings.Contains(typeName, keyword) {
			return models.CategoryArmor
		}
	}

	return models.CategoryOther
}

func tierFromCode(code int) models.Tier {
	if tier, ok := tierTypeLookup[code]; ok {
		return tier
	}
	return models.TierUnknown
}

// elementForItem prefers the instance's live damage type when present, then the
// definition's default damage type, then Kinetic. An unrecognized live value is
// surfaced as Unknown so it stays visible as anomalous, while an unrecognized
// default is safely treated as mundane Kinetic.
func elementForItem(instance *models.ItemInstance, def *models.ItemDefinition) models.Element {

	if instance != nil && instance.DamageType != 0 {
		if element, ok := damageTypeLookup[instance.DamageType]; ok {
			return element
		}
		glg.Warnf("Unrecognized live damage type code %d", instance.DamageType)
		return models.ElementUnknown
	}

	if def.DefaultDamageType != 0 {
		if element, ok := damageTypeLookup[def.DefaultDamageType]; ok {
			return element
		}
	}

	return models.ElementKinetic
}

func masterworkType(energyType int) string {
	if name, ok := energyTypeNames[energyType]; ok {
		return name
	}
	return "Any"
}

// buildSockets resolves every socket entry with a non-zero plug reference and
// keeps only plugs whose display name is present. Slot order follows the source
// sockets array exactly, it is meaningful and never re-sorted.
func buildSockets(block *models.ItemSockets, defs *DefinitionCache) []*models.PerkRef {
	if block == nil || len(block.Sockets) == 0 {
		return nil
	}

	perks := make([]*models.PerkRef, 0, len(block.Sockets))
	for _, socket := range block.Sockets {
		if socket == nil || socket.PlugHash == 0 {
			continue
		}

		plug, ok := defs.Resolve(socket.PlugHash)
		if !ok || plug.Name == "" {
			continue
		}

		perks = append(perks, &models.PerkRef{Name: plug.Name, Hash: socket.PlugHash})
	}

	if len(perks) == 0 {
		return nil
	}
	return perks
}

// buildStats translates each stat hash to its canonical name. Unrecognized
// hashes are kept under a synthesized stat_<hash> name, never silently dropped.
func buildStats(block *models.ItemStats) map[string]int {
	if block == nil || len(block.Stats) == 0 {
		return nil
	}

	stats := make(map[string]int, len(block.Stats))
	for hashStr, value := range block.Stats {
		if value == nil {
			continue
		}

		key := hashStr
		if value.StatHash != 0 {
			key = strconv.FormatUint(uint64(value.StatHash), 10)
		}

		name, ok := statHashNames[key]
		if !ok {
			name = "stat_" + key
		}
		stats[name] = value.Value
	}

	return stats
}
