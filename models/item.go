package models

import "fmt"

// Item represents a single raw item stack as returned by the GetProfile endpoint.
// Non-instanced items (stackables, currencies) have an empty InstanceID and no
// associated instance/stat/socket records.
type Item struct {
	// DestinyItemComponent https://bungie-net.github.io/multi/schema_Destiny-Entities-Items-DestinyItemComponent.html#schema_Destiny-Entities-Items-DestinyItemComponent
	ItemHash   uint   `json:"itemHash"`
	InstanceID string `json:"itemInstanceId"`
	BucketHash uint   `json:"bucketHash"`
	Quantity   int    `json:"quantity"`
	State      int    `json:"state"`
}

// ItemList is a collection of raw item stacks.
type ItemList []*Item

func (i *Item) String() string {
	if i.InstanceID != "" {
		return fmt.Sprintf("Item{itemHash: %d, itemID: %s, quantity: %d}",
			i.ItemHash, i.InstanceID, i.Quantity)
	}

	return fmt.Sprintf("Item{itemHash: %d, quantity: %d}", i.ItemHash, i.Quantity)
}

// ItemInstance will hold information about a specific instance of an instanced item,
// including its live damage type, primary stat (power), and masterwork energy.
type ItemInstance struct {
	//https://bungie-net.github.io/multi/schema_Destiny-Entities-Items-DestinyItemInstanceComponent.html#schema_Destiny-Entities-Items-DestinyItemInstanceComponent
	IsEquipped  bool `json:"isEquipped"`
	CanEquip    bool `json:"canEquip"`
	DamageType  int  `json:"damageType"`
	ItemLevel   int  `json:"itemLevel"`
	PrimaryStat *struct {
		//https://bungie-net.github.io/multi/schema_Destiny-DestinyStat.html#schema_Destiny-DestinyStat
		StatHash uint `json:"statHash"`
		Value    int  `json:"value"`
	} `json:"primaryStat"`
	Energy *struct {
		EnergyType     int `json:"energyType"`
		EnergyCapacity int `json:"energyCapacity"`
	} `json:"energy"`
}

// Power is a convenience accessor to return the power level for a specific
// item instance or zero if it does not apply.
func (i *ItemInstance) Power() int {
	if i == nil || i.PrimaryStat == nil {
		return 0
	}

	return i.PrimaryStat.Value
}

// ItemStatValue is one entry of an instanced item's stat block.
type ItemStatValue struct {
	StatHash uint `json:"statHash"`
	Value    int  `json:"value"`
}

// ItemStats holds the full stat block for one item instance, keyed by the
// stat hash in its canonical string form.
type ItemStats struct {
	Stats map[string]*ItemStatValue `json:"stats"`
}

// Socket is a single socket entry on an instanced item along with the plug
// (perk or mod) currently inserted into it.
type Socket struct {
	PlugHash  uint `json:"plugHash"`
	IsEnabled bool `json:"isEnabled"`
	IsVisible bool `json:"isVisible"`
}

// ItemSockets holds the ordered socket list for one item instance. Slot order
// is meaningful and is preserved exactly as returned by the API.
type ItemSockets struct {
	Sockets []*Socket `json:"sockets"`
}

// ItemDefinition is the static display metadata for an item hash, sourced from
// the manifest or a per-entity definition fetch.
type ItemDefinition struct {
	Name              string `json:"name"`
	ItemTypeName      string `json:"itemTypeDisplayName"`
	TierType          int    `json:"tierType"`
	CategoryHashes    []uint `json:"itemCategoryHashes"`
	DefaultDamageType int    `json:"defaultDamageType"`
}
