package models

import (
	"fmt"
	"time"
)

// Hash values for different class types 'classHash' JSON key
const (
	warlock = 2271682572
	titan   = 3655393761
	hunter  = 671679327
)

// Hash values for Race types 'raceHash' JSON key
const (
	awoken = 2803282938
	human  = 3887404748
	exo    = 898834093
)

// Hash values for Gender 'genderHash' JSON key
const (
	male   = 3111576190
	female = 2204441813
)

var classHashToName = map[uint]string{
	warlock: "Warlock",
	titan:   "Titan",
	hunter:  "Hunter",
}

var raceHashToName = map[uint]string{
	awoken: "Awoken",
	human:  "Human",
	exo:    "Exo",
}

var genderHashToName = map[uint]string{
	male:   "Male",
	female: "Female",
}

// Character will represent a single in-game character including platform membership data,
// last played date, light level, and character class and race.
type Character struct {
	//https://bungie-net.github.io/multi/schema_Destiny-Entities-Characters-DestinyCharacterComponent.html#schema_Destiny-Entities-Characters-DestinyCharacterComponent
	MembershipID   string    `json:"membershipId"`
	MembershipType int       `json:"membershipType"`
	CharacterID    string    `json:"characterId"`
	DateLastPlayed time.Time `json:"dateLastPlayed"`
	RaceHash       uint      `json:"raceHash"`
	ClassHash      uint      `json:"classHash"`
	GenderHash     uint      `json:"genderHash"`
	Light          int       `json:"light"`
}

// CharacterList represents a slice of Character pointers.
type CharacterList []*Character

// CharacterMap will be a map that contains Character values with characterID keys.
// Character identifiers are opaque strings assigned by Bungie, never assume order
// or density of the key set.
type CharacterMap map[string]*Character

// ClassName translates the character's class hash into a displayable class name.
func (c *Character) ClassName() string {
	if name, ok := classHashToName[c.ClassHash]; ok {
		return name
	}
	return "Unknown"
}

// RaceName translates the character's race hash into a displayable race name.
func (c *Character) RaceName() string {
	if name, ok := raceHashToName[c.RaceHash]; ok {
		return name
	}
	return "Unknown"
}

// GenderName translates the character's gender hash into a displayable gender name.
func (c *Character) GenderName() string {
	if name, ok := genderHashToName[c.GenderHash]; ok {
		return name
	}
	return "Unknown"
}

func (c *Character) String() string {
	return fmt.Sprintf("Character{ID: %s, Class: %s, Light: %d, LastPlayed: %v}",
		c.CharacterID, c.ClassName(), c.Light, c.DateLastPlayed)
}

// LastPlayedSort specifies a specific type for CharacterList that can be sorted by
// the date the character was last played.
type LastPlayedSort CharacterList

func (characters LastPlayedSort) Len() int { return len(characters) }
func (characters LastPlayedSort) Swap(i, j int) {
	characters[i], characters[j] = characters[j], characters[i]
}
func (characters LastPlayedSort) Less(i, j int) bool {
	return characters[i].DateLastPlayed.Before(characters[j].DateLastPlayed)
}
