package bungie

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kpango/glg"

	"github.com/rking788/gearsight/models"
)

// ErrNoMemberships indicates the authorized account has no Destiny memberships
// linked to it. This is a configuration/input error, not a transient network
// failure, and is fatal for the run.
var ErrNoMemberships = errors.New("no Destiny memberships found for the current account")

// CurrentAccount will hold the current user's Bungie.net membership data
// as well as the Destiny membership data for their most recently played character.
type CurrentAccount struct {
	BungieNetUser *models.BungieNetUser
	Membership    *models.Membership
}

// FetchFailure records one isolated component fetch failure (one character or
// the vault). These are reported to the caller, never swallowed, but do not
// abort the overall run.
type FetchFailure struct {
	Scope string
	Err   error
}

func (f FetchFailure) String() string {
	return fmt.Sprintf("%s: %s", f.Scope, f.Err.Error())
}

// VaultPayload carries the raw vault item list along with the instance, stat,
// and socket tables scoped to the fetch that produced it.
type VaultPayload struct {
	Items     models.ItemList
	Instances map[string]*models.ItemInstance
	Stats     map[string]*models.ItemStats
	Sockets   map[string]*models.ItemSockets
}

// CharacterPayload carries one character's raw equipment and inventory lists
// along with the instance, stat, and socket tables from the same fetch.
type CharacterPayload struct {
	Equipment models.ItemList
	Inventory models.ItemList
	Instances map[string]*models.ItemInstance
	Stats     map[string]*models.ItemStats
	Sockets   map[string]*models.ItemSockets
}

// RawProfile is the collected output of the component fetcher: the character
// roster in discovery order, the vault payload, and one payload per character
// that fetched successfully.
type RawProfile struct {
	Membership        *models.Membership
	Characters        models.CharacterList
	Vault             *VaultPayload
	CharacterPayloads map[string]*CharacterPayload
}

// GetCurrentAccount will request the user info for the current user
// based on the OAuth token provided as part of the request. When the account
// has more than one Destiny membership, the one with the most recently played
// character is selected.
func GetCurrentAccount(client *Client) (*CurrentAccount, error) {

	accountResponse := CurrentUserMembershipsResponse{BaseResponse: &BaseResponse{}}
	err := client.Execute(NewCurrentAccountRequest(), &accountResponse)
	if err != nil {
		return nil, err
	}
	if accountResponse.Response == nil || len(accountResponse.Response.DestinyMemberships) == 0 {
		return nil, ErrNoMemberships
	}

	glg.Debugf("Found %d Destiny memberships", len(accountResponse.Response.DestinyMemberships))

	// If the user only has a single destiny membership, just use that then
	if len(accountResponse.Response.DestinyMemberships) == 1 {
		return &CurrentAccount{
			BungieNetUser: accountResponse.Response.BungieNetUser,
			Membership:    accountResponse.Response.DestinyMemberships[0],
		}, nil
	}

	allChars := make(models.CharacterList, 0, 9)
	membershipLookup := make(map[string]*models.Membership)
	for _, membership := range accountResponse.Response.DestinyMemberships {
		membershipLookup[membership.MembershipID] = membership

		allChars = append(allChars,
			getCharacters(client, NewCharactersRequest(membership.MembershipType, membership.MembershipID))...)
	}

	latestMembership := accountResponse.Response.DestinyMemberships[0]
	sort.Sort(sort.Reverse(models.LastPlayedSort(allChars)))
	if len(allChars) > 0 {
		latestMembership = membershipLookup[allChars[0].MembershipID]
	}

	return &CurrentAccount{
		BungieNetUser: accountResponse.Response.BungieNetUser,
		Membership:    latestMembership,
	}, nil
}

func getCharacters(client *Client, request *APIRequest) models.CharacterList {

	profile := &GetProfileResponse{BaseResponse: &BaseResponse{}}
	err := client.Execute(request, profile)

	chars := make(models.CharacterList, 0, 3)
	if err != nil || profile.characters() == nil {
		return chars
	}

	for _, char := range profile.characters() {
		chars = append(chars, char)
	}

	return chars
}

// FetchProfile retrieves all of the raw component payloads for the provided
// membership: one profile-scoped request for the character roster and vault,
// then one request per character for equipment/inventory. Per-character fetch
// failures are isolated and recorded, allowing a partial collection across the
// characters that did succeed.
func FetchProfile(client *Client, membership *models.Membership) (*RawProfile, []FetchFailure) {

	failures := make([]FetchFailure, 0, 4)

	profileResponse := GetProfileResponse{BaseResponse: &BaseResponse{}}
	err := client.Execute(NewVaultRequest(membership.MembershipType, membership.MembershipID),
		&profileResponse)
	if err == nil && profileResponse.Response == nil {
		// Bungie reports API-level failures as HTTP 200 with a top-level error
		// code and no Response body (DestinyAccountNotFound and friends).
		err = fmt.Errorf("empty profile response: %s", profileResponse.ErrStatus())
	}
	if err != nil {
		glg.Errorf("Failed to read the profile response from Bungie: %s", err.Error())
		failures = append(failures, FetchFailure{Scope: "vault", Err: err})
	}

	raw := &RawProfile{
		Membership:        membership,
		CharacterPayloads: make(map[string]*CharacterPayload),
	}
	if m := profileResponse.membership(); m != nil {
		raw.Membership = m
	}

	// Transform the character map into an ordered list based on played time. The
	// map keys are opaque identifiers, the response carries no inherent order.
	if chars := profileResponse.characters(); chars != nil {
		raw.Characters = make(models.CharacterList, 0, len(chars))
		for _, char := range chars {
			raw.Characters = append(raw.Characters, char)
		}
		sort.Sort(sort.Reverse(models.LastPlayedSort(raw.Characters)))
	}

	if err == nil {
		raw.Vault = &VaultPayload{Items: profileResponse.vaultItems()}
		if components := profileResponse.Response.ItemComponents; components != nil {
			raw.Vault.Instances, raw.Vault.Stats, raw.Vault.Sockets = splitComponents(components)
		}
	}

	for _, char := range raw.Characters {
		payload, err := fetchCharacter(client, membership, char.CharacterID)
		if err != nil {
			glg.Errorf("Failed to fetch character(%s) components: %s", char.CharacterID, err.Error())
			failures = append(failures, FetchFailure{
				Scope: fmt.Sprintf("character:%s", char.CharacterID),
				Err:   err,
			})
			continue
		}

		raw.CharacterPayloads[char.CharacterID] = payload
	}

	return raw, failures
}

func fetchCharacter(client *Client, membership *models.Membership, characterID string) (*CharacterPayload, error) {

	characterResponse := GetCharacterResponse{BaseResponse: &BaseResponse{}}
	err := client.Execute(NewCharacterRequest(membership.MembershipType,
		membership.MembershipID, characterID), &characterResponse)
	if err != nil {
		return nil, err
	}
	if characterResponse.Response == nil {
		return nil, errors.New("empty character response")
	}

	payload := &CharacterPayload{
		Equipment: characterResponse.items(characterResponse.Response.Equipment),
		Inventory: characterResponse.items(characterResponse.Response.Inventory),
	}
	if components := characterResponse.Response.ItemComponents; components != nil {
		payload.Instances, payload.Stats, payload.Sockets = splitComponents(components)
	}

	return payload, nil
}

func splitComponents(components *ItemComponents) (map[string]*models.ItemInstance,
	map[string]*models.ItemStats, map[string]*models.ItemSockets) {

	var instances map[string]*models.ItemInstance
	var stats map[string]*models.ItemStats
	var sockets map[string]*models.ItemSockets

	if components.Instances != nil {
		instances = components.Instances.Data
	}
	if components.Stats != nil {
		stats = components.Stats.Data
	}
	if components.Sockets != nil {
		sockets = components.Sockets.Data
	}

	return instances, stats, sockets
}

// GetManifestVersion reads the currently advertised manifest version string.
// The bulk definition table must match this version to be served.
func GetManifestVersion(client *Client) (string, error) {

	versionResponse := ManifestVersionResponse{BaseResponse: &BaseResponse{}}
	err := client.Execute(NewManifestVersionRequest(), &versionResponse)
	if err != nil {
		return "", err
	}
	if versionResponse.Response == nil {
		return "", errors.New("manifest response missing version")
	}

	return versionResponse.Response.Version, nil
}
