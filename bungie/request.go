package bungie

import (
	"fmt"
)

// APIRequest is a generic request object that can be sent to a bungie.Client and
// the client will automatically handle setting up the request body, url parameters,
// and full url (including endpoint).
type APIRequest struct {
	HTTPMethod string
	Endpoint   string
	Components []string
	Body       map[string]interface{}
}

// NewCurrentAccountRequest is a helper function for creating a request object to get the
// memberships for a specific user.
func NewCurrentAccountRequest() *APIRequest {
	return &APIRequest{
		HTTPMethod: "GET",
		Endpoint:   apiBase + membershipsForCurrentUserPath,
	}
}

// NewCharactersRequest is a helper function for getting just the characters for a
// specific user on the given platform.
func NewCharactersRequest(membershipType int, membershipID string) *APIRequest {
	return &APIRequest{
		HTTPMethod: "GET",
		Endpoint:   apiBase + fmt.Sprintf(getProfileEndpointFormat, membershipType, membershipID),
		Components: []string{CharactersComponent},
	}
}

// NewVaultRequest builds the profile-scoped request covering the character roster,
// the shared vault, and the instance/stat/socket tables for vault items.
func NewVaultRequest(membershipType int, membershipID string) *APIRequest {
	return &APIRequest{
		HTTPMethod: "GET",
		Endpoint:   apiBase + fmt.Sprintf(getProfileEndpointFormat, membershipType, membershipID),
		Components: []string{ProfilesComponent, CharactersComponent,
			ProfileInventoriesComponent, ItemInstancesComponent,
			ItemStatsComponent, ItemSocketsComponent},
	}
}

// NewCharacterRequest builds the character-scoped request for one character's
// equipment and inventory. The instance/stat/socket components are requested in
// the same call so the sub-tables are guaranteed to be aligned to this fetch.
func NewCharacterRequest(membershipType int, membershipID, characterID string) *APIRequest {
	return &APIRequest{
		HTTPMethod: "GET",
		Endpoint: apiBase + fmt.Sprintf(getCharacterEndpointFormat, membershipType,
			membershipID, characterID),
		Components: []string{CharacterInventoriesComponent, CharacterEquipmentComponent,
			ItemInstancesComponent, ItemStatsComponent, ItemSocketsComponent},
	}
}

// NewManifestVersionRequest builds the request for the currently advertised
// manifest version.
func NewManifestVersionRequest() *APIRequest {
	return &APIRequest{
		HTTPMethod: "GET",
		Endpoint:   apiBase + manifestPath,
	}
}

// NewEntityDefinitionRequest builds the single-entity definition fetch used as
// the per-miss fallback when the bulk manifest cannot resolve a hash.
func NewEntityDefinitionRequest(entityType string, hash uint) *APIRequest {
	return &APIRequest{
		HTTPMethod: "GET",
		Endpoint:   apiBase + fmt.Sprintf(entityDefinitionFormat, entityType, hash),
	}
}
