package bungie

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	raven "github.com/getsentry/raven-go"
	"github.com/kpango/glg"
	"golang.org/x/oauth2"

	"github.com/rking788/gearsight/models"
)

const (
	// maxRequestAttempts bounds the retry loop for retryable failures.
	maxRequestAttempts = 3
	// retryBackoff is the fixed delay between retry attempts.
	retryBackoff = 1 * time.Second
	// requestTimeout is the per-request timeout on the underlying HTTP client.
	requestTimeout = 10 * time.Second
)

// StatusResponse is used as the generic response parameter for the deserialized response
// from the generic Client Execute calls. One of the below structs should be used as the
// concrete type for the request's response to be deserialized into.
type StatusResponse interface {
	ErrCode() int
	ErrStatus() string
}

// BaseResponse represents the data returned as part of all of the Bungie API
// requests.
type BaseResponse struct {
	ErrorCode       int         `json:"ErrorCode"`
	ThrottleSeconds int         `json:"ThrottleSeconds"`
	ErrorStatus     string      `json:"ErrorStatus"`
	Message         string      `json:"Message"`
	MessageData     interface{} `json:"MessageData"`
}

// ErrCode returns the err code field from a Bungie response
func (b *BaseResponse) ErrCode() int { return b.ErrorCode }

// ErrStatus returns the status string provided in the Bungie response
func (b *BaseResponse) ErrStatus() string { return b.ErrorStatus }
func (b *BaseResponse) String() string {
	if b != nil {
		return fmt.Sprintf("%+v", *b)
	}
	return "<nil>"
}

// CurrentUserMembershipsResponse contains information about the membership data for the
// currently authorized user. The request for this information will use the access_token
// to determine the current user.
// https://bungie-net.github.io/multi/operation_get_User-GetMembershipDataForCurrentUser.html#operation_get_User-GetMembershipDataForCurrentUser
type CurrentUserMembershipsResponse struct {
	*BaseResponse
	Response *struct {
		DestinyMemberships []*models.Membership `json:"destinyMemberships"`
		BungieNetUser      *models.BungieNetUser `json:"bungieNetUser"`
	} `json:"Response"`
}

// ItemListData contains the list of Items in the format returned by the Bungie.net API
type ItemListData struct {
	Data *struct {
		Items models.ItemList `json:"items"`
	} `json:"data"`
}

// ItemComponents holds the instance, stat, and socket cross-reference tables
// returned nested under a profile or character response. The tables are keyed
// by item instance id.
type ItemComponents struct {
	Instances *struct {
		Data map[string]*models.ItemInstance `json:"data"`
	} `json:"instances"`
	Stats *struct {
		Data map[string]*models.ItemStats `json:"data"`
	} `json:"stats"`
	Sockets *struct {
		Data map[string]*models.ItemSockets `json:"data"`
	} `json:"sockets"`
}

// GetProfileResponse is the response from the profile-scoped GetProfile request.
// It covers the character roster, the shared vault (profile inventory), and the
// item component tables for vault items.
//https://bungie-net.github.io/multi/operation_get_Destiny2-GetProfile.html#operation_get_Destiny2-GetProfile
type GetProfileResponse struct {
	*BaseResponse
	Response *struct {
		Profile *struct {
			Data *struct {
				UserInfo *models.Membership `json:"userInfo"`
			} `json:"data"`
		} `json:"profile"`
		Characters *struct {
			Data models.CharacterMap `json:"data"`
		} `json:"characters"`
		ProfileInventory *ItemListData   `json:"profileInventory"`
		ItemComponents   *ItemComponents `json:"itemComponents"`
	} `json:"Response"`
}

func (r *GetProfileResponse) membership() *models.Membership {
	if r.Response == nil || r.Response.Profile == nil || r.Response.Profile.Data == nil {
		return nil
	}

	return r.Response.Profile.Data.UserInfo
}

func (r *GetProfileResponse) characters() models.CharacterMap {
	if r.Response == nil || r.Response.Characters == nil {
		return nil
	}

	return r.Response.Characters.Data
}

func (r *GetProfileResponse) vaultItems() models.ItemList {
	if r.Response == nil || r.Response.ProfileInventory == nil ||
		r.Response.ProfileInventory.Data == nil {
		return nil
	}

	return r.Response.ProfileInventory.Data.Items
}

// GetCharacterResponse is the response from the character-scoped GetCharacter
// request. The equipment/inventory lists and their instance/stat/socket tables
// come from the same request so the sub-tables are aligned to this fetch.
//https://bungie-net.github.io/multi/operation_get_Destiny2-GetCharacter.html#operation_get_Destiny2-GetCharacter
type GetCharacterResponse struct {
	*BaseResponse
	Response *struct {
		Equipment      *ItemListData   `json:"equipment"`
		Inventory      *ItemListData   `json:"inventory"`
		ItemComponents *ItemComponents `json:"itemComponents"`
	} `json:"Response"`
}

func (r *GetCharacterResponse) items(list *ItemListData) models.ItemList {
	if list == nil || list.Data == nil {
		return nil
	}

	return list.Data.Items
}

// ManifestVersionResponse carries the currently advertised manifest version string.
type ManifestVersionResponse struct {
	*BaseResponse
	Response *struct {
		Version string `json:"version"`
	} `json:"Response"`
}

// EntityDefinitionResponse is the response for a single-entity definition fetch,
// used as the per-miss fallback when the bulk manifest cannot resolve a hash.
type EntityDefinitionResponse struct {
	*BaseResponse
	Response *struct {
		DisplayProperties *struct {
			Name string `json:"name"`
		} `json:"displayProperties"`
		ItemTypeDisplayName string `json:"itemTypeDisplayName"`
		ItemCategoryHashes  []uint `json:"itemCategoryHashes"`
		DefaultDamageType   int    `json:"defaultDamageType"`
		Inventory           *struct {
			TierType int `json:"tierType"`
		} `json:"inventory"`
	} `json:"Response"`
}

func (r *EntityDefinitionResponse) definition() *models.ItemDefinition {
	if r.Response == nil {
		return nil
	}

	def := &models.ItemDefinition{
		ItemTypeName:      r.Response.ItemTypeDisplayName,
		CategoryHashes:    r.Response.ItemCategoryHashes,
		DefaultDamageType: r.Response.DefaultDamageType,
	}
	if r.Response.DisplayProperties != nil {
		def.Name = r.Response.DisplayProperties.Name
	}
	if r.Response.Inventory != nil {
		def.TierType = r.Response.Inventory.TierType
	}

	return def
}

// Client is a type that contains all information needed to make requests to the
// Bungie API. Tokens come from the provided oauth2.TokenSource, the client never
// performs the authorization flow itself.
type Client struct {
	*http.Client
	tokens oauth2.TokenSource
	apiKey string
}

// NewClient creates a Bungie API client using the provided bearer token supplier
// and API key.
func NewClient(tokens oauth2.TokenSource, apiKey string) *Client {
	return &Client{
		Client: &http.Client{Timeout: requestTimeout},
		tokens: tokens,
		apiKey: apiKey,
	}
}

// addAuthHeaders will handle adding the authentication headers from the
// current token source to the specified Request.
func (c *Client) addAuthHeaders(req *http.Request) error {
	req.Header.Add("X-Api-Key", c.apiKey)

	if c.tokens == nil {
		return nil
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to read a token from the token source: %w", err)
	}

	req.Header.Set("Authorization", token.Type()+" "+token.AccessToken)
	return nil
}

// Execute is a generic request execution method that will send the passed request
// on to the Bungie API using the configured client. The response is then deserialized
// into the response object provided. Retryable failures (HTTP 5xx and Bungie throttle
// responses) are retried a bounded number of times with a fixed backoff; a 401 asks
// the token source for a fresh token and retries exactly once; everything else
// propagates immediately.
func (c *Client) Execute(request *APIRequest, response StatusResponse) error {

	attempts := 0
	refreshed := false

	for {
		req, err := c.buildHTTPRequest(request)
		if err != nil {
			return err
		}

		resp, err := c.Do(req)
		if err != nil {
			raven.CaptureError(err, nil)
			glg.Errorf("Error executing request: %s", err.Error())
			return err
		}

		attempts++

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			if refreshed {
				return fmt.Errorf("request to %s unauthorized after token refresh", request.Endpoint)
			}
			glg.Warn("Received a 401, asking the token source for a fresh token...")
			refreshed = true
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			if attempts >= maxRequestAttempts {
				return fmt.Errorf("request to %s failed with status %d after %d attempts",
					request.Endpoint, resp.StatusCode, attempts)
			}
			glg.Warnf("Retryable status(%d) from %s, backing off...", resp.StatusCode, request.Endpoint)
			time.Sleep(retryBackoff)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("request to %s failed with status %d", request.Endpoint, resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(&response)
		resp.Body.Close()
		if err != nil {
			raven.CaptureError(err, nil)
			glg.Warnf("Error decoding API response: %s", err.Error())
			return err
		}

		if response.ErrCode() == 36 || response.ErrStatus() == "ThrottleLimitExceededMomentarily" {
			if attempts >= maxRequestAttempts {
				return fmt.Errorf("request to %s throttled after %d attempts", request.Endpoint, attempts)
			}
			glg.Warnf("Throttled by the Bungie API, backing off...")
			time.Sleep(retryBackoff)
			continue
		}

		glg.Debugf("Response for request(%s): code=%d status=%s", request.Endpoint,
			response.ErrCode(), response.ErrStatus())
		return nil
	}
}

func (c *Client) buildHTTPRequest(request *APIRequest) (*http.Request, error) {

	var req *http.Request
	var err error

	if len(request.Body) > 0 {
		jsonBody, _ := json.Marshal(request.Body)
		req, err = http.NewRequest(request.HTTPMethod, request.Endpoint, strings.NewReader(string(jsonBody)))
	} else {
		req, err = http.NewRequest(request.HTTPMethod, request.Endpoint, nil)
	}
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")
	if err = c.addAuthHeaders(req); err != nil {
		return nil, err
	}

	if len(request.Components) > 0 {
		vals := url.Values{}
		vals.Add("components", strings.Join(request.Components, ","))
		req.URL.RawQuery = vals.Encode()
	}

	return req, nil
}
