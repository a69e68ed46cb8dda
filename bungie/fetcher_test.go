package bungie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rking788/gearsight/models"
)

const membershipsBody = `{"ErrorCode":1,"ErrorStatus":"Success","Response":{
	"bungieNetUser":{"membershipId":"net-id"},
	"destinyMemberships":[
		{"displayName":"OldGuardian","membershipType":1,"membershipId":"mem-xbox"},
		{"displayName":"NewGuardian","membershipType":2,"membershipId":"mem-psn"}
	]}}`

func charactersBody(membershipID, lastPlayed string) string {
	return fmt.Sprintf(`{"ErrorCode":1,"ErrorStatus":"Success","Response":{
		"characters":{"data":{
			"char-%s":{"membershipId":%q,"characterId":"char-%s",
				"dateLastPlayed":%q,"light":1800}
		}}}}`, membershipID, membershipID, membershipID, lastPlayed)
}

func TestGetCurrentAccountNoMemberships(t *testing.T) {

	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ErrorCode":1,"ErrorStatus":"Success","Response":{"destinyMemberships":[]}}`)
	})
	defer cleanup()

	client := NewClient(nil, "k")
	_, err := GetCurrentAccount(client)
	if !errors.Is(err, ErrNoMemberships) {
		t.Errorf("Expected ErrNoMemberships, got: %v", err)
	}
}

func TestGetCurrentAccountPicksMostRecentlyPlayed(t *testing.T) {

	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/User/GetMembershipsForCurrentUser"):
			fmt.Fprint(w, membershipsBody)
		case strings.Contains(r.URL.Path, "/Profile/mem-xbox/"):
			fmt.Fprint(w, charactersBody("mem-xbox", "2024-01-01T00:00:00Z"))
		case strings.Contains(r.URL.Path, "/Profile/mem-psn/"):
			fmt.Fprint(w, charactersBody("mem-psn", "2026-08-01T00:00:00Z"))
		default:
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
	})
	defer cleanup()

	client := NewClient(nil, "k")
	account, err := GetCurrentAccount(client)
	if err != nil {
		t.Fatalf("GetCurrentAccount failed: %s", err.Error())
	}

	if account.Membership.MembershipID != "mem-psn" {
		t.Errorf("Expected the most recently played membership, got %s",
			account.Membership.MembershipID)
	}
	if account.BungieNetUser == nil || account.BungieNetUser.MembershipID != "net-id" {
		t.Errorf("BungieNet user not carried through: %+v", account.BungieNetUser)
	}
}

func TestFetchProfileIsolatesCharacterFailures(t *testing.T) {

	profileBody := `{"ErrorCode":1,"ErrorStatus":"Success","Response":{
		"profile":{"data":{"userInfo":{"displayName":"TestGuardian",
			"membershipType":2,"membershipId":"mem-psn"}}},
		"characters":{"data":{
			"char-good":{"characterId":"char-good","dateLastPlayed":"2026-08-01T00:00:00Z","light":1810},
			"char-bad":{"characterId":"char-bad","dateLastPlayed":"2026-07-01T00:00:00Z","light":1700}
		}},
		"profileInventory":{"data":{"items":[
			{"itemHash":500,"itemInstanceId":"v1","quantity":1}
		]}},
		"itemComponents":{"instances":{"data":{"v1":{"damageType":3}}}}}}`

	characterBody := `{"ErrorCode":1,"ErrorStatus":"Success","Response":{
		"equipment":{"data":{"items":[{"itemHash":600,"itemInstanceId":"e1","quantity":1}]}},
		"inventory":{"data":{"items":[]}},
		"itemComponents":{"stats":{"data":{"e1":{"stats":{}}}}}}}`

	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/Character/char-bad/"):
			w.WriteHeader(http.StatusNotFound)
		case strings.Contains(r.URL.Path, "/Character/char-good/"):
			fmt.Fprint(w, characterBody)
		default:
			fmt.Fprint(w, profileBody)
		}
	})
	defer cleanup()

	client := NewClient(nil, "k")
	raw, failures := FetchProfile(client, &models.Membership{
		MembershipType: PSN, MembershipID: "mem-psn"})

	if len(failures) != 1 {
		t.Fatalf("Expected exactly 1 failure, got %d: %v", len(failures), failures)
	}
	if failures[0].Scope != "character:char-bad" {
		t.Errorf("Wrong failure scope: %s", failures[0].Scope)
	}

	// The successful character and the vault survive the partial failure.
	if len(raw.Characters) != 2 {
		t.Errorf("Expected both characters in the roster, got %d", len(raw.Characters))
	}
	if raw.Characters[0].CharacterID != "char-good" {
		t.Errorf("Roster not ordered by last played: %s", raw.Characters[0].CharacterID)
	}
	if _, ok := raw.CharacterPayloads["char-bad"]; ok {
		t.Error("A failed character must have no payload")
	}

	payload := raw.CharacterPayloads["char-good"]
	if payload == nil || len(payload.Equipment) != 1 {
		t.Fatalf("Successful character payload missing: %+v", payload)
	}

	if raw.Vault == nil || len(raw.Vault.Items) != 1 {
		t.Fatalf("Vault payload missing: %+v", raw.Vault)
	}
	if raw.Vault.Instances["v1"] == nil || raw.Vault.Instances["v1"].DamageType != 3 {
		t.Errorf("Vault instance table not split out: %+v", raw.Vault.Instances)
	}
	if raw.Membership.DisplayName != "TestGuardian" {
		t.Errorf("Profile membership not preferred: %+v", raw.Membership)
	}
}

func TestFetchProfileVaultFailure(t *testing.T) {

	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer cleanup()

	client := NewClient(nil, "k")
	raw, failures := FetchProfile(client, &models.Membership{
		MembershipType: PSN, MembershipID: "mem-psn"})

	if len(failures) != 1 || failures[0].Scope != "vault" {
		t.Fatalf("Expected a single vault-scope failure, got %v", failures)
	}
	if raw.Vault != nil {
		t.Error("No vault payload should exist after a failed profile fetch")
	}
	if len(raw.CharacterPayloads) != 0 {
		t.Error("No character payloads should exist without a roster")
	}
}

func TestFetchProfileAccountNotFound(t *testing.T) {

	// Bungie reports API-level failures as HTTP 200 with a top-level error
	// code and no Response body.
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ErrorCode":1601,"ErrorStatus":"DestinyAccountNotFound"}`)
	})
	defer cleanup()

	client := NewClient(nil, "k")
	raw, failures := FetchProfile(client, &models.Membership{
		MembershipType: PSN, MembershipID: "mem-psn"})

	if len(failures) != 1 || failures[0].Scope != "vault" {
		t.Fatalf("Expected a single vault-scope failure, got %v", failures)
	}
	if !strings.Contains(failures[0].Err.Error(), "DestinyAccountNotFound") {
		t.Errorf("Failure should carry the Bungie error status: %s", failures[0].Err.Error())
	}
	if raw.Vault != nil {
		t.Error("No vault payload should exist for an error-only response")
	}
	if len(raw.Characters) != 0 || len(raw.CharacterPayloads) != 0 {
		t.Error("No characters should exist for an error-only response")
	}
}

func TestGetManifestVersion(t *testing.T) {

	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ErrorCode":1,"ErrorStatus":"Success","Response":{"version":"101150.25.02"}}`)
	})
	defer cleanup()

	version, err := GetManifestVersion(NewClient(nil, "k"))
	if err != nil {
		t.Fatalf("GetManifestVersion failed: %s", err.Error())
	}
	if version != "101150.25.02" {
		t.Errorf("Wrong version: %q", version)
	}
}
