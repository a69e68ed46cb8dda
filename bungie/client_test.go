package bungie

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

// countingTokenSource records how many times the client asked for a token.
type countingTokenSource struct {
	calls int
	token string
}

func (s *countingTokenSource) Token() (*oauth2.Token, error) {
	s.calls++
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

func withTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	previous := apiBase
	apiBase = server.URL

	return server, func() {
		apiBase = previous
		server.Close()
	}
}

func TestExecuteAttachesHeaders(t *testing.T) {

	var gotAPIKey, gotAuth, gotComponents string
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-Api-Key")
		gotAuth = r.Header.Get("Authorization")
		gotComponents = r.URL.Query().Get("components")
		fmt.Fprint(w, `{"ErrorCode":1,"ErrorStatus":"Success","Response":{}}`)
	})
	defer cleanup()

	client := NewClient(&countingTokenSource{token: "access-token"}, "test-api-key")

	response := &GetProfileResponse{BaseResponse: &BaseResponse{}}
	err := client.Execute(NewVaultRequest(2, "4611686018433723819"), response)
	if err != nil {
		t.Fatalf("Execute returned an error: %s", err.Error())
	}

	if gotAPIKey != "test-api-key" {
		t.Errorf("Wrong X-Api-Key header: %q", gotAPIKey)
	}
	if gotAuth != "Bearer access-token" {
		t.Errorf("Wrong Authorization header: %q", gotAuth)
	}
	if !strings.Contains(gotComponents, ProfileInventoriesComponent) ||
		!strings.Contains(gotComponents, ItemSocketsComponent) {
		t.Errorf("Components query missing expected entries: %q", gotComponents)
	}
}

func TestExecuteRetriesServerErrors(t *testing.T) {

	requests := 0
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"ErrorCode":1,"ErrorStatus":"Success","Response":{"version":"101150.25.02"}}`)
	})
	defer cleanup()

	client := NewClient(&countingTokenSource{token: "t"}, "k")

	response := &ManifestVersionResponse{BaseResponse: &BaseResponse{}}
	if err := client.Execute(NewManifestVersionRequest(), response); err != nil {
		t.Fatalf("Expected the retry to recover, got: %s", err.Error())
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests, got %d", requests)
	}
	if response.Response.Version != "101150.25.02" {
		t.Errorf("Unexpected version: %q", response.Response.Version)
	}
}

func TestExecuteGivesUpAfterMaxAttempts(t *testing.T) {

	requests := 0
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer cleanup()

	client := NewClient(&countingTokenSource{token: "t"}, "k")

	response := &ManifestVersionResponse{BaseResponse: &BaseResponse{}}
	if err := client.Execute(NewManifestVersionRequest(), response); err == nil {
		t.Fatal("Expected an error after exhausting retries")
	}
	if requests != maxRequestAttempts {
		t.Errorf("Expected %d requests, got %d", maxRequestAttempts, requests)
	}
}

func TestExecuteRefreshesTokenOnUnauthorized(t *testing.T) {

	requests := 0
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"ErrorCode":1,"ErrorStatus":"Success","Response":{}}`)
	})
	defer cleanup()

	tokens := &countingTokenSource{token: "t"}
	client := NewClient(tokens, "k")

	response := &CurrentUserMembershipsResponse{BaseResponse: &BaseResponse{}}
	if err := client.Execute(NewCurrentAccountRequest(), response); err != nil {
		t.Fatalf("Expected the 401 retry to recover, got: %s", err.Error())
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests, got %d", requests)
	}
	if tokens.calls != 2 {
		t.Errorf("Expected the token source consulted per attempt, got %d calls", tokens.calls)
	}
}

func TestExecuteFailsOnRepeatedUnauthorized(t *testing.T) {

	requests := 0
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer cleanup()

	client := NewClient(&countingTokenSource{token: "t"}, "k")

	response := &CurrentUserMembershipsResponse{BaseResponse: &BaseResponse{}}
	if err := client.Execute(NewCurrentAccountRequest(), response); err == nil {
		t.Fatal("Expected an error when the refreshed token is also rejected")
	}
	if requests != 2 {
		t.Errorf("Expected exactly one refresh retry, got %d requests", requests)
	}
}

func TestExecuteRetriesThrottleResponses(t *testing.T) {

	requests := 0
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			fmt.Fprint(w, `{"ErrorCode":36,"ErrorStatus":"ThrottleLimitExceededMomentarily","ThrottleSeconds":1}`)
			return
		}
		fmt.Fprint(w, `{"ErrorCode":1,"ErrorStatus":"Success","Response":{}}`)
	})
	defer cleanup()

	client := NewClient(&countingTokenSource{token: "t"}, "k")

	response := &CurrentUserMembershipsResponse{BaseResponse: &BaseResponse{}}
	if err := client.Execute(NewCurrentAccountRequest(), response); err != nil {
		t.Fatalf("Expected the throttle retry to recover, got: %s", err.Error())
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests, got %d", requests)
	}
}

func TestExecutePropagatesClientErrors(t *testing.T) {

	requests := 0
	_, cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	})
	defer cleanup()

	client := NewClient(&countingTokenSource{token: "t"}, "k")

	response := &GetProfileResponse{BaseResponse: &BaseResponse{}}
	if err := client.Execute(NewVaultRequest(2, "mid"), response); err == nil {
		t.Fatal("Expected a 404 to fail without retrying")
	}
	if requests != 1 {
		t.Errorf("Expected exactly 1 request, got %d", requests)
	}
}
