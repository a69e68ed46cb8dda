package main

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// bungieTokenURL is the token endpoint used when refreshing an access token
// from a stored refresh token.
const bungieTokenURL = "https://www.bungie.net/platform/app/oauth/token/"

// tokenSource builds the bearer token supplier for this run. A directly
// configured access token wins; otherwise a refresh-token source is built
// against the Bungie token endpoint. The authorization-code flow itself is
// never performed here, tokens must be obtained out of band.
func tokenSource(config *EnvConfig) (oauth2.TokenSource, error) {

	if config.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: config.AccessToken,
			TokenType:   "Bearer",
		}), nil
	}

	if config.OAuthClientID != "" && config.RefreshToken != "" {
		conf := &oauth2.Config{
			ClientID:     config.OAuthClientID,
			ClientSecret: config.OAuthClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: bungieTokenURL},
		}

		return conf.TokenSource(context.Background(),
			&oauth2.Token{RefreshToken: config.RefreshToken}), nil
	}

	return nil, errors.New("no credentials configured: set BUNGIE_ACCESS_TOKEN or " +
		"BUNGIE_OAUTH_CLIENT_ID and BUNGIE_REFRESH_TOKEN")
}
