package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	raven "github.com/getsentry/raven-go"
	"github.com/kpango/glg"

	"github.com/rking788/gearsight/analysis"
	"github.com/rking788/gearsight/bungie"
	"github.com/rking788/gearsight/report"
	"github.com/rking788/gearsight/storage"
)

// Version and BuildDate are set at build time through ldflags.
var (
	Version   = "dev"
	BuildDate = ""
)

var (
	configPath     = flag.String("config", "", "path to an env file with the run configuration")
	includeDetails = flag.Bool("details", false, "include perk details for equipped gear in the text report")
	analyzeType    = flag.String("analyze", "", "submit the report for LLM analysis (general, pvp, pve, build)")
	outputPath     = flag.String("out", "", "base path for the persisted report, overrides OUTPUT_PATH")
)

// config is the environment configuration for this run
var config *EnvConfig

func main() {

	flag.Parse()

	config = loadConfig(configPath)

	ConfigureLogging(config.LogLevel, config.LogFilePath)
	defer CloseLogger()

	if config.SentryDSN != "" {
		raven.SetDSN(config.SentryDSN)
	}

	glg.Printf("Version=%s, BuildDate=%v", Version, BuildDate)

	// Configuration problems should fail fast here, before any network calls
	// are wasted.
	if config.BungieAPIKey == "" {
		glg.Error("No Bungie API key configured, set BUNGIE_API_KEY")
		os.Exit(1)
	}
	tokens, err := tokenSource(config)
	if err != nil {
		glg.Error(err.Error())
		os.Exit(1)
	}
	if *analyzeType != "" && config.OpenAIAPIKey == "" {
		glg.Error("Analysis requested but OPENAI_API_KEY is not set")
		os.Exit(1)
	}

	client := bungie.NewClient(tokens, config.BungieAPIKey)

	account, err := bungie.GetCurrentAccount(client)
	if errors.Is(err, bungie.ErrNoMemberships) {
		glg.Error("The linked account has no Destiny memberships, nothing to report on")
		os.Exit(1)
	} else if err != nil {
		glg.Errorf("Failed to load the current account: %s", err.Error())
		os.Exit(1)
	}

	glg.Infof("Reporting on %s (membership %s)", account.Membership.DisplayName,
		account.Membership.MembershipID)

	defs := setupDefinitions(client)

	raw, failures := bungie.FetchProfile(client, account.Membership)
	for _, failure := range failures {
		glg.Warnf("Degraded scope %s", failure)
	}

	consolidated := bungie.Consolidate(raw.Vault, raw.CharacterPayloads)
	collection := bungie.BuildGearCollection(raw.Characters, consolidated, defs)
	collection.Membership = raw.Membership
	for _, failure := range failures {
		collection.Summary.FailedScopes = append(collection.Summary.FailedScopes, failure.Scope)
	}

	text := report.Render(collection, *includeDetails)

	out := config.OutputPath
	if *outputPath != "" {
		out = *outputPath
	}
	if err := report.Save(out, collection, text); err != nil {
		glg.Errorf("Failed to save the gear report: %s", err.Error())
		os.Exit(1)
	}

	fmt.Print(text)

	if *analyzeType != "" {
		runAnalysis(text)
	}
}

// setupDefinitions wires the definition cache for this run: the optional redis
// store for cross-run misses and the optional bulk manifest snapshot, version
// checked before being served.
func setupDefinitions(client *bungie.Client) *bungie.DefinitionCache {

	var store bungie.DefinitionStore
	if config.RedisURL != "" {
		store = storage.NewCache(config.RedisURL)
	}

	defs := bungie.NewDefinitionCache(client, store)

	if config.ManifestDSN == "" {
		glg.Info("No bulk manifest configured, definitions resolve per item")
		return defs
	}

	manifestDB, err := storage.OpenManifest(config.ManifestDriver, config.ManifestDSN)
	if err != nil {
		glg.Warnf("Failed to open the bulk manifest, falling back to per-item lookups: %s", err.Error())
		return defs
	}

	version, err := bungie.GetManifestVersion(client)
	if err != nil {
		glg.Warnf("Could not read the advertised manifest version: %s", err.Error())
	}

	if err := defs.LoadBulk(manifestDB, version); err != nil {
		glg.Warnf("Bulk manifest unusable, falling back to per-item lookups: %s", err.Error())
	}
	manifestDB.Close()

	return defs
}

func runAnalysis(text string) {

	gateway := analysis.NewOpenAIGateway(config.OpenAIAPIKey, config.OpenAIModel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := gateway.Analyze(ctx, analysis.Request{
		AnalysisType: *analyzeType,
		Body:         text,
	})
	if err != nil {
		raven.CaptureError(err, nil)
		glg.Errorf("Analysis request failed: %s", err.Error())
		os.Exit(1)
	}

	fmt.Printf("\n===== %s ANALYSIS =====\n\n%s\n", *analyzeType, result)
}
