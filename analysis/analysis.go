// Package analysis forwards a rendered gear report to a large-language-model
// provider for free-form analysis. The gear pipeline is done by the time this
// package runs; an analysis failure never invalidates the persisted report.
package analysis

import (
	"context"
	"strings"
)

// Request carries the rendered gear report body plus the analysis type tag
// selecting which prompt template frames it.
type Request struct {
	AnalysisType string
	Body         string
}

// Gateway accepts a complete, self-contained gear report and returns the
// provider's free-form text response.
type Gateway interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

const basePrompt = "You are an experienced Destiny 2 sherpa reviewing a player's " +
	"full gear collection. The report below lists every character's equipped gear " +
	"and inventory plus the shared vault, with tiers, elements, power levels, " +
	"perks, and armor stats. Base your analysis only on the report contents."

var analysisPrompts = map[string]string{
	"general": basePrompt + " Give an overall assessment of the collection: " +
		"standout weapons and armor, obvious gaps, and what to chase next.",
	"pvp": basePrompt + " Focus on Crucible play: recommend primary/special " +
		"pairings from the collection, call out meta-relevant rolls, and suggest " +
		"armor stat priorities for PvP.",
	"pve": basePrompt + " Focus on PvE endgame content: recommend loadouts for " +
		"raids and grandmaster-level activities, highlight champion-capable " +
		"options, and flag underpowered slots.",
	"build": basePrompt + " Propose one complete build per character around the " +
		"strongest exotic available to them, naming each weapon and armor piece " +
		"from the report and the stats that support it.",
}

// SystemContext returns the system prompt for the given analysis type,
// falling back to the general template for unrecognized types.
func SystemContext(analysisType string) string {
	if prompt, ok := analysisPrompts[strings.ToLower(analysisType)]; ok {
		return prompt
	}
	return analysisPrompts["general"]
}

// Types lists the supported analysis type tags.
func Types() []string {
	return []string{"general", "pvp", "pve", "build"}
}
