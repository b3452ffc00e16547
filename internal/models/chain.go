package models

import (
	"fmt"
	"strings"
)

// CausalChain is a static library entry describing a known multi-step
// mechanism from a root cause through intermediate signals to an outcome.
type CausalChain struct {
	ChainID       string        `json:"chainId"`
	Title         string        `json:"title"`
	Nodes         []WarningType `json:"nodes"` // ordered, root cause first
	RootCause     WarningType   `json:"rootCause"`
	Outcome       string        `json:"outcome"`
	Confidence    float64       `json:"confidence"` // base, 0..1
	Mechanism     string        `json:"mechanism"`
	ActionableFix []string      `json:"actionableFix"`
	EvidenceLevel string        `json:"evidenceLevel"` // "strong", "moderate", "emerging"
}

// DetectedChain is a library chain matched against the active warning set.
type DetectedChain struct {
	Chain CausalChain `json:"chain"`

	MatchedNodes       []WarningType `json:"matchedNodes"`
	MatchRatio         float64       `json:"matchRatio"`
	AdjustedConfidence float64       `json:"adjustedConfidence"`

	// Warnings are the concrete instances that satisfied the chain nodes.
	Warnings []Warning `json:"warnings"`
}

// ChainUIView is the presentation projection of a detected chain.
type ChainUIView struct {
	Title         string   `json:"title"`
	Path          string   `json:"path"` // arrow-joined node names
	ConfidencePct int      `json:"confidencePct"`
	Mechanism     string   `json:"mechanism"`
	Actions       []string `json:"actions"`
	EvidenceLevel string   `json:"evidenceLevel"`
}

// FormatForUI projects the detected chain into its presentation shape.
func (d *DetectedChain) FormatForUI() ChainUIView {
	names := make([]string, len(d.Chain.Nodes))
	for i, n := range d.Chain.Nodes {
		names[i] = string(n)
	}

	return ChainUIView{
		Title:         d.Chain.Title,
		Path:          fmt.Sprintf("%s → %s", strings.Join(names, " → "), d.Chain.Outcome),
		ConfidencePct: int(d.AdjustedConfidence*100 + 0.5),
		Mechanism:     d.Chain.Mechanism,
		Actions:       d.Chain.ActionableFix,
		EvidenceLevel: d.Chain.EvidenceLevel,
	}
}
