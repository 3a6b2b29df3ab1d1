// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared across pipeline stages.
package types

// PaperSummary is the structured summary of one academic paper as produced
// by the analysis stage. It is immutable once constructed: the pipeline
// collects summaries, renders them, and discards them at process exit.
type PaperSummary struct {
	// Title is the paper title as reported by the model.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order. May be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// ResearchQuestion states the question the paper addresses.
	ResearchQuestion string `json:"research_question" yaml:"research_question"`

	// TheoreticalFramework names the framework the paper builds on.
	TheoreticalFramework string `json:"theoretical_framework" yaml:"theoretical_framework"`

	// Methodology describes the paper's research methods.
	Methodology string `json:"methodology" yaml:"methodology"`

	// MainArguments lists the paper's central arguments in order.
	MainArguments []string `json:"main_arguments" yaml:"main_arguments"`

	// Findings summarizes the paper's results.
	Findings string `json:"findings" yaml:"findings"`

	// Significance explains why the findings matter.
	Significance string `json:"significance" yaml:"significance"`

	// Limitations records the limitations the paper acknowledges.
	Limitations string `json:"limitations" yaml:"limitations"`

	// FutureResearch captures suggested future research directions.
	FutureResearch string `json:"future_research" yaml:"future_research"`
}
