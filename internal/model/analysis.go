package model

import "time"

// AnalysisStage tracks where an analysis request is in the pipeline.
type AnalysisStage string

const (
	StagePending      AnalysisStage = "pending"
	StageExtracting   AnalysisStage = "extracting"
	StageExtracted    AnalysisStage = "extracted"
	StagePrompting    AnalysisStage = "prompting"
	StageModelCall    AnalysisStage = "model_call"
	StageParsing      AnalysisStage = "parsing"
	StageAnalyzed     AnalysisStage = "analyzed"
	StageFallback     AnalysisStage = "fallback"
	StageMockAnalyzed AnalysisStage = "mock_analyzed"
)

// AnalysisResult is the complete analysis of one listing. Score is always in
// [1,100]. TheGood/TheBad are non-empty when analysis succeeded; TheUgly is
// empty exactly when no severe findings exist. RawModelOutput is "" for
// mock-derived results and carries the verbatim model text otherwise.
type AnalysisResult struct {
	ID             string           `json:"id"`
	SourceURL      string           `json:"source_url"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Score          int              `json:"score"`
	TheGood        []string         `json:"the_good"`
	TheBad         []string         `json:"the_bad"`
	TheUgly        []string         `json:"the_ugly"`
	Summary        string           `json:"summary"`
	RawModelOutput string           `json:"raw_model_output,omitempty"`
	Listing        CanonicalListing `json:"listing"`
}

// IsMock reports whether the result came from the deterministic fallback
// rather than the model.
func (a AnalysisResult) IsMock() bool {
	return a.RawModelOutput == ""
}

// ExtendedAnalysis holds the outcome of the secondary document branch. When
// the branch succeeded, Listing carries the fields the model recovered from
// the document, normalized through the same alias table as direct extraction.
type ExtendedAnalysis struct {
	Success bool              `json:"success"`
	Text    string            `json:"text,omitempty"`
	Error   string            `json:"error,omitempty"`
	Listing *CanonicalListing `json:"listing,omitempty"`
}

// FullAnalysisResult joins the standard analysis with the optional extended
// branch. Its shape is identical regardless of which branch finished first.
type FullAnalysisResult struct {
	Analysis            AnalysisResult    `json:"analysis"`
	ExtendedAnalysis    *ExtendedAnalysis `json:"extended_analysis,omitempty"`
	HasExtendedAnalysis bool              `json:"has_extended_analysis"`
}
