// Package store persists analyses and chat history.
package store

import (
	"context"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

// AnalysisFilter specifies criteria for listing analyses.
type AnalysisFilter struct {
	SourceURL string `json:"source_url,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the analyzer.
type Store interface {
	// Analyses
	SaveAnalysis(ctx context.Context, result *model.FullAnalysisResult) error
	GetAnalysis(ctx context.Context, id string) (*model.FullAnalysisResult, error)
	GetLatestByURL(ctx context.Context, sourceURL string) (*model.FullAnalysisResult, error)
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.FullAnalysisResult, error)

	// Chat history
	AppendChatMessage(ctx context.Context, analysisID string, msg model.ChatMessage) error
	GetChatHistory(ctx context.Context, analysisID string) ([]model.ChatMessage, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
