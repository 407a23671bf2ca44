// Package analyze orchestrates the analysis pipeline: fetch, extract,
// normalize, prompt, model call, parse. Every failure path resolves to a
// usable result; nothing below this boundary leaks past it.
package analyze

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boligsjekk/boligsjekk/internal/config"
	"github.com/boligsjekk/boligsjekk/internal/extract"
	"github.com/boligsjekk/boligsjekk/internal/fetch"
	"github.com/boligsjekk/boligsjekk/internal/model"
	"github.com/boligsjekk/boligsjekk/internal/normalize"
	"github.com/boligsjekk/boligsjekk/internal/parse"
	"github.com/boligsjekk/boligsjekk/internal/prompt"
	"github.com/boligsjekk/boligsjekk/pkg/anthropic"
)

// Analyzer runs the analysis pipeline. All dependencies are explicit; the
// zero value is not usable.
type Analyzer struct {
	cfg     config.AnthropicConfig
	fetcher fetch.Fetcher
	llm     anthropic.Client
}

// New creates an Analyzer. llm may be nil when no credential is configured;
// every request then resolves to the deterministic mock.
func New(cfg config.AnthropicConfig, fetcher fetch.Fetcher, llm anthropic.Client) *Analyzer {
	return &Analyzer{cfg: cfg, fetcher: fetcher, llm: llm}
}

// Analyze runs the standard pipeline for one listing URL. It never fails:
// any stage failure transitions to the fallback and yields a mock result.
func (a *Analyzer) Analyze(ctx context.Context, url string) *model.AnalysisResult {
	log := zap.L().With(zap.String("url", url))
	stage := model.StagePending

	doc, listing := a.extractListing(ctx, url, log, &stage)

	if !a.cfg.HasCredential() || a.llm == nil {
		log.Info("analyze: no credential, using mock", zap.String("stage", string(stage)))
		return a.fallback(url, listing, log)
	}
	if doc == nil {
		// Navigation failed; nothing real to analyze.
		return a.fallback(url, listing, log)
	}

	stage = model.StagePrompting
	p := prompt.BuildAnalysisPrompt(listing)

	stage = model.StageModelCall
	resp, err := a.callModel(ctx, p, a.cfg.MaxTokens)
	if err != nil {
		log.Warn("analyze: model call failed", zap.String("stage", string(stage)), zap.Error(err))
		return a.fallback(url, listing, log)
	}

	stage = model.StageParsing
	text := resp.Text()
	parsed, err := parse.ParseAnalysis(text)
	if err != nil {
		log.Warn("analyze: parse failed", zap.String("stage", string(stage)), zap.Error(err))
		return a.fallback(url, listing, log)
	}

	stage = model.StageAnalyzed
	log.Info("analyze: complete", zap.String("stage", string(stage)), zap.Int("score", parsed.Score))

	now := time.Now().UTC()
	return &model.AnalysisResult{
		ID:             uuid.NewString(),
		SourceURL:      url,
		CreatedAt:      now,
		UpdatedAt:      now,
		Score:          parsed.Score,
		TheGood:        parsed.TheGood,
		TheBad:         parsed.TheBad,
		TheUgly:        parsed.TheUgly,
		Summary:        parsed.Summary,
		RawModelOutput: text,
		Listing:        listing,
	}
}

// FullAnalysis runs the standard pipeline and the extended-document branch
// concurrently and joins both. The extended branch failing never aborts the
// request; its absence is recorded on the result.
func (a *Analyzer) FullAnalysis(ctx context.Context, url string) *model.FullAnalysisResult {
	var (
		standard *model.AnalysisResult
		extended *model.ExtendedAnalysis
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		standard = a.Analyze(gCtx, url)
		return nil
	})
	g.Go(func() error {
		extended = a.analyzeExtended(gCtx, url)
		return nil
	})
	_ = g.Wait()

	return &model.FullAnalysisResult{
		Analysis:            *standard,
		ExtendedAnalysis:    extended,
		HasExtendedAnalysis: extended != nil && extended.Success,
	}
}

// analyzeExtended runs the secondary branch: the full document text goes to
// the model, which extracts fields (normalized under the extended source tag)
// and writes a free-text assessment. Failures are recorded, not raised.
func (a *Analyzer) analyzeExtended(ctx context.Context, url string) *model.ExtendedAnalysis {
	log := zap.L().With(zap.String("url", url), zap.String("branch", "extended"))

	if !a.cfg.HasCredential() || a.llm == nil {
		return MockExtended(url)
	}

	doc, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("analyze: extended fetch failed", zap.Error(err))
		return &model.ExtendedAnalysis{Success: false, Error: err.Error()}
	}

	resp, err := a.callModel(ctx, prompt.BuildExtendedPrompt(doc.Text()), a.cfg.MaxTokens)
	if err != nil {
		log.Warn("analyze: extended model call failed", zap.Error(err))
		return &model.ExtendedAnalysis{Success: false, Error: err.Error()}
	}

	raw, assessment, err := parse.ParseExtended(resp.Text())
	if err != nil {
		log.Warn("analyze: extended parse failed", zap.Error(err))
		return &model.ExtendedAnalysis{Success: false, Error: err.Error()}
	}

	// Route the model-extracted fields through the same alias table as the
	// direct shape, so downstream consumers cannot tell which source
	// populated a field.
	listing := normalize.Normalize(raw, model.SourceExtended, url)

	return &model.ExtendedAnalysis{Success: true, Text: assessment, Listing: &listing}
}

// extractListing fetches the document and normalizes the extracted fields.
// On navigation failure it returns a nil document and the fully-defaulted
// record.
func (a *Analyzer) extractListing(ctx context.Context, url string, log *zap.Logger, stage *model.AnalysisStage) (*fetch.Document, model.CanonicalListing) {
	*stage = model.StageExtracting
	doc, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("analyze: navigation failed", zap.Error(err))
		return nil, normalize.Normalize(nil, model.SourceDirect, url)
	}

	raw := extract.Extract(doc)
	*stage = model.StageExtracted
	listing := normalize.Normalize(raw, model.SourceDirect, url)
	return doc, listing
}

// callModel issues one bounded completion call.
func (a *Analyzer) callModel(ctx context.Context, userPrompt string, maxTokens int) (*anthropic.MessageResponse, error) {
	timeout := time.Duration(a.cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	temp := a.cfg.Temperature
	resp, err := a.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.cfg.Model,
		MaxTokens:   int64(maxTokens),
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(a.cfg.Model, "analyze")
	return resp, nil
}

// fallback transitions to the terminal mock state.
func (a *Analyzer) fallback(url string, listing model.CanonicalListing, log *zap.Logger) *model.AnalysisResult {
	log.Info("analyze: fallback", zap.String("stage", string(model.StageMockAnalyzed)))
	return MockAnalysis(url, listing)
}
