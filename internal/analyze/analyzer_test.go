package analyze

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boligsjekk/boligsjekk/internal/config"
	"github.com/boligsjekk/boligsjekk/internal/fetch"
	"github.com/boligsjekk/boligsjekk/internal/normalize"
	"github.com/boligsjekk/boligsjekk/pkg/anthropic"
)

const analyzeURL = "https://www.finn.no/realestate/homes/ad.html?finnkode=123456789"

const analyzeHTML = `<html><head><title>Lys 3-roms</title></head><body>
<h1 data-testid="object-title">Lys 3-roms på Grünerløkka</h1>
<span data-testid="object-address">Markveien 35B, 0554 Oslo</span>
<dl>
  <dt>Boligtype</dt><dd>Leilighet</dd>
  <dt>Prisantydning</dt><dd>4 850 000 kr</dd>
</dl>
</body></html>`

const validModelJSON = `{
  "score": 81,
  "the_good": ["Sentralt", "Lys", "Solid sameie", "Balkong"],
  "the_bad": ["Eldre bad", "Gateparkering", "Støy"],
  "the_ugly": [],
  "summary": "Et godt objekt med normal risiko."
}`

// --- Fetcher mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Name() string { return "mock" }

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*fetch.Document, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fetch.Document), args.Error(1)
}

// --- LLM mock ---

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 800, OutputTokens: 200},
	}
}

func testAnthropicConfig() config.AnthropicConfig {
	return config.AnthropicConfig{
		Key:         "sk-test",
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   2048,
		Temperature: 0.3,
		TimeoutSecs: 5,
	}
}

func mustDoc(t *testing.T) *fetch.Document {
	t.Helper()
	doc, err := fetch.NewDocument(analyzeURL, analyzeHTML)
	require.NoError(t, err)
	return doc
}

// anyRequest matches any completion request.
var anyRequest = mock.MatchedBy(func(anthropic.MessageRequest) bool { return true })

// extendedRequest matches the extended-document branch by its prompt shape.
var extendedRequest = mock.MatchedBy(func(req anthropic.MessageRequest) bool {
	return len(req.Messages) == 1 && strings.Contains(req.Messages[0].Content, "salgsoppgave")
})

// analysisRequest matches the standard analysis branch.
var analysisRequest = mock.MatchedBy(func(req anthropic.MessageRequest) bool {
	return len(req.Messages) == 1 && !strings.Contains(req.Messages[0].Content, "salgsoppgave")
})

func TestAnalyze_Success(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

	llm := &mockLLM{}
	llm.On("CreateMessage", mock.Anything, anyRequest).Return(textResponse("Her er vurderingen:\n"+validModelJSON), nil)

	a := New(testAnthropicConfig(), fetcher, llm)
	result := a.Analyze(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.False(t, result.IsMock())
	assert.Equal(t, 81, result.Score)
	assert.Len(t, result.TheGood, 4)
	assert.Empty(t, result.TheUgly)
	assert.Equal(t, "Et godt objekt med normal risiko.", result.Summary)
	assert.Contains(t, result.RawModelOutput, `"score": 81`)
	assert.NotEmpty(t, result.ID)

	// Extracted fields made it through normalization.
	assert.Equal(t, "Lys 3-roms på Grünerløkka", result.Listing.Tittel)
	assert.Equal(t, "Leilighet", result.Listing.Type)
	assert.Equal(t, "4 850 000 kr", result.Listing.Pris)

	fetcher.AssertExpectations(t)
	llm.AssertExpectations(t)
}

func TestAnalyze_NoCredentialUsesMock(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

	llm := &mockLLM{}

	cfg := testAnthropicConfig()
	cfg.Key = ""
	a := New(cfg, fetcher, llm)
	result := a.Analyze(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.True(t, result.IsMock())
	// The extracted listing is still normalized and attached.
	assert.Equal(t, "Leilighet", result.Listing.Type)
	llm.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestAnalyze_NilClientUsesMock(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

	a := New(testAnthropicConfig(), fetcher, nil)
	result := a.Analyze(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.True(t, result.IsMock())
}

func TestAnalyze_NavigationFailureUsesMockWithDefaults(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(nil, eris.New("connection refused"))

	llm := &mockLLM{}

	a := New(testAnthropicConfig(), fetcher, llm)
	result := a.Analyze(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.True(t, result.IsMock())
	assert.Equal(t, normalize.DefaultTittel, result.Listing.Tittel)
	assert.Equal(t, analyzeURL, result.Listing.URL)
	llm.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestAnalyze_ModelErrorFallsBack(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

	llm := &mockLLM{}
	llm.On("CreateMessage", mock.Anything, anyRequest).Return(nil, eris.New("rate limited"))

	a := New(testAnthropicConfig(), fetcher, llm)
	result := a.Analyze(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.True(t, result.IsMock())
	assert.GreaterOrEqual(t, result.Score, 1)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestAnalyze_ParseFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no json", "Beklager, her er ingen JSON."},
		{"missing key", `{"score": 80, "the_good": [], "the_bad": [], "the_ugly": []}`},
		{"score out of range", `{"score": 150, "the_good": [], "the_bad": [], "the_ugly": [], "summary": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

			llm := &mockLLM{}
			llm.On("CreateMessage", mock.Anything, anyRequest).Return(textResponse(tt.text), nil)

			a := New(testAnthropicConfig(), fetcher, llm)
			result := a.Analyze(context.Background(), analyzeURL)

			require.NotNil(t, result)
			assert.True(t, result.IsMock())
		})
	}
}

func TestFullAnalysis_BothBranches(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

	extendedJSON := `{"felter": {"byggeaar": "1936", "fellesgjeld": "312 000 kr"}, "vurdering": "Ryddig salgsoppgave uten store avvik."}`

	llm := &mockLLM{}
	llm.On("CreateMessage", mock.Anything, analysisRequest).Return(textResponse(validModelJSON), nil)
	llm.On("CreateMessage", mock.Anything, extendedRequest).Return(textResponse(extendedJSON), nil)

	a := New(testAnthropicConfig(), fetcher, llm)
	result := a.FullAnalysis(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.True(t, result.HasExtendedAnalysis)
	assert.Equal(t, 81, result.Analysis.Score)

	require.NotNil(t, result.ExtendedAnalysis)
	assert.True(t, result.ExtendedAnalysis.Success)
	assert.Equal(t, "Ryddig salgsoppgave uten store avvik.", result.ExtendedAnalysis.Text)

	// Model-recovered fields route through the same alias table.
	require.NotNil(t, result.ExtendedAnalysis.Listing)
	assert.Equal(t, "1936", result.ExtendedAnalysis.Listing.Byggeaar)
	assert.Equal(t, "312 000 kr", result.ExtendedAnalysis.Listing.Fellesgjeld)
}

func TestFullAnalysis_ExtendedFailureKeepsStandardResult(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

	llm := &mockLLM{}
	llm.On("CreateMessage", mock.Anything, analysisRequest).Return(textResponse(validModelJSON), nil)
	llm.On("CreateMessage", mock.Anything, extendedRequest).Return(nil, eris.New("model overloaded"))

	a := New(testAnthropicConfig(), fetcher, llm)
	result := a.FullAnalysis(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.False(t, result.HasExtendedAnalysis)
	require.NotNil(t, result.ExtendedAnalysis)
	assert.False(t, result.ExtendedAnalysis.Success)
	assert.NotEmpty(t, result.ExtendedAnalysis.Error)

	// The standard branch is untouched by the extended failure.
	assert.Equal(t, 81, result.Analysis.Score)
	assert.NotEmpty(t, result.Analysis.Summary)
}

func TestFullAnalysis_MockModeIncludesMockExtended(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, analyzeURL).Return(mustDoc(t), nil)

	cfg := testAnthropicConfig()
	cfg.Key = ""
	a := New(cfg, fetcher, nil)
	result := a.FullAnalysis(context.Background(), analyzeURL)

	require.NotNil(t, result)
	assert.True(t, result.Analysis.IsMock())
	assert.True(t, result.HasExtendedAnalysis)
	assert.NotEmpty(t, result.ExtendedAnalysis.Text)
}
