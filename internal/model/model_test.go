package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRawFieldSet_SetDropsEmpty(t *testing.T) {
	raw := RawFieldSet{}
	raw.Set("adresse", "Storgata 1")
	raw.Set("pris", "   ")
	raw.Set("tittel", "")
	raw.Set("", "verdi")

	v, ok := raw.Get("adresse")
	assert.True(t, ok)
	assert.Equal(t, "Storgata 1", v)

	_, ok = raw.Get("pris")
	assert.False(t, ok)
	_, ok = raw.Get("tittel")
	assert.False(t, ok)
	assert.Len(t, raw, 1)
}

func TestRawFieldSet_SetTrims(t *testing.T) {
	raw := RawFieldSet{}
	raw.Set("areal", "  85 m²\n")

	v, _ := raw.Get("areal")
	assert.Equal(t, "85 m²", v)
}

func TestTailWindow(t *testing.T) {
	mkHistory := func(n int) []ChatMessage {
		out := make([]ChatMessage, n)
		for i := range out {
			role := RoleUser
			if i%2 == 1 {
				role = RoleAssistant
			}
			out[i] = ChatMessage{ID: fmt.Sprintf("m%d", i), Role: role, Content: fmt.Sprintf("melding %d", i)}
		}
		return out
	}

	tests := []struct {
		name      string
		inLen     int
		wantLen   int
		wantFirst string
	}{
		{"empty", 0, 0, ""},
		{"below window", 3, 3, "m0"},
		{"exactly window", ChatHistoryWindow, ChatHistoryWindow, "m0"},
		{"above window", 10, ChatHistoryWindow, "m4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := mkHistory(tt.inLen)
			got := TailWindow(history)
			assert.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got[0].ID)
				// Oldest first, ending with the newest message.
				assert.Equal(t, history[len(history)-1].ID, got[len(got)-1].ID)
			}
		})
	}
}

func TestTailWindow_DoesNotMutate(t *testing.T) {
	history := []ChatMessage{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
		{ID: "e"}, {ID: "f"}, {ID: "g"}, {ID: "h"},
	}
	_ = TailWindow(history)
	assert.Equal(t, "a", history[0].ID)
	assert.Len(t, history, 8)
}

func TestAnalysisResult_IsMock(t *testing.T) {
	assert.True(t, AnalysisResult{}.IsMock())
	assert.False(t, AnalysisResult{RawModelOutput: `{"score": 80}`}.IsMock())
}

func TestCanonicalListing_ScrapedTime(t *testing.T) {
	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	l := CanonicalListing{ScrapedAt: ts.Format(time.RFC3339)}
	assert.Equal(t, ts, l.ScrapedTime())

	assert.True(t, CanonicalListing{ScrapedAt: "ikke en dato"}.ScrapedTime().IsZero())
	assert.True(t, CanonicalListing{}.ScrapedTime().IsZero())
}
