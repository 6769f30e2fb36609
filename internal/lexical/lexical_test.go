package lexical

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"lowercases", "Hello WORLD", []string{"hello", "world"}},
		{"strips punctuation", "HR, əlaqə! (telefon)", []string{"hr", "əlaqə", "telefon"}},
		{"keeps digits", "+994-12-555-0102", []string{"994", "12", "555", "0102"}},
		{"email parts", "gunel.mammadova@nazirlik.gov.az", []string{"gunel", "mammadova", "nazirlik", "gov", "az"}},
		{"empty", "  ...  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestQueryTerms_Dedupes(t *testing.T) {
	assert.Equal(t, []string{"test", "document", "25"}, QueryTerms("test Document TEST 25 document"))
}

func TestQuery_Score(t *testing.T) {
	q := NewQuery("HR əlaqə")
	require.Equal(t, []string{"hr", "əlaqə"}, q.Terms())

	t.Run("no match", func(t *testing.T) {
		score, matched := q.Score("İllik məzuniyyət hüququ 21 iş günüdür.")
		assert.Zero(t, score)
		assert.Nil(t, matched)
	})

	t.Run("partial match", func(t *testing.T) {
		score, matched := q.Score("Əlaqə: Maliyyə Şöbəsi")
		assert.InDelta(t, 1.0, score, 1e-9)
		assert.Equal(t, []string{"əlaqə"}, matched)
	})

	t.Run("phrase boost", func(t *testing.T) {
		score, matched := q.Score("HR əlaqə: gunel.mammadova@nazirlik.gov.az")
		assert.InDelta(t, 2*PhraseBoost, score, 1e-9)
		assert.Equal(t, []string{"hr", "əlaqə"}, matched)
	})

	t.Run("term frequency raises score", func(t *testing.T) {
		once, _ := q.Score("HR əlaqə")
		twice, _ := q.Score("HR əlaqə and again HR əlaqə")
		assert.Greater(t, twice, once)
		assert.InDelta(t, 2*(1+math.Log(2))*PhraseBoost, twice, 1e-9)
	})

	t.Run("phrase must be whole terms", func(t *testing.T) {
		score, _ := q.Score("SHR əlaqələr")
		assert.Zero(t, score)
	})
}

func TestQuery_Empty(t *testing.T) {
	q := NewQuery("?!")
	assert.True(t, q.IsEmpty())
	score, matched := q.Score("anything")
	assert.Zero(t, score)
	assert.Nil(t, matched)
}

func TestRank(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	mk := func(docID string, uploaded time.Time, ordinal int, content string) domain.SearchResult {
		return domain.SearchResult{
			Document: domain.Document{ID: docID, UploadedAt: uploaded},
			Chunk:    domain.Chunk{DocumentID: docID, Ordinal: ordinal, Content: content},
		}
	}

	candidates := []domain.SearchResult{
		mk("b", late, 0, "layihə statusu"),
		mk("a", early, 1, "layihə"),
		mk("c", early, 0, "nothing relevant"),
		mk("a", early, 0, "layihə"),
		mk("d", late, 0, "layihə layihə layihə"),
	}

	results := Rank(NewQuery("layihə"), candidates, 0)
	require.Len(t, results, 4)

	assert.Equal(t, "d", results[0].Document.ID, "highest term frequency first")
	assert.Equal(t, [2]any{"a", 0}, [2]any{results[1].Document.ID, results[1].Chunk.Ordinal})
	assert.Equal(t, [2]any{"a", 1}, [2]any{results[2].Document.ID, results[2].Chunk.Ordinal})
	assert.Equal(t, "b", results[3].Document.ID, "later upload loses the tie")
	for _, r := range results {
		assert.Equal(t, []string{"layihə"}, r.MatchedTerms)
	}

	limited := Rank(NewQuery("layihə"), []domain.SearchResult{
		mk("x", early, 0, "layihə"),
		mk("y", early, 0, "layihə"),
	}, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "x", limited[0].Document.ID)
}
