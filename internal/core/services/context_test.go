package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docbase/internal/core/domain"
)

func TestContextService_SkipsChunksOverBudget(t *testing.T) {
	index := memory.NewIndexStore()
	seed(t, index, "long", "elaqe.txt", "", pad("HR əlaqə: otaq 214. HR əlaqə: daxili 305.", 600))
	seed(t, index, "short", "hr.txt", "", pad("HR əlaqə: gunel.mammadova@nazirlik.gov.az", 450))
	svc := NewContextService(index, 4)

	bundle, err := svc.BuildContext(context.Background(), "HR əlaqə", 500, 5)

	require.NoError(t, err)
	require.Len(t, bundle.Entries, 1)
	assert.Equal(t, "short", bundle.Entries[0].DocumentID)
	assert.Equal(t, "hr.txt", bundle.Entries[0].Filename)
	assert.Equal(t, 450, bundle.TotalChars)
	assert.LessOrEqual(t, bundle.TotalChars, bundle.Budget)
}

func TestContextService_OneChunkPerDocumentFirst(t *testing.T) {
	index := memory.NewIndexStore()
	seed(t, index, "a", "a.txt", "", "layihə layihə", "layihə bir", "layihə iki")
	seed(t, index, "b", "b.txt", "", "layihə üç")
	svc := NewContextService(index, 4)

	bundle, err := svc.BuildContext(context.Background(), "layihə", 1000, 5)
	require.NoError(t, err)

	var got [][2]any
	for _, e := range bundle.Entries {
		got = append(got, [2]any{e.DocumentID, e.Ordinal})
	}
	assert.Equal(t, [][2]any{{"a", 0}, {"a", 1}, {"b", 0}}, got,
		"second pass adds at most one more chunk per document")
}

func TestContextService_SecondPassOnlyWhenBudgetRemains(t *testing.T) {
	index := memory.NewIndexStore()
	seed(t, index, "a", "a.txt", "", pad("layihə layihə", 40), pad("layihə", 40))
	seed(t, index, "b", "b.txt", "", pad("layihə", 40))
	svc := NewContextService(index, 4)

	bundle, err := svc.BuildContext(context.Background(), "layihə", 80, 5)
	require.NoError(t, err)

	require.Len(t, bundle.Entries, 2)
	assert.Equal(t, "a", bundle.Entries[0].DocumentID)
	assert.Equal(t, "b", bundle.Entries[1].DocumentID)
	assert.Equal(t, 80, bundle.TotalChars)
}

func TestContextService_MaxDocuments(t *testing.T) {
	index := memory.NewIndexStore()
	seed(t, index, "a", "a.txt", "", "məzuniyyət məzuniyyət məzuniyyət", "məzuniyyət")
	seed(t, index, "b", "b.txt", "", "məzuniyyət məzuniyyət")
	seed(t, index, "c", "c.txt", "", "məzuniyyət")
	svc := NewContextService(index, 4)

	bundle, err := svc.BuildContext(context.Background(), "məzuniyyət", 1000, 2)
	require.NoError(t, err)

	docs := map[string]bool{}
	for _, e := range bundle.Entries {
		docs[e.DocumentID] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, docs)
	assert.Len(t, bundle.Entries, 3)
	assert.Equal(t, []string{"a.txt", "b.txt"}, bundle.Sources())
}

func TestContextService_OrderingAndBudgetInvariant(t *testing.T) {
	index := memory.NewIndexStore()
	seed(t, index, "z", "z.txt", "", "ezamiyyə qaydası", "ezamiyyə")
	seed(t, index, "y", "y.txt", "", "ezamiyyə ərizəsi")
	seed(t, index, "x", "x.txt", "", "ezamiyyə")
	svc := NewContextService(index, 4)

	for budget := 1; budget <= 60; budget++ {
		bundle, err := svc.BuildContext(context.Background(), "ezamiyyə qaydası", budget, 3)
		require.NoError(t, err)
		assert.LessOrEqual(t, bundle.TotalChars, budget)

		for i := 1; i < len(bundle.Entries); i++ {
			prev, cur := bundle.Entries[i-1], bundle.Entries[i]
			if prev.Score == cur.Score {
				assert.True(t, prev.DocumentID < cur.DocumentID ||
					(prev.DocumentID == cur.DocumentID && prev.Ordinal < cur.Ordinal))
			} else {
				assert.Greater(t, prev.Score, cur.Score)
			}
		}
	}
}

func TestContextService_NoMatchIsEmpty(t *testing.T) {
	index := memory.NewIndexStore()
	seed(t, index, "a", "a.txt", "", "İllik məzuniyyət hüququ 21 iş günüdür.")
	svc := NewContextService(index, 4)

	for _, q := range []string{"telefon", "", "   ", "?!"} {
		bundle, err := svc.BuildContext(context.Background(), q, 500, 5)
		require.NoError(t, err, q)
		assert.True(t, bundle.IsEmpty(), q)
		assert.Empty(t, bundle.Render(), q)
	}
}

func TestContextService_InvalidArguments(t *testing.T) {
	svc := NewContextService(memory.NewIndexStore(), 0)
	assert.Equal(t, domain.DefaultCandidateFactor, svc.candidateFactor)

	_, err := svc.BuildContext(context.Background(), "q", 0, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.BuildContext(context.Background(), "q", 100, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestContextService_StorageFailure(t *testing.T) {
	index := memory.NewIndexStore()
	require.NoError(t, index.Close())
	svc := NewContextService(index, 4)

	_, err := svc.BuildContext(context.Background(), "q", 100, 5)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
