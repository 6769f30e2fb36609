package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

func TestExtract(t *testing.T) {
	content := "\xef\xbb\xbfEzamiyyə Qaydaları\r\n\r\n1. Günlük yemək pulu: 25 AZN  \r\n"

	text, err := Extract([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "Ezamiyyə Qaydaları\n\n1. Günlük yemək pulu: 25 AZN", text)
}

func TestExtract_Empty(t *testing.T) {
	text, err := Extract(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_Binary(t *testing.T) {
	_, err := Extract([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptInput)

	var extractErr *domain.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, domain.FormatText, extractErr.Format)
}
