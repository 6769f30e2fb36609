package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Document(t *testing.T) {
	content := "# Ezamiyyə Qaydaları\n\n" +
		"Bu sənəd **ezamiyyə** xərclərini _izah_ edir. Ətraflı: [portal](https://intra.gov.az).\n\n" +
		"## Limitlər\n\n" +
		"- Günlük yemək pulu: 25 AZN\n" +
		"- Mehmanxana: `80 AZN`\n\n" +
		"| Şəhər | Limit |\n" +
		"|-------|-------|\n" +
		"| Bakı | 80 |\n"

	text, err := Extract([]byte(content))
	require.NoError(t, err)
	assert.Equal(t,
		"Ezamiyyə Qaydaları\n\n"+
			"Bu sənəd ezamiyyə xərclərini izah edir. Ətraflı: portal.\n\n"+
			"Limitlər\n\n"+
			"Günlük yemək pulu: 25 AZN\nMehmanxana: 80 AZN\n\n"+
			"Şəhər Limit\n\nBakı 80",
		text)
}

func TestExtract_BlocksAndMetadata(t *testing.T) {
	content := "---\ntitle: qeyd\n---\n" +
		"<!-- gizli -->\n" +
		"```go\nfmt.Println(\"kod\")\n```\n" +
		"> Sitat\n\n***\n\n" +
		"Son \\# qeyd"

	text, err := Extract([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "fmt.Println(\"kod\")\n\nSitat\n\nSon # qeyd", text)
}

func TestStrip_Inline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"image keeps alt text", "![Loqo](logo.png) mətn", "Loqo mətn"},
		{"autolink", "<https://nazirlik.gov.az>", "https://nazirlik.gov.az"},
		{"html tags", "<b>qalın</b> söz", "qalın söz"},
		{"strikethrough", "~~köhnə~~ yeni", "köhnə yeni"},
		{"reference link", "[bax][1]", "bax"},
		{"task list", "- [x] hazırdır", "hazırdır"},
		{"setext heading", "Başlıq\n======", "Başlıq\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strip(tt.input))
		})
	}
}

func TestExtract_Empty(t *testing.T) {
	text, err := Extract(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
