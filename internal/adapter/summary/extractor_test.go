package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"apidoc/internal/adapter/signature"
	"apidoc/internal/domain"
)

func TestExtract(t *testing.T) {
	e := NewExtractor(signature.New())

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"signature only", "setValue(self, value: int) -> bool", ""},
		{"empty", "", ""},
		{"blank lines only", "\n  \n", ""},
		{
			name: "first paragraph",
			doc:  "setValue(self, value: int)\n\nSets the value\n  of the widget.\n\nMore details.",
			want: "Sets the value of the widget.",
		},
		{
			name: "multiple constructors",
			doc:  "QgsPoint(x: float, y: float)\nQgsPoint(other: QgsPoint)\nA point in 2D space.",
			want: "A point in 2D space.",
		},
		{
			name: "prose containing a call is kept",
			doc:  "Calls reset(self) internally. Use with care.",
			want: "Calls reset(self) internally. Use with care.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.ExtractText(tt.doc))
		})
	}
}

func TestExtract_RawLines(t *testing.T) {
	e := NewExtractor(signature.New())
	doc := domain.RawDocstring{"", "Layer tree node.", "", "Details."}

	assert.Equal(t, "Layer tree node.", e.Extract(doc))
}
