package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidoc/internal/domain"
)

func TestGrammar_Parse(t *testing.T) {
	g := New()

	tests := []struct {
		name string
		line string
		want domain.Signature
	}{
		{
			name: "method with return type",
			line: "setValue(self, value: int) -> bool",
			want: domain.Signature{
				Name: "setValue",
				Params: []domain.Param{
					{Name: "self"},
					{Name: "value", TypeHint: "int"},
				},
				ReturnType: "bool",
			},
		},
		{
			name: "bare name",
			line: "flags",
			want: domain.Signature{Name: "flags"},
		},
		{
			name: "empty argument list",
			line: "clear(self)",
			want: domain.Signature{Name: "clear", Params: []domain.Param{{Name: "self"}}},
		},
		{
			name: "module and qualifier",
			line: "qgis.core::QgsVectorLayer.featureCount(self) -> int",
			want: domain.Signature{
				Module:     "qgis.core",
				Path:       "QgsVectorLayer",
				Name:       "featureCount",
				Params:     []domain.Param{{Name: "self"}},
				ReturnType: "int",
			},
		},
		{
			name: "signal",
			line: "layerModified(self) [signal]",
			want: domain.Signature{
				Name:     "layerModified",
				Params:   []domain.Param{{Name: "self"}},
				IsSignal: true,
			},
		},
		{
			name: "defaults and nested brackets",
			line: "select(self, ids: Dict[str, int] = {}, flags=0) -> List[QgsFeature]",
			want: domain.Signature{
				Name: "select",
				Params: []domain.Param{
					{Name: "self"},
					{Name: "ids", TypeHint: "Dict[str, int]", Default: "{}"},
					{Name: "flags", Default: "0"},
				},
				ReturnType: "List[QgsFeature]",
			},
		},
		{
			name: "tuple return",
			line: "toInt(self, s: str) -> (int, bool)",
			want: domain.Signature{
				Name:       "toInt",
				Params:     []domain.Param{{Name: "self"}, {Name: "s", TypeHint: "str"}},
				ReturnType: "(int, bool)",
			},
		},
		{
			name: "quoted comma in default",
			line: "join(self, sep: str = ', ')",
			want: domain.Signature{
				Name:   "join",
				Params: []domain.Param{{Name: "self"}, {Name: "sep", TypeHint: "str", Default: "', '"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.Parse(tt.line)
			require.True(t, ok, "expected %q to match", tt.line)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrammar_RejectsPartialMatches(t *testing.T) {
	g := New()

	for _, line := range []string{
		"",
		"Returns the layer name.",
		"setValue(self, value: int) -> bool and more",
		"setValue(self",
		"-> int",
		"foo(a) [slot]",
	} {
		_, ok := g.Parse(line)
		assert.False(t, ok, "expected %q not to match", line)
		assert.False(t, g.Match(line), "expected %q not to match", line)
	}
}

func TestGrammar_RoundTrip(t *testing.T) {
	g := New()

	lines := []string{
		"setValue(self, value: int) -> bool",
		"qgis.core::QgsVectorLayer.featureCount(self) -> int",
		"valueChanged(self, value: int)   [signal]",
		"select(self,ids: Dict[str, int]={}, flags=0) -> List[QgsFeature]",
		"toInt(self, s: str) -> (int, bool)",
		"flags",
	}
	for _, line := range lines {
		first, ok := g.Parse(line)
		require.True(t, ok, line)

		second, ok := g.Parse(Format(first))
		require.True(t, ok, Format(first))
		assert.Equal(t, first, second, line)
	}
}

func TestParseParam(t *testing.T) {
	assert.Equal(t, domain.Param{Name: "value", TypeHint: "int"}, ParseParam(" value: int "))
	assert.Equal(t, domain.Param{Name: "name"}, ParseParam("name"))
	assert.Equal(t, domain.Param{Name: "x", Default: "{'a': 1}"}, ParseParam("x={'a': 1}"))
}
