package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"name":  "relatorio",
		"index": 3,
		"input": map[string]any{"dir": "docs", "ext": ".docx"},
		"tags":  []any{"a", map[string]any{"id": 7}},
		"env":   map[string]string{"user": "ana"},
	}

	tests := []struct {
		text string
		want string
	}{
		{"out/${name}.pdf", "out/relatorio.pdf"},
		{"${input.dir}/${ name }-${index}.pdf", "docs/relatorio-3.pdf"},
		{"${tags[1].id}", "7"},
		{"${env.user}", "ana"},
		{"${missing}/${name}", "${missing}/relatorio"},
		{"${tags[9]}", "${tags[9]}"},
		{"${tags[x]}", "${tags[x]}"},
		{"plain.pdf", "plain.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.text, data))
		})
	}

	assert.Equal(t, "out/${name}.pdf", Interpolate("out/${name}.pdf", nil))
}

func TestUnresolved(t *testing.T) {
	data := map[string]any{"name": "x"}
	assert.Empty(t, Unresolved("out/${name}.pdf", data))
	assert.Equal(t, []string{"nme", "kind"}, Unresolved("${nme}/${name}/${kind}", data))
	assert.Equal(t, []string{"name"}, Unresolved("${name}", nil))
}
