// Package fonts resolves font names to bundled TrueType data for backends that embed their own fonts.
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default is the face used when a name is not known.
const Default = "Go-Regular"

var builtin = map[string][]byte{
	"Go-Regular":    goregular.TTF,
	"Go-Bold":       gobold.TTF,
	"Go-Italic":     goitalic.TTF,
	"Go-BoldItalic": gobolditalic.TTF,
	"Go-Mono":       gomono.TTF,
}

// PostScript base-14 names map to the closest Go face, so a layout measured for Helvetica can still be
// drawn by a backend that has no access to the standard fonts.
var aliases = map[string]string{
	"go":                    "Go-Regular",
	"helvetica":             "Go-Regular",
	"helvetica-bold":        "Go-Bold",
	"helvetica-oblique":     "Go-Italic",
	"helvetica-boldoblique": "Go-BoldItalic",
	"arial":                 "Go-Regular",
	"times":                 "Go-Regular",
	"times-roman":           "Go-Regular",
	"courier":               "Go-Mono",
}

// Load returns the TrueType bytes for name. "embed:" prefixes are accepted for config values.
func Load(name string) ([]byte, error) {
	key := Resolve(name)
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("unknown built-in font %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Resolve maps a font name or alias to the canonical built-in name. Unknown names resolve to themselves.
func Resolve(name string) string {
	n := strings.TrimSpace(strings.TrimPrefix(name, "embed:"))
	if _, ok := builtin[n]; ok {
		return n
	}
	if canonical, ok := aliases[strings.ToLower(n)]; ok {
		return canonical
	}
	for k := range builtin {
		if strings.EqualFold(k, n) {
			return k
		}
	}
	return n
}

// Names lists the canonical built-in font names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for k := range builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
