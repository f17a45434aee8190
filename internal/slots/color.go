package slots

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kuitang/screening-ui/internal/errs"
)

// ColorToken names an availability colour: either a CSS colour name used by
// the screening grids or a computed rgb()/rgba() string.
type ColorToken string

// namedColors maps the CSS keywords the grids use to their computed form.
var namedColors = map[string]string{
	"green":      "rgb(0,128,0)",
	"lightgreen": "rgb(144,238,144)",
	"limegreen":  "rgb(50,205,50)",
	"yellow":     "rgb(255,255,0)",
	"orange":     "rgb(255,165,0)",
	"red":        "rgb(255,0,0)",
	"grey":       "rgb(128,128,128)",
	"gray":       "rgb(128,128,128)",
	"lightgrey":  "rgb(211,211,211)",
	"lightgray":  "rgb(211,211,211)",
	"white":      "rgb(255,255,255)",
}

// NormalizeColor folds case, strips whitespace and resolves named colours and
// #rgb/#rrggbb hex so a token and a computed style compare equal. Opaque
// rgba() collapses to rgb(). Malformed hex is returned folded but unconverted.
func NormalizeColor(s string) string {
	c := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if named, ok := namedColors[c]; ok {
		return named
	}
	if strings.HasPrefix(c, "#") {
		if rgb, ok := hexToRGB(c[1:]); ok {
			return rgb
		}
		return c
	}
	if strings.HasPrefix(c, "rgba(") && strings.HasSuffix(c, ",1)") {
		return "rgb(" + strings.TrimSuffix(strings.TrimPrefix(c, "rgba("), ",1)") + ")"
	}
	return c
}

func hexToRGB(hex string) (string, bool) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", v>>16, v>>8&0xff, v&0xff), true
}

// ValidateColors rejects hex tokens that are not #rgb or #rrggbb, which
// could never equal a computed colour.
func ValidateColors(tokens []ColorToken) error {
	for _, t := range tokens {
		c := NormalizeColor(string(t))
		if strings.HasPrefix(c, "#") {
			return errs.New(errs.InvalidArgument, fmt.Sprintf("colour %q must be #rgb or #rrggbb", string(t)))
		}
	}
	return nil
}

// colorSet is a normalised lookup over acceptable colours.
type colorSet map[string]ColorToken

func newColorSet(tokens []ColorToken) colorSet {
	set := make(colorSet, len(tokens))
	for _, t := range tokens {
		if n := NormalizeColor(string(t)); n != "" {
			set[n] = t
		}
	}
	return set
}

func (s colorSet) match(computed string) (ColorToken, bool) {
	t, ok := s[NormalizeColor(computed)]
	return t, ok
}
