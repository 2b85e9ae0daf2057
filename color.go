package adcanvas

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"
)

// ParseColor normalizes the heterogeneous color encodings that appear in
// templates into an NRGBA quadruple. Accepted inputs:
//
//   - a 3- or 4-element numeric tuple (channels clamped to 0-255, a
//     3-tuple implies alpha 255)
//   - hex strings "#RGB", "#RRGGBB", "#RRGGBBAA"
//   - "rgb(r,g,b)" / "rgba(r,g,b,a)" with integer or percent channels
//     and a float alpha in [0,1]
//   - a closed set of named colors
//
// Anything unrecognized returns def and logs a warning; ParseColor never
// fails. Matching ignores case and surrounding whitespace.
func ParseColor(v any, def color.NRGBA) color.NRGBA {
	switch val := v.(type) {
	case nil:
		return def
	case color.NRGBA:
		return val
	case string:
		if c, ok := parseColorString(val); ok {
			return c
		}
	case []any:
		if c, ok := parseColorTuple(val); ok {
			return c
		}
	case []int:
		tuple := make([]any, len(val))
		for i, n := range val {
			tuple[i] = float64(n)
		}
		if c, ok := parseColorTuple(tuple); ok {
			return c
		}
	case []float64:
		tuple := make([]any, len(val))
		for i, n := range val {
			tuple[i] = n
		}
		if c, ok := parseColorTuple(tuple); ok {
			return c
		}
	}
	logger().Warn("unparseable color, using default", "value", v)
	return def
}

// colorStrategy is one step of the ordered fallback chain. Each strategy
// either claims the input or reports not-found so the precedence order
// stays auditable in isolation.
type colorStrategy func(string) (color.NRGBA, bool)

var colorStrategies = []colorStrategy{
	parseHexColor,
	parseRGBFuncColor,
	parseNamedColor,
}

func parseColorString(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, false
	}
	for _, strat := range colorStrategies {
		if c, ok := strat(s); ok {
			return c, true
		}
	}
	return color.NRGBA{}, false
}

func parseHexColor(s string) (color.NRGBA, bool) {
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		r, g, b := hexNibble(hex[0]), hexNibble(hex[1]), hexNibble(hex[2])
		if r < 0 || g < 0 || b < 0 {
			return color.NRGBA{}, false
		}
		return color.NRGBA{R: uint8(r * 17), G: uint8(g * 17), B: uint8(b * 17), A: 255}, true
	case 6, 8:
		var ch [4]int
		ch[3] = 255
		for i := 0; i*2 < len(hex); i++ {
			h, l := hexNibble(hex[i*2]), hexNibble(hex[i*2+1])
			if h < 0 || l < 0 {
				return color.NRGBA{}, false
			}
			ch[i] = h<<4 | l
		}
		return color.NRGBA{R: uint8(ch[0]), G: uint8(ch[1]), B: uint8(ch[2]), A: uint8(ch[3])}, true
	}
	return color.NRGBA{}, false
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

var rgbFuncRe = regexp.MustCompile(`^(rgb|rgba)\(\s*(\d+%?)\s*,\s*(\d+%?)\s*,\s*(\d+%?)\s*(?:,\s*([0-9]*\.?[0-9]+)\s*)?\)$`)

func parseRGBFuncColor(s string) (color.NRGBA, bool) {
	m := rgbFuncRe.FindStringSubmatch(s)
	if m == nil {
		return color.NRGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		ch[i] = parseChannel(m[2+i])
	}
	a := uint8(255)
	if m[5] != "" {
		f, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		a = uint8(clampFloat(f, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

// parseChannel parses an integer or percent channel value, clamped to 0-255.
func parseChannel(s string) uint8 {
	if strings.HasSuffix(s, "%") {
		n, _ := strconv.Atoi(strings.TrimSuffix(s, "%"))
		return uint8(clampFloat(float64(n)/100, 0, 1)*255 + 0.5)
	}
	n, _ := strconv.Atoi(s)
	return uint8(clampInt(n, 0, 255))
}

var namedColors = map[string]color.NRGBA{
	"white":       {255, 255, 255, 255},
	"black":       {0, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"silver":      {192, 192, 192, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"maroon":      {128, 0, 0, 255},
	"olive":       {128, 128, 0, 255},
	"purple":      {128, 0, 128, 255},
	"teal":        {0, 128, 128, 255},
	"navy":        {0, 0, 128, 255},
	"transparent": {0, 0, 0, 0},
}

func parseNamedColor(s string) (color.NRGBA, bool) {
	c, ok := namedColors[s]
	return c, ok
}

func parseColorTuple(vals []any) (color.NRGBA, bool) {
	if len(vals) != 3 && len(vals) != 4 {
		return color.NRGBA{}, false
	}
	var ch [4]int
	ch[3] = 255
	for i, v := range vals {
		f, ok := v.(float64)
		if !ok {
			return color.NRGBA{}, false
		}
		ch[i] = clampInt(int(f+0.5), 0, 255)
	}
	return color.NRGBA{R: uint8(ch[0]), G: uint8(ch[1]), B: uint8(ch[2]), A: uint8(ch[3])}, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
