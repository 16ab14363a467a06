package codec

import "strings"

// The JSON side uses the uppercase token vocabulary established by the
// original tooling (CENTER, DOUBLE, YELLOW, ...); the XML side uses the
// OOXML attribute values. The tables below translate between the two.

var alignmentFromXML = map[string]string{
	"left":       "LEFT",
	"start":      "LEFT",
	"center":     "CENTER",
	"right":      "RIGHT",
	"end":        "RIGHT",
	"both":       "JUSTIFY",
	"distribute": "DISTRIBUTE",
}

var alignmentToXML = map[string]string{
	"LEFT":       "left",
	"CENTER":     "center",
	"RIGHT":      "right",
	"JUSTIFY":    "both",
	"DISTRIBUTE": "distribute",
}

// Underline styles beyond plain on/off. "single" and "none" map to the
// boolean forms and are handled separately.
var underlineFromXML = map[string]string{
	"double":        "DOUBLE",
	"words":         "WORDS",
	"dotted":        "DOTTED",
	"dottedHeavy":   "DOTTED_HEAVY",
	"dash":          "DASH",
	"dashedHeavy":   "DASH_HEAVY",
	"dashLong":      "DASH_LONG",
	"dashLongHeavy": "DASH_LONG_HEAVY",
	"dotDash":       "DOT_DASH",
	"dotDotDash":    "DOT_DOT_DASH",
	"wave":          "WAVY",
	"wavyDouble":    "WAVY_DOUBLE",
	"wavyHeavy":     "WAVY_HEAVY",
	"thick":         "THICK",
}

var underlineToXML = invert(underlineFromXML)

var highlightFromXML = map[string]string{
	"yellow":      "YELLOW",
	"green":       "BRIGHT_GREEN",
	"cyan":        "TURQUOISE",
	"magenta":     "PINK",
	"blue":        "BLUE",
	"red":         "RED",
	"darkBlue":    "DARK_BLUE",
	"darkCyan":    "TEAL",
	"darkGreen":   "GREEN",
	"darkMagenta": "VIOLET",
	"darkRed":     "DARK_RED",
	"darkYellow":  "DARK_YELLOW",
	"lightGray":   "GRAY_25",
	"darkGray":    "GRAY_50",
	"black":       "BLACK",
	"white":       "WHITE",
}

var highlightToXML = invert(highlightFromXML)

var themeColorFromXML = map[string]string{
	"accent1":           "ACCENT_1",
	"accent2":           "ACCENT_2",
	"accent3":           "ACCENT_3",
	"accent4":           "ACCENT_4",
	"accent5":           "ACCENT_5",
	"accent6":           "ACCENT_6",
	"background1":       "BACKGROUND_1",
	"background2":       "BACKGROUND_2",
	"dark1":             "DARK_1",
	"dark2":             "DARK_2",
	"light1":            "LIGHT_1",
	"light2":            "LIGHT_2",
	"text1":             "TEXT_1",
	"text2":             "TEXT_2",
	"hyperlink":         "HYPERLINK",
	"followedHyperlink": "FOLLOWED_HYPERLINK",
}

var themeColorToXML = invert(themeColorFromXML)

var cellVAlignFromXML = map[string]string{
	"top":    "TOP",
	"center": "CENTER",
	"bottom": "BOTTOM",
	"both":   "BOTH",
}

var cellVAlignToXML = invert(cellVAlignFromXML)

// Line spacing rule tokens. The single/1.5/double distinction only exists on
// the JSON side; the XML side encodes all three as a multiple.
const (
	ruleSingle       = "SINGLE"
	ruleOnePointFive = "ONE_POINT_FIVE"
	ruleDouble       = "DOUBLE"
	ruleMultiple     = "MULTIPLE"
	ruleExactly      = "EXACTLY"
	ruleAtLeast      = "AT_LEAST"
)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// colorFromXML renders a w:color as either a theme token or a "#RRGGBB" hex
// string. "auto" is normalized to black.
func colorFromXML(val, theme string) *string {
	if theme != "" {
		if token, ok := themeColorFromXML[theme]; ok {
			return &token
		}
	}
	switch val {
	case "":
		return nil
	case "auto":
		s := "#000000"
		return &s
	default:
		s := "#" + strings.ToUpper(val)
		return &s
	}
}

// colorToXML splits a JSON color back into (val, themeColor) attributes.
// ok is false when the value is neither a theme token nor RRGGBB hex.
func colorToXML(color string) (val, theme string, ok bool) {
	if xmlVal, found := themeColorToXML[color]; found {
		return "", xmlVal, true
	}
	hex := strings.TrimPrefix(strings.ToUpper(color), "#")
	if len(hex) != 6 {
		return "", "", false
	}
	for _, c := range hex {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return "", "", false
		}
	}
	return hex, "", true
}
