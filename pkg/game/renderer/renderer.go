package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// dynamicGet looks up translation keys that only exist at runtime (from markup).
var dynamicGet = gotext.Get

// Styler turns text into its styled form for one backend
type Styler func(text string, style TextStyle) string

// PlainStyle leaves text unstyled
func PlainStyle(text string, _ TextStyle) string {
	return text
}

// maxMarkupDepth bounds nested expansion
const maxMarkupDepth = 4

var regexpStringFunctions = regexp.MustCompile(`([A-Z]+)\{([^{}]+)\}`)

// FormatString formats a string and expands markup functions:
//
//	GT{KEY}       translated message
//	ROOM{name}    room name
//	DOOR{label}   door label
//	LOCKED{label} locked door label
//	ACTION{key}   key hint, first letter emphasised
//	DENIED{text}  refusal
//	ANOMALY{text} anomaly callout
//	STAGE{n}      stage number
//	END{text}     endgame callout
//
// Unknown functions are left as written. Functions may nest.
func FormatString(style Styler, msg string, a ...any) string {
	ret := msg
	if len(a) > 0 {
		ret = fmt.Sprintf(msg, a...)
	}

	// Innermost functions expand first, so GT{} may sit inside a style.
	for pass := 0; pass < maxMarkupDepth; pass++ {
		expanded := false
		for _, match := range regexpStringFunctions.FindAllStringSubmatch(ret, -1) {
			val, ok := expand(style, match[1], match[2])
			if !ok {
				continue
			}
			ret = strings.Replace(ret, match[0], val, 1)
			expanded = true
		}
		if !expanded {
			break
		}
	}

	return ret
}

func expand(style Styler, function, operand string) (string, bool) {
	switch function {
	case "GT":
		return dynamicGet(operand), true
	case "ROOM":
		return style(operand, StyleRoom), true
	case "DOOR":
		return style(operand, StyleDoor), true
	case "LOCKED":
		return style(operand, StyleDoorLocked), true
	case "ACTION":
		return style(operand[0:1], StyleActionShort) + style(operand[1:], StyleAction), true
	case "DENIED":
		return style(operand, StyleDenied), true
	case "ANOMALY":
		return style(operand, StyleAnomaly), true
	case "STAGE":
		return style(operand, StyleStage), true
	case "END":
		return style(operand, StyleEndgame), true
	}
	return "", false
}
