package dialect

import (
	"fmt"
	"strings"
)

// Style is the bind-variable syntax a driver expects in SQL text.
type Style int

const (
	// StyleNone renders the field name itself; the driver takes no bind variables.
	StyleNone Style = iota
	// StyleQMark renders "?".
	StyleQMark
	// StyleNamed renders ":field".
	StyleNamed
	// StyleFormat renders "%s".
	StyleFormat
	// StyleDollar renders "$1", "$2", ...
	StyleDollar
	// StyleAt renders "@p1", "@p2", ...
	StyleAt
)

var styleNames = map[Style]string{
	StyleNone:   "none",
	StyleQMark:  "qmark",
	StyleNamed:  "named",
	StyleFormat: "format",
	StyleDollar: "dollar",
	StyleAt:     "at",
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Named reports whether values must be bound by name rather than by position.
func (s Style) Named() bool { return s == StyleNamed }

// Token renders the placeholder for a field at a 0-based position.
func (s Style) Token(field string, index int) string {
	switch s {
	case StyleQMark:
		return "?"
	case StyleNamed:
		return ":" + field
	case StyleFormat:
		return "%s"
	case StyleDollar:
		return fmt.Sprintf("$%d", index+1)
	case StyleAt:
		return fmt.Sprintf("@p%d", index+1)
	default:
		return field
	}
}

// GeneratePlaceholders renders one token per field starting at position
// offset and joins them with sep.
func GeneratePlaceholders(s Style, fields []string, offset int, sep string) string {
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = s.Token(f, offset+i)
	}
	return strings.Join(tokens, sep)
}

// ProcCall is the statement shape used to invoke a stored procedure.
type ProcCall int

const (
	// CallStatement renders "CALL name(args)".
	CallStatement ProcCall = iota
	// ExecStatement renders "EXEC name args".
	ExecStatement
	// BlockStatement renders "BEGIN name(args); END;".
	BlockStatement
)

// Render builds the call text for a procedure and its argument tokens.
func (p ProcCall) Render(name string, tokens []string) string {
	args := strings.Join(tokens, ",")
	switch p {
	case ExecStatement:
		if len(tokens) == 0 {
			return "EXEC " + name
		}
		return "EXEC " + name + " " + args
	case BlockStatement:
		if len(tokens) == 0 {
			return "BEGIN " + name + "; END;"
		}
		return fmt.Sprintf("BEGIN %s(%s); END;", name, args)
	default:
		return fmt.Sprintf("CALL %s(%s)", name, args)
	}
}

// ReturnsRows reports whether the call statement can produce a result set.
func (p ProcCall) ReturnsRows() bool { return p != BlockStatement }
