package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Style selects how Fprint renders an error.
type Style string

const (
	// StyleText is the multi-line terminal layout with hint.
	StyleText Style = "text"
	// StyleCompact is a single "CODE: message" line.
	StyleCompact Style = "compact"
	// StyleJSON is one JSON object per error.
	StyleJSON Style = "json"
)

// ParseStyle returns the Style named by s. An empty name selects StyleText.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case "", StyleText:
		return StyleText, nil
	case StyleCompact:
		return StyleCompact, nil
	case StyleJSON:
		return StyleJSON, nil
	}
	return StyleText, New("E163").WithDetailf("%q is not one of text, compact, json", s)
}

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
	ansiBold  = "\033[1m"
)

// palette applies ANSI escapes only when enabled.
type palette bool

func (p palette) paint(text string, codes ...string) string {
	if !p || text == "" {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// Format renders e for a terminal. ANSI colors are used when color is set.
func (e *VisteError) Format(color bool) string {
	p := palette(color)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(p.paint("ERROR", ansiRed, ansiBold))
	if e.Code != "" {
		b.WriteString(" " + p.paint(e.Code+":", ansiBold))
	} else {
		b.WriteString(p.paint(":", ansiRed, ansiBold))
	}
	b.WriteString(" " + e.Message + "\n\n")

	for _, line := range wrapText(e.Detail, 70) {
		b.WriteString("  " + line + "\n")
	}
	if e.Wrapped != nil {
		b.WriteString("  caused by: " + e.Wrapped.Error() + "\n")
	}
	if e.Detail != "" || e.Wrapped != nil {
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", p.paint("Hint:", ansiCyan), e.Suggestion)
	}
	return b.String()
}

// FormatCompact renders e as "CODE: message".
func (e *VisteError) FormatCompact() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      string   `json:"cause,omitempty"`
}

// FormatJSON renders e as a single JSON object.
func (e *VisteError) FormatJSON() string {
	v := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		v.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(v)
	if err != nil {
		// Every field is a string.
		panic(err)
	}
	return string(data)
}

// Fprint writes err to w in the given style. Errors that are not a
// VisteError are printed under their plain message.
func Fprint(w io.Writer, err error, style Style, color bool) {
	if err == nil {
		return
	}
	var ve *VisteError
	if !errors.As(err, &ve) {
		ve = &VisteError{Message: err.Error()}
	}
	switch style {
	case StyleCompact:
		fmt.Fprintln(w, ve.FormatCompact())
	case StyleJSON:
		fmt.Fprintln(w, ve.FormatJSON())
	default:
		fmt.Fprint(w, ve.Format(color))
	}
}

// wrapText breaks text into lines of at most width bytes at word
// boundaries. A single word longer than width gets its own line.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
