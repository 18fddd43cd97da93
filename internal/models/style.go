package models

// Style selects the summary's shape. The set is closed: unknown input is
// clamped to StyleStandard at the boundary instead of propagating an open
// string through the pipeline.
type Style string

const (
	StyleStandard  Style = "standard"
	StyleQuick     Style = "quick"
	StyleDetailed  Style = "detailed"
	StyleDecisions Style = "decisions"
	StyleQuestions Style = "questions"
)

// Styles lists every supported style.
func Styles() []Style {
	return []Style{StyleStandard, StyleQuick, StyleDetailed, StyleDecisions, StyleQuestions}
}

// ParseStyle maps user input onto a Style, defaulting to StyleStandard for
// anything unrecognized.
func ParseStyle(s string) Style {
	switch Style(s) {
	case StyleQuick, StyleDetailed, StyleDecisions, StyleQuestions:
		return Style(s)
	default:
		return StyleStandard
	}
}

// Valid reports whether s is one of the five known styles.
func (s Style) Valid() bool {
	switch s {
	case StyleStandard, StyleQuick, StyleDetailed, StyleDecisions, StyleQuestions:
		return true
	}
	return false
}
