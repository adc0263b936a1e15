package daylog

import (
	"bytes"
	"errors"
	"slices"
)

const (
	// SeverityInfo marks routine informational entries.
	SeverityInfo Severity = iota

	// SeverityWarning marks unexpected conditions that do not prevent normal operation.
	SeverityWarning

	// SeverityCritical marks conditions that require immediate attention.
	SeverityCritical

	// SeverityError marks failed operations.
	SeverityError

	// SeverityException marks unexpected failures, typically reported together with their cause.
	SeverityException
)

const undefinedTag = "UNDEFINED |\t"

var severities = []severityDesc{
	{"info", "[INFO] |\t"},
	{"warning", "[WARNING] |\t"},
	{"critical", "[CRITICAL] |\t"},
	{"error", "[ERROR] |\t"},
	{"exception", "[EXCEPTION] |\t"},
}

type severityDesc struct {
	text string
	tag  string
}

// Severity classifies the importance of a log entry.
type Severity int8

// Tag returns the marker written in front of an entry's message.
// Values outside of the known severities are tagged as undefined.
func (s Severity) Tag() string {
	if !s.valid() {
		return undefinedTag
	}
	return severities[s].tag
}

func (s Severity) String() string {
	text, err := s.MarshalText()
	if err != nil {
		return ""
	}
	return string(text)
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, errors.New("unknown severity")
	}
	return []byte(severities[s].text), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	textStr := string(bytes.ToLower(text))
	i := slices.IndexFunc(severities, func(d severityDesc) bool {
		return d.text == textStr
	})
	if i == -1 {
		return errors.New("unknown severity")
	}

	*s = Severity(i)
	return nil
}

func (s Severity) valid() bool {
	return s >= SeverityInfo && s <= SeverityException
}
