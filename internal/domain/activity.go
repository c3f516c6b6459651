package domain

import (
	"fmt"
	"strings"
)

// ActivityKind is the category of a check-in. The set is closed: request binding,
// storage and plan statistics all go through this type.
type ActivityKind string

const (
	ActivityStrength     ActivityKind = "strength" // "Musculación", the only kind that counts towards a plan
	ActivityIntermittent ActivityKind = "intermittent"
	ActivityOther        ActivityKind = "other"
)

// ActivityKinds lists every kind in display order.
var ActivityKinds = []ActivityKind{ActivityStrength, ActivityIntermittent, ActivityOther}

// Valid reports whether k is one of the known kinds.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityStrength, ActivityIntermittent, ActivityOther:
		return true
	}
	return false
}

// Label returns the name shown to front-desk staff and in reports.
func (k ActivityKind) Label() string {
	switch k {
	case ActivityStrength:
		return "Musculación"
	case ActivityIntermittent:
		return "Intermittent"
	case ActivityOther:
		return "Other"
	}
	return string(k)
}

// ParseActivityKind accepts the stored value case-insensitively.
func ParseActivityKind(s string) (ActivityKind, error) {
	k := ActivityKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown activity kind %q", s)
	}
	return k, nil
}
