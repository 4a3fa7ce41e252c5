package enums

import "strings"

type Sex string

const (
	SexMale        Sex = "male"
	SexFemale      Sex = "female"
	SexUnspecified Sex = "unspecified"
)

// ParseSex normalizes a raw label. Empty input falls back to the
// unspecified default; unknown labels are rejected.
func ParseSex(raw string) (Sex, bool) {
	switch Sex(strings.ToLower(strings.TrimSpace(raw))) {
	case SexMale:
		return SexMale, true
	case SexFemale:
		return SexFemale, true
	case SexUnspecified, "":
		return SexUnspecified, true
	default:
		return "", false
	}
}
