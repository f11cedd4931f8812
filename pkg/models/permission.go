package models

// Permission is one of the four classification levels, totally ordered
// low to high: normal < confidential < top_secret < special.
type Permission string

const (
	PermNormal       Permission = "normal"
	PermConfidential Permission = "confidential"
	PermTopSecret    Permission = "top_secret"
	PermSpecial      Permission = "special"
)

// Permissions lists all valid levels from lowest to highest.
var Permissions = []Permission{PermNormal, PermConfidential, PermTopSecret, PermSpecial}

var permLevels = map[Permission]int{
	PermNormal:       1,
	PermConfidential: 2,
	PermTopSecret:    3,
	PermSpecial:      4,
}

var permLabels = map[Permission]string{
	PermNormal:       "Normal",
	PermConfidential: "Confidential",
	PermTopSecret:    "Top Secret",
	PermSpecial:      "Special",
}

// Level returns the numeric rank of the permission.
// Unknown values rank 0, below every real level.
func (p Permission) Level() int {
	return permLevels[p]
}

// Valid reports whether p is one of the four known levels.
func (p Permission) Valid() bool {
	_, ok := permLevels[p]
	return ok
}

// DisplayText returns the human-readable label for the permission.
// Unknown values are returned verbatim.
func (p Permission) DisplayText() string {
	if label, ok := permLabels[p]; ok {
		return label
	}
	return string(p)
}
