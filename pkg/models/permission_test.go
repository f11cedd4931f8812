package models

import "testing"

func TestPermissionLevelsStrictlyIncreasing(t *testing.T) {
	for i := 1; i < len(Permissions); i++ {
		lo, hi := Permissions[i-1], Permissions[i]
		if lo.Level() >= hi.Level() {
			t.Errorf("expected %s (%d) < %s (%d)", lo, lo.Level(), hi, hi.Level())
		}
	}
}

func TestPermissionLevelMapping(t *testing.T) {
	cases := []struct {
		perm  Permission
		level int
	}{
		{PermNormal, 1},
		{PermConfidential, 2},
		{PermTopSecret, 3},
		{PermSpecial, 4},
		{Permission("ultra"), 0},
		{Permission(""), 0},
	}
	for _, tc := range cases {
		if got := tc.perm.Level(); got != tc.level {
			t.Errorf("Level(%q) = %d, want %d", tc.perm, got, tc.level)
		}
	}
}

func TestPermissionValid(t *testing.T) {
	for _, p := range Permissions {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if Permission("root").Valid() {
		t.Error("unknown permission should not be valid")
	}
}

func TestPermissionDisplayText(t *testing.T) {
	if got := PermTopSecret.DisplayText(); got != "Top Secret" {
		t.Errorf("DisplayText(top_secret) = %q", got)
	}
	// Unknown values pass through unchanged.
	if got := Permission("weird").DisplayText(); got != "weird" {
		t.Errorf("DisplayText(weird) = %q", got)
	}
}
