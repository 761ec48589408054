package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored_PlainWhenColorDisabled(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	if got := Colored(); got != Version {
		t.Errorf("Colored() = %q, want %q", got, Version)
	}
}

func TestColored_KeepsOverriddenVersion(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	Version = "1.2.3"
	color.NoColor = false
	got := Colored()
	if got == Version {
		t.Errorf("Colored() = %q, expected color escapes", got)
	}
	color.NoColor = true
	if got := Colored(); got != "1.2.3" {
		t.Errorf("Colored() = %q, want %q", got, "1.2.3")
	}
}
