package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	got := Template()
	for _, want := range []string{"{{.Name}}", Version, Commit, Date} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "simasm/"+Version {
		t.Errorf("UserAgent() = %q, want %q", got, "simasm/"+Version)
	}
}

func TestResolveKeepsStampedValues(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v9.9.9"
	Resolve()
	if Version != "v9.9.9" {
		t.Errorf("Version = %q, want stamped v9.9.9", Version)
	}
}
