package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	if got == "" {
		t.Fatal("String() should never be empty")
	}
	if !strings.HasPrefix(got, Version) {
		t.Errorf("String() = %q, want prefix %q", got, Version)
	}
}
