package tracker

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRosterSkipsHeaderAndComments(t *testing.T) {
	in := strings.Join([]string{
		"serial;name",
		"LHR-AAA;left foot",
		"# a comment line;ignored",
		"LHR-#BBB;also ignored",
		"LHR-CCC;hip",
	}, "\n")

	declared, err := ParseRoster(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(declared) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(declared), declared)
	}
	if declared["LHR-AAA"] != "left foot" || declared["LHR-CCC"] != "hip" {
		t.Fatalf("unexpected entries: %v", declared)
	}
}

func TestParseRosterHeaderAlwaysDropped(t *testing.T) {
	// Even a header that looks like a valid entry must not be loaded.
	declared, err := ParseRoster(strings.NewReader("LHR-HDR;header\nLHR-AAA;a\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, ok := declared["LHR-HDR"]; ok {
		t.Fatalf("header line leaked into declared set: %v", declared)
	}
}

func TestParseRosterIgnoresTrailingFieldsAndShortLines(t *testing.T) {
	in := "serial;name\nLHR-AAA;a;extra;fields\nLHR-BBB\n;unnamed\n"
	declared, err := ParseRoster(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(declared) != 1 || declared["LHR-AAA"] != "a" {
		t.Fatalf("unexpected entries: %v", declared)
	}
}

func TestParseRosterDuplicateKeepsFirst(t *testing.T) {
	in := "serial;name\nLHR-AAA;first\nLHR-AAA;second\n"
	declared, err := ParseRoster(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if declared["LHR-AAA"] != "first" {
		t.Fatalf("expected first entry to win, got %q", declared["LHR-AAA"])
	}
}

func TestLoadRosterFileMissing(t *testing.T) {
	declared, err := LoadRosterFile("does-not-exist.csv")
	if !errors.Is(err, ErrRosterUnreadable) {
		t.Fatalf("expected ErrRosterUnreadable, got %v", err)
	}
	if len(declared) != 0 {
		t.Fatalf("expected empty declared set, got %v", declared)
	}
}
