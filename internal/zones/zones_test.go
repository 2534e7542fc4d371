package zones

import (
	"sort"
	"testing"
	"time"

	"quarters/internal/quarter"

	"github.com/m-mizutani/goerr/v2"
)

func TestNamesAreSelectableAndSorted(t *testing.T) {
	list := Names()
	if len(list) == 0 {
		t.Fatalf("expected zones")
	}
	if !sort.StringsAreSorted(list) {
		t.Fatalf("expected sorted zones")
	}
	for _, name := range list {
		if !Selectable(name) {
			t.Fatalf("unexpected zone %q", name)
		}
	}
	list[0] = "mutated"
	if Names()[0] == "mutated" {
		t.Fatalf("Names must return a copy")
	}
}

func TestSelectable(t *testing.T) {
	cases := map[string]bool{
		"Europe/Paris":                   true,
		"America/Argentina/Buenos_Aires": true,
		"UTC":                            false,
		"EST":                            false,
		"Etc/GMT+5":                      false,
		"posixrules":                     false,
	}
	for name, expect := range cases {
		if got := Selectable(name); got != expect {
			t.Fatalf("Selectable(%q)=%v, want %v", name, got, expect)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := normalize([]string{"Europe/Paris", "UTC", "Europe/Paris", "Etc/UTC", "Asia/Tokyo", "Nowhere/Atlantis"})
	if len(got) != 2 || got[0] != "Asia/Tokyo" || got[1] != "Europe/Paris" {
		t.Fatalf("unexpected normalize result %v", got)
	}
}

func TestBuiltinZonesLoad(t *testing.T) {
	for _, name := range builtin {
		if _, err := time.LoadLocation(name); err != nil {
			t.Fatalf("builtin zone %q: %v", name, err)
		}
	}
}

func TestParseOrDefault(t *testing.T) {
	zone, name, err := ParseOrDefault("Europe/Paris", Default)
	if err != nil || name != "Europe/Paris" || zone.String() != "Europe/Paris" {
		t.Fatalf("expected Europe/Paris, got %v %q %v", zone, name, err)
	}

	zone, name, err = ParseOrDefault("Mars/Base", "Asia/Tokyo")
	if err == nil || !goerr.HasTag(err, quarter.ErrTagInvalidTimezone) {
		t.Fatalf("expected invalid timezone error, got %v", err)
	}
	if name != "Asia/Tokyo" || zone.String() != "Asia/Tokyo" {
		t.Fatalf("expected fallback Asia/Tokyo, got %q", name)
	}

	zone, name, err = ParseOrDefault("", "also-bad")
	if err == nil || name != Default || zone != time.UTC {
		t.Fatalf("expected UTC fallback, got %v %q %v", zone, name, err)
	}
}
