// Package zones lists the IANA timezones offered to users and parses the
// zone a user picked.
package zones

import (
	"archive/zip"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"quarters/internal/quarter"
)

const Default = "UTC"

var (
	namesOnce sync.Once
	names     []string
)

// Names returns the sorted region zones, e.g. "Europe/Paris". Aliases under
// Etc/ and bare names such as "EST" are left out; UTC is offered separately
// as the default.
func Names() []string {
	namesOnce.Do(func() {
		names = discover()
	})
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func Parse(name string) (*time.Location, error) {
	return quarter.LoadZone(name)
}

// ParseOrDefault parses name and falls back to def when it is not a known
// zone. The parse error is still returned so the caller can report it.
func ParseOrDefault(name, def string) (*time.Location, string, error) {
	zone, err := quarter.LoadZone(name)
	if err == nil {
		return zone, strings.TrimSpace(name), nil
	}
	fallback, defErr := quarter.LoadZone(def)
	if defErr != nil {
		return time.UTC, Default, err
	}
	return fallback, def, err
}

func Selectable(name string) bool {
	if !strings.Contains(name, "/") || strings.HasPrefix(name, "Etc/") {
		return false
	}
	first := name[0]
	return first >= 'A' && first <= 'Z'
}

func discover() []string {
	var found []string
	for _, dir := range zoneDirs() {
		found = fromDir(dir)
		if len(found) > 0 {
			break
		}
	}
	if len(found) == 0 {
		found = fromZip(filepath.Join(runtime.GOROOT(), "lib", "time", "zoneinfo.zip"))
	}
	if len(found) == 0 {
		found = append(found, builtin...)
	}
	return normalize(found)
}

func zoneDirs() []string {
	dirs := make([]string, 0, 4)
	if env := os.Getenv("ZONEINFO"); env != "" {
		dirs = append(dirs, env)
	}
	return append(dirs, "/usr/share/zoneinfo", "/usr/share/lib/zoneinfo", "/usr/lib/locale/TZ")
}

func fromDir(dir string) []string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	var found []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "posix" || rel == "right" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.Contains(filepath.Base(rel), ".") {
			return nil
		}
		found = append(found, rel)
		return nil
	})
	return found
}

func fromZip(path string) []string {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil
	}
	defer r.Close()
	found := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		found = append(found, f.Name)
	}
	return found
}

func normalize(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if !Selectable(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		if _, err := time.LoadLocation(name); err != nil {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var builtin = []string{
	"Africa/Cairo",
	"Africa/Johannesburg",
	"Africa/Lagos",
	"Africa/Nairobi",
	"America/Anchorage",
	"America/Argentina/Buenos_Aires",
	"America/Bogota",
	"America/Chicago",
	"America/Denver",
	"America/Halifax",
	"America/Los_Angeles",
	"America/Mexico_City",
	"America/New_York",
	"America/Sao_Paulo",
	"America/St_Johns",
	"America/Toronto",
	"Asia/Bangkok",
	"Asia/Dhaka",
	"Asia/Dubai",
	"Asia/Hong_Kong",
	"Asia/Jakarta",
	"Asia/Kathmandu",
	"Asia/Kolkata",
	"Asia/Seoul",
	"Asia/Shanghai",
	"Asia/Singapore",
	"Asia/Tehran",
	"Asia/Tokyo",
	"Atlantic/Azores",
	"Atlantic/Reykjavik",
	"Australia/Adelaide",
	"Australia/Brisbane",
	"Australia/Lord_Howe",
	"Australia/Perth",
	"Australia/Sydney",
	"Europe/Amsterdam",
	"Europe/Berlin",
	"Europe/Istanbul",
	"Europe/Lisbon",
	"Europe/London",
	"Europe/Madrid",
	"Europe/Moscow",
	"Europe/Paris",
	"Europe/Rome",
	"Europe/Warsaw",
	"Pacific/Auckland",
	"Pacific/Chatham",
	"Pacific/Honolulu",
	"Pacific/Kiritimati",
	"Pacific/Pago_Pago",
}
