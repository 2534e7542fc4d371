// Package quarter resolves calendar quarters for a year in a timezone and
// locates the quarter an instant falls in. Quarter boundaries are local civil
// time, so the same instant may sit in different quarters in different zones.
package quarter

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/m-mizutani/goerr/v2"
)

// Quarter is a template bound to a year and zone. End is the last second of
// the quarter as written in the template; the quarter covers
// [Start, EndExclusive()).
type Quarter struct {
	Number int
	Year   int
	Start  time.Time
	End    time.Time

	endExclusive time.Time
}

// EndExclusive is the start of the following quarter in the same zone. It
// differs from End+1s when a DST transition lands on local midnight at the
// boundary. Quarters built by hand fall back to End+1s.
func (q Quarter) EndExclusive() time.Time {
	if q.endExclusive.IsZero() {
		return q.End.Add(time.Second)
	}
	return q.endExclusive
}

// Duration is the length of [Start, EndExclusive()).
func (q Quarter) Duration() time.Duration {
	return q.EndExclusive().Sub(q.Start)
}

// Contains reports whether instant lies in [Start, EndExclusive()).
func (q Quarter) Contains(instant time.Time) bool {
	return !instant.Before(q.Start) && instant.Before(q.EndExclusive())
}

// Location is the zone the quarter was bound in.
func (q Quarter) Location() *time.Location {
	return q.Start.Location()
}

// String renders the quarter as "Q{n} {year}".
func (q Quarter) String() string {
	return fmt.Sprintf("Q%d %d", q.Number, q.Year)
}

// Next binds the following quarter, rolling Q4 into Q1 of the next year.
func (q Quarter) Next() (Quarter, error) {
	tpl, year := Templates[q.Number-1].following(q.Year)
	return tpl.Bind(year, q.Location())
}

// Previous binds the preceding quarter, rolling Q1 back into Q4 of the
// previous year.
func (q Quarter) Previous() (Quarter, error) {
	tpl, year := Templates[q.Number-1].preceding(q.Year)
	return tpl.Bind(year, q.Location())
}

// LoadZone parses an IANA zone name. The empty name and "Local" are not
// zone names and are rejected.
func LoadZone(name string) (*time.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == "Local" {
		return nil, goerr.New("unknown timezone", goerr.T(ErrTagInvalidTimezone), goerr.V("timezone", name))
	}
	zone, err := time.LoadLocation(trimmed)
	if err != nil {
		return nil, goerr.Wrap(err, "unknown timezone", goerr.T(ErrTagInvalidTimezone), goerr.V("timezone", name))
	}
	return zone, nil
}

// Resolve binds the four quarter templates to year in zone.
func Resolve(year int, zone *time.Location) ([4]Quarter, error) {
	var quarters [4]Quarter
	for i, tpl := range Templates {
		q, err := tpl.Bind(year, zone)
		if err != nil {
			return [4]Quarter{}, err
		}
		quarters[i] = q
	}
	return quarters, nil
}

// ResolveNamed is Resolve with the zone given by IANA name.
func ResolveNamed(year int, zoneName string) ([4]Quarter, error) {
	zone, err := LoadZone(zoneName)
	if err != nil {
		return [4]Quarter{}, err
	}
	return Resolve(year, zone)
}

// FindContaining returns the quarter of instant's local year in zone that
// contains instant.
func FindContaining(instant time.Time, zone *time.Location) (Current, error) {
	local := instant.In(zone)
	quarters, err := Resolve(local.Year(), zone)
	if err != nil {
		return Current{}, err
	}
	for _, q := range quarters {
		if q.Contains(local) {
			return Current{Quarter: q, Reference: local}, nil
		}
	}

	// A transition at local midnight on New Year can leave the local year
	// one off from the quarter that holds instant.
	var neighbour Quarter
	if local.Before(quarters[0].Start) {
		neighbour, err = quarters[0].Previous()
	} else {
		neighbour, err = quarters[3].Next()
	}
	if err != nil {
		return Current{}, err
	}
	if neighbour.Contains(local) {
		return Current{Quarter: neighbour, Reference: local}, nil
	}
	return Current{}, goerr.New("no quarter contains instant",
		goerr.T(ErrTagNotFound),
		goerr.V("instant", instant.Format(time.RFC3339)),
		goerr.V("zone", zone.String()),
	)
}

// Current is the quarter containing a reference instant.
type Current struct {
	Quarter   Quarter
	Reference time.Time
}

// SinceStart is the time elapsed from the quarter start to the reference.
func (c Current) SinceStart() time.Duration {
	return c.Reference.Sub(c.Quarter.Start)
}

// UntilEnd is the time left until the next quarter starts.
func (c Current) UntilEnd() time.Duration {
	return c.Quarter.EndExclusive().Sub(c.Reference)
}

// Percentage is the share of the quarter elapsed, counted in whole seconds.
// It is not clamped: a Current built by hand around an instant outside the
// quarter yields values outside [0, 100).
func (c Current) Percentage() float64 {
	elapsed := wholeSeconds(c.SinceStart())
	total := wholeSeconds(c.Quarter.Duration())
	return 100 * float64(elapsed) / float64(total)
}

// Name is the display name of the quarter, e.g. "Q2 2024".
func (c Current) Name() string {
	return c.Quarter.String()
}

func wholeSeconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
