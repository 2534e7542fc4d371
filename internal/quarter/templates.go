package quarter

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// CivilInstant is a point in a calendar year without the year itself.
type CivilInstant struct {
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

func (c CivilInstant) String() string {
	return fmt.Sprintf("%02d-%02d %02d:%02d:%02d", int(c.Month), c.Day, c.Hour, c.Minute, c.Second)
}

// In binds the civil instant to a year in zone. Tuples that do not exist
// in the zone (a DST gap, Feb 30) are rejected instead of normalized. Real
// zones do skip quarter-start midnights (America/Asuncion 2023-10-01, for
// one), so callers must expect ErrTagInvalidCivilTime from the fixed
// templates too.
func (c CivilInstant) In(year int, zone *time.Location) (time.Time, error) {
	t := time.Date(year, c.Month, c.Day, c.Hour, c.Minute, c.Second, 0, zone)
	y, m, d := t.Date()
	if y != year || m != c.Month || d != c.Day || t.Hour() != c.Hour || t.Minute() != c.Minute || t.Second() != c.Second {
		return time.Time{}, goerr.New("civil time does not exist in zone",
			goerr.T(ErrTagInvalidCivilTime),
			goerr.V("year", year),
			goerr.V("civil", c.String()),
			goerr.V("zone", zone.String()),
		)
	}
	return t, nil
}

// Template is a quarter without a year.
type Template struct {
	Number int
	Start  CivilInstant
	End    CivilInstant
}

// Bind resolves the template to concrete instants of year in zone.
func (tpl Template) Bind(year int, zone *time.Location) (Quarter, error) {
	start, err := tpl.Start.In(year, zone)
	if err != nil {
		return Quarter{}, goerr.Wrap(err, "failed to resolve quarter start", goerr.T(ErrTagInvalidCivilTime), goerr.V("quarter", tpl.Number))
	}
	end, err := tpl.End.In(year, zone)
	if err != nil {
		return Quarter{}, goerr.Wrap(err, "failed to resolve quarter end", goerr.T(ErrTagInvalidCivilTime), goerr.V("quarter", tpl.Number))
	}
	next, nextYear := tpl.following(year)
	endExclusive, err := next.Start.In(nextYear, zone)
	if err != nil {
		// The next start is skipped in zone; the quarter runs up to the first
		// instant after End.
		endExclusive = end.Add(time.Second)
	}
	return Quarter{Number: tpl.Number, Year: year, Start: start, End: end, endExclusive: endExclusive}, nil
}

func (tpl Template) following(year int) (Template, int) {
	if tpl.Number >= len(Templates) {
		return Templates[0], year + 1
	}
	return Templates[tpl.Number], year
}

func (tpl Template) preceding(year int) (Template, int) {
	if tpl.Number <= 1 {
		return Templates[len(Templates)-1], year - 1
	}
	return Templates[tpl.Number-2], year
}

// Templates lists the calendar quarters in order.
// See https://en.wikipedia.org/wiki/Calendar_year#Quarters
var Templates = [4]Template{
	{
		Number: 1,
		Start:  CivilInstant{Month: time.January, Day: 1},
		End:    CivilInstant{Month: time.March, Day: 31, Hour: 23, Minute: 59, Second: 59},
	},
	{
		Number: 2,
		Start:  CivilInstant{Month: time.April, Day: 1},
		End:    CivilInstant{Month: time.June, Day: 30, Hour: 23, Minute: 59, Second: 59},
	},
	{
		Number: 3,
		Start:  CivilInstant{Month: time.July, Day: 1},
		End:    CivilInstant{Month: time.September, Day: 30, Hour: 23, Minute: 59, Second: 59},
	},
	{
		Number: 4,
		Start:  CivilInstant{Month: time.October, Day: 1},
		End:    CivilInstant{Month: time.December, Day: 31, Hour: 23, Minute: 59, Second: 59},
	},
}
