// Package dates parses the order date formats found in marketplace exports.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/lucroreal-backend/pkg/tabular"
)

// MonthLayout is the yyyy-MM bucket key used by the monthly series.
const MonthLayout = "2006-01"

// DayLayout is the ISO calendar day.
const DayLayout = "2006-01-02"

var months = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

var (
	longForm = regexp.MustCompile(`^(\d{1,2}) de ([a-z]+) de (\d{4})(?:\s+(\d{1,2}):(\d{2}))?`)
	slashed  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)
	serial   = regexp.MustCompile(`^\d{5}(?:[.,]\d+)?$`)
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse reads an order date in any known format. Times are returned in UTC
// without zone conversion, so the calendar day of the export is kept.
func Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if m := slashed.FindStringSubmatch(s); m != nil {
		return build(m[3], m[2], m[1], m[4], m[5], m[6])
	}

	if m := longForm.FindStringSubmatch(tabular.Fold(s)); m != nil {
		month, ok := months[m[2]]
		if !ok {
			return time.Time{}, false
		}
		return build(m[3], strconv.Itoa(int(month)), m[1], m[4], m[5], "")
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}

	if serial.MatchString(s) {
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}

	return time.Time{}, false
}

// MonthKey returns the yyyy-MM bucket of raw, or false when it does not parse.
func MonthKey(raw string) (string, bool) {
	t, ok := Parse(raw)
	if !ok {
		return "", false
	}
	return t.Format(MonthLayout), true
}

func build(year, month, day, hour, minute, second string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	h := atoiOrZero(hour)
	mi := atoiOrZero(minute)
	sec := atoiOrZero(second)

	if mo < 1 || mo > 12 || d < 1 || h > 23 || mi > 59 || sec > 59 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, h, mi, sec, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
