package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoMillis is the output format for every timestamp the pipeline emits.
const isoMillis = "2006-01-02T15:04:05.000Z"

var (
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	dateNoise   = regexp.MustCompile(`(?i)\b(Apply Now|Report Ad|Share|Save)\b`)
	numericDate = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})\b`)
	dayMonYear  = regexp.MustCompile(`\b(\d{1,2})\s+([A-Za-z]{3,})\s+(\d{4})\b`)
	monDayYear  = regexp.MustCompile(`\b([A-Za-z]{3,})\s+(\d{1,2}),\s*(\d{4})\b`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatISO renders a timestamp in the pipeline's canonical UTC form.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// CoerceISODate turns a free-form posted-at string into the canonical ISO
// form. Markup and board chrome ("Apply Now") are stripped first; the
// numeric form is read day-first. An unparsable string resolves to now:
// a posting we just scraped is at worst fresh.
func CoerceISODate(raw string, now time.Time) string {
	s := tagPattern.ReplaceAllString(raw, " ")
	s = dateNoise.ReplaceAllString(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return FormatISO(now)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatISO(t)
		}
	}

	if m := numericDate.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mon, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if y < 100 {
			y += 2000
		}
		if t, ok := makeDate(y, time.Month(mon), d); ok {
			return FormatISO(t)
		}
	}
	if m := dayMonYear.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[3])
		if mon, ok := monthIndex[strings.ToLower(m[2][:3])]; ok {
			if t, ok := makeDate(y, mon, d); ok {
				return FormatISO(t)
			}
		}
	}
	if m := monDayYear.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if mon, ok := monthIndex[strings.ToLower(m[1][:3])]; ok {
			if t, ok := makeDate(y, mon, d); ok {
				return FormatISO(t)
			}
		}
	}

	return FormatISO(now)
}

// makeDate builds midnight UTC for a calendar date, rejecting rollovers
// like 31/02.
func makeDate(y int, m time.Month, d int) (time.Time, bool) {
	if m < time.January || m > time.December || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != m {
		return time.Time{}, false
	}
	return t, true
}
