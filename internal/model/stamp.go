package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reSortKey = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})[ T]?(\d{2})(\d{2})|^(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2})`)
	reStamp   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2})(?::\d{2})?(?:([+-]\d{2}:\d{2}|Z).*)?$`)
	reOffset  = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)
)

// Stamp is a dashed timestamp split into its parts. OffsetMin is the UTC
// offset written in the value, 0 when absent.
type Stamp struct {
	Year, Month, Day, Hour, Minute string
	OffsetMin                      int
}

// ParseStamp reads `YYYY-MM-DD HH:mm[:ss][±hh:mm|Z...]`.
func ParseStamp(s string) (Stamp, bool) {
	m := reStamp.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Stamp{}, false
	}
	return Stamp{Year: m[1], Month: m[2], Day: m[3], Hour: m[4], Minute: m[5], OffsetMin: offsetMinutes(m[6])}, true
}

func offsetMinutes(tz string) int {
	if tz == "" || tz == "Z" {
		return 0
	}
	m := reOffset.FindStringSubmatch(tz)
	if m == nil {
		return 0
	}
	hh, _ := strconv.Atoi(m[2])
	mm, _ := strconv.Atoi(m[3])
	n := hh*60 + mm
	if m[1] == "-" {
		n = -n
	}
	return n
}

// Display renders the stamp as dd/mm/yy HH:MM.
func (s Stamp) Display() string {
	return s.Day + "/" + s.Month + "/" + s.Year[len(s.Year)-2:] + " " + s.Hour + ":" + s.Minute
}

// DisplayStamp renders a timestamp cell; unparseable values render empty.
func DisplayStamp(v string) string {
	st, ok := ParseStamp(v)
	if !ok {
		return ""
	}
	return st.Display()
}

// SortKey normalises the compact (YYYYMMDDHHmm) and dashed layouts to the
// compact form. Other values are returned trimmed.
func SortKey(s string) string {
	s = strings.TrimSpace(s)
	m := reSortKey.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	if m[1] != "" {
		return m[1] + m[2] + m[3] + m[4] + m[5]
	}
	return m[6] + m[7] + m[8] + m[9] + m[10]
}

type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightToday
	HighlightYesterday
)

// HighlightFor compares the stamp's date with today and yesterday, both taken
// in the stamp's own offset.
func HighlightFor(v string, now time.Time) Highlight {
	st, ok := ParseStamp(v)
	if !ok {
		return HighlightNone
	}
	zone := time.FixedZone("", st.OffsetMin*60)
	ymd := st.Year + "-" + st.Month + "-" + st.Day
	local := now.In(zone)
	switch ymd {
	case local.Format("2006-01-02"):
		return HighlightToday
	case local.AddDate(0, 0, -1).Format("2006-01-02"):
		return HighlightYesterday
	}
	return HighlightNone
}
