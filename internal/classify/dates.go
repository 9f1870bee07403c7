package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date-expression detection is a fixed pattern list, not a general parser.
// The predicate contract is "does this message point at a concrete day";
// resolution is best-effort and used to fill deadlines and event dates.

var (
	absoluteDateRx = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日`)
	isoDateRx      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	relativeJaRx   = regexp.MustCompile(`(\d+)(日後|週間後|ヶ月後|か月後)`)
	relativeEnRx   = regexp.MustCompile(`in (\d+) (day|week|month)s?`)
)

// relativeLiterals maps literal expressions to an offset in days.
var relativeLiterals = []struct {
	Literal string
	Days    int
}{
	{"明後日", 2}, // before 明日: substring order matters
	{"明日", 1},
	{"今週末", 5},
	{"来週", 7},
	{"来月", 30},
	{"tomorrow", 1},
	{"next week", 7},
	{"next month", 30},
	{"this weekend", 5},
}

// HasDateExpression reports whether the message contains a recognizable
// date expression.
func HasDateExpression(message string) bool {
	_, ok := ResolveDateExpression(message, time.Now())
	return ok
}

// ResolveDateExpression extracts the first date expression in the message
// and resolves it to a day relative to now. Absolute 月/日 dates resolve to
// the next occurrence (this year, or next year when already past).
func ResolveDateExpression(message string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(message)

	if m := isoDateRx.FindString(message); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t, true
		}
	}
	if m := absoluteDateRx.FindStringSubmatch(message); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			t := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
			if t.Before(now.Truncate(24 * time.Hour)) {
				t = t.AddDate(1, 0, 0)
			}
			return t, true
		}
	}
	for _, rel := range relativeLiterals {
		if strings.Contains(lower, rel.Literal) {
			return now.AddDate(0, 0, rel.Days), true
		}
	}
	if m := relativeJaRx.FindStringSubmatch(message); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "日後":
			return now.AddDate(0, 0, n), true
		case "週間後":
			return now.AddDate(0, 0, n*7), true
		default:
			return now.AddDate(0, n, 0), true
		}
	}
	if m := relativeEnRx.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "day":
			return now.AddDate(0, 0, n), true
		case "week":
			return now.AddDate(0, 0, n*7), true
		default:
			return now.AddDate(0, n, 0), true
		}
	}
	return time.Time{}, false
}
