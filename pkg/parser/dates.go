package parser

import (
	"strconv"
	"strings"
	"time"
)

// dateSeparators tried in order when normalizing a date token.
var dateSeparators = []string{"/", "-", "."}

// ParseDate converts a heterogeneous date token to a calendar date. A token
// splits on one of the known separators into three numeric parts; a 4-digit
// first part reads as YYYY-MM-DD, anything else as DD-MM-YYYY (day-first is
// the default regional assumption). Two-digit years are promoted by adding
// 2000. Calendar-day overflow (e.g. Feb 30) is not independently validated.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, sep := range dateSeparators {
		parts := strings.Split(raw, sep)
		if len(parts) != 3 {
			continue
		}

		nums := make([]int, 3)
		ok := true
		for i, part := range parts {
			n, err := strconv.Atoi(part)
			if err != nil {
				ok = false
				break
			}
			nums[i] = n
		}
		if !ok {
			continue
		}

		var year, month, day int
		if len(parts[0]) == 4 {
			year, month, day = nums[0], nums[1], nums[2]
		} else {
			day, month, year = nums[0], nums[1], nums[2]
		}
		if year < 100 {
			year += 2000
		}

		if day < 1 || day > 31 || month < 1 || month > 12 || year < 2000 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// isoDate is the canonical output format for candidate transactions.
const isoDate = "2006-01-02"

// FormatDate renders a date in the canonical ISO form.
func FormatDate(t time.Time) string {
	return t.Format(isoDate)
}
