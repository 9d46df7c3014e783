package token

import (
	"strconv"
	"strings"
	"time"
)

// ParseTTL interprets a token lifetime. Accepted forms:
//
//   - a plain integer, counted in seconds: "3600"
//   - a Go duration string: "30s", "15m", "24h"
//   - a day count: "7d"
//
// It returns ok=false for anything else, including empty, non-positive, and
// misspelled values. Callers treat ok=false as "no expiry": a token signed
// with an unrecognized TTL never expires. That fallback is a deliberate
// carry-over from the original backend — lifetimes are optional there, and
// an unrecognizable unit means forever — but it does mean a typo like
// "24hr" silently mints a permanent credential. Flagged for product
// sign-off before tightening.
func ParseTTL(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}

	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		if secs <= 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	if rest, ok := strings.CutSuffix(v, "d"); ok {
		days, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || days <= 0 {
			return 0, false
		}
		return time.Duration(days) * 24 * time.Hour, true
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
