package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ecomdash/internal/config"
)

const (
	maxLimit = 10000
	maxBins  = 200
)

// parseLimit reads the "limit" query parameter. Empty means def; 0 means
// every row.
func parseLimit(q url.Values, def int) (int, error) {
	v := strings.TrimSpace(q.Get("limit"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q: must be a number", v)
	}
	if n < 0 || n > maxLimit {
		return 0, fmt.Errorf("invalid limit %d: must be between 0 and %d", n, maxLimit)
	}
	return n, nil
}

func parseBins(q url.Values, def int) (int, error) {
	v := strings.TrimSpace(q.Get("bins"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid bins %q: must be a number", v)
	}
	if n < 1 || n > maxBins {
		return 0, fmt.Errorf("invalid bins %d: must be between 1 and %d", n, maxBins)
	}
	return n, nil
}

// parseOrder reads "order", which is desc (most sold first) or asc.
func parseOrder(q url.Values) (ascending bool, err error) {
	switch v := strings.ToLower(strings.TrimSpace(q.Get("order"))); v {
	case "", "desc":
		return false, nil
	case "asc":
		return true, nil
	default:
		return false, fmt.Errorf("invalid order %q: must be asc or desc", v)
	}
}

// parseReference reads "reference" as a YYYY-MM-DD date. ok is false when
// the parameter is absent.
func parseReference(q url.Values) (ref time.Time, ok bool, err error) {
	v := strings.TrimSpace(q.Get("reference"))
	if v == "" {
		return time.Time{}, false, nil
	}
	ref, err = time.Parse(config.ReferenceLayout, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid reference %q: must be YYYY-MM-DD", v)
	}
	return ref, true, nil
}
