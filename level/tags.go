package level

import (
	"sort"
	"strconv"
	"strings"
)

// ParseList parses an OSM multi-value level tag such as "level=-1;0;1;2" or
// a range like "level=1-3" (inclusive, full levels only) into a sorted,
// de-duplicated list of MapLevel. A blank or unparsable entry is skipped
// rather than treated as an error, matching the "evaluation never fails on
// bad data" rule that governs tag parsing everywhere else in this system.
func ParseList(value string) []MapLevel {
	var out []MapLevel
	seen := make(map[MapLevel]bool)
	for _, field := range strings.Split(value, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		for _, l := range parseField(field) {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func parseField(field string) []MapLevel {
	if lo, hi, ok := parseRange(field); ok {
		if lo > hi {
			lo, hi = hi, lo
		}
		levels := make([]MapLevel, 0, hi-lo+1)
		for h := lo; h <= hi; h++ {
			levels = append(levels, MapLevel(h*10))
		}
		return levels
	}
	if f, ok := parseFloat(field); ok {
		return []MapLevel{FromHuman(f)}
	}
	return nil
}

// parseRange recognizes "a-b" with integer endpoints, e.g. "1-3" or "-2-0".
func parseRange(field string) (lo, hi int, ok bool) {
	// A leading '-' is a sign, not a separator; look for the dash that
	// splits the two endpoints starting after any leading sign.
	search := field
	offset := 0
	if strings.HasPrefix(search, "-") {
		offset = 1
		search = search[1:]
	}
	idx := strings.Index(search, "-")
	if idx < 0 {
		return 0, 0, false
	}
	loStr := field[:idx+offset]
	hiStr := field[idx+offset+1:]
	loF, okLo := parseFloat(loStr)
	hiF, okHi := parseFloat(hiStr)
	if !okLo || !okHi {
		return 0, 0, false
	}
	return int(loF), int(hiF), true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseBuildingRange combines building:levels / building:min_level /
// building:levels:underground into the inclusive full-level span they
// describe. Missing tags default min=0, levels=0 (no above-ground floors
// reported), underground=0. Returns nil if the result would be empty.
func ParseBuildingRange(levels, minLevel, underground string) []MapLevel {
	top, ok := parseFloat(levels)
	if !ok {
		top = 0
	}
	min, ok := parseFloat(minLevel)
	if !ok {
		min = 0
	}
	below, ok := parseFloat(underground)
	if !ok {
		below = 0
	}

	lo := int(min) - int(below)
	hi := int(min) + int(top) - 1
	if hi < lo {
		return nil
	}
	out := make([]MapLevel, 0, hi-lo+1)
	for h := lo; h <= hi; h++ {
		out = append(out, MapLevel(h*10))
	}
	return out
}
