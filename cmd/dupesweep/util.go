package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// parseSize parses a human-readable size string into bytes. Units are
// 1024-based and case-insensitive ("100", "0.5K", "10MB", "1g"); the
// sentinel "-1" means unbounded.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "-1" {
		return math.MaxInt64, nil
	}

	numStr, unit := s, ""
	if i := strings.IndexFunc(s, unicode.IsLetter); i >= 0 {
		numStr, unit = s[:i], s[i:]
	}

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", numStr)
	}

	var multiplier int64
	switch strings.ToUpper(unit) {
	case "", "B":
		multiplier = 1
	case "KB", "K":
		multiplier = 1 << 10
	case "MB", "M":
		multiplier = 1 << 20
	case "GB", "G":
		multiplier = 1 << 30
	case "TB", "T":
		multiplier = 1 << 40
	default:
		return 0, fmt.Errorf("unknown unit %q (valid: B, KB, MB, GB, TB)", unit)
	}

	bytes := num * float64(multiplier)
	switch {
	case bytes < 0:
		return 0, nil
	case bytes >= math.MaxInt64:
		return math.MaxInt64, nil
	}
	return int64(bytes), nil
}
