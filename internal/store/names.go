package store

import (
	"strings"
	"time"
)

// TimestampLayout prefixes run and export file names.
const TimestampLayout = "02-01-06_15-04-05"

// RunFileName names the run file of an extraction started at now for the
// given search keyword. Runs without a keyword are "recommended" runs.
func RunFileName(keyword string, now time.Time) string {
	if keyword == "" {
		keyword = "recommended"
	}
	return SanitizeName(now.Format(TimestampLayout)+"-"+keyword) + ".txt"
}

// SanitizeName replaces characters that do not belong in a file name.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '-'
		}
		return r
	}, name)
}
