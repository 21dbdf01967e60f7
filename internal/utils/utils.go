package utils

import (
	"strings"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

func SetLogLevel(level string) {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		log.Fatal("Bad error level string")
	}
}

// CollapseSpaces squeezes runs of whitespace inside scraped cell text down to
// single spaces and trims the ends.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// LastPath returns the final segment of a URL path, which is how the judge
// site encodes most identifiers (problem ids, usernames, country codes).
func LastPath(link string) string {
	link = strings.TrimRight(strings.TrimSpace(link), "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		return link[i+1:]
	}
	return link
}

// StripBrackets removes surrounding parentheses noise from status cells like
// "(Ended)".
func StripBrackets(s string) string {
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return strings.TrimSpace(s)
}

// IsPlaceholder reports whether a table cell holds the site's "no value"
// marker ("--") instead of real data.
func IsPlaceholder(s string) bool {
	return strings.TrimSpace(s) == "--"
}
