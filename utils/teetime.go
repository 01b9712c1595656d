package utils

import (
	"regexp"
	"strings"
)

var teeTimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Tee\s+Time:\s*(\d{1,2}:\d{2}\s*[AaPp][Mm])`),
	regexp.MustCompile(`(?i)Time:\s*(\d{1,2}:\d{2}\s*[AaPp][Mm])`),
}

// ExtractTeeTime pulls a "Time: 12:20 PM" style value out of free-form
// email content. Returns "" when nothing matches.
func ExtractTeeTime(note string) string {
	if note == "" {
		return ""
	}
	for _, pattern := range teeTimePatterns {
		if m := pattern.FindStringSubmatch(note); m != nil {
			return strings.ToUpper(strings.TrimSpace(m[1]))
		}
	}
	return ""
}
