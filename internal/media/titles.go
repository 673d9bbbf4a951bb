package media

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spyglass/internal/frigate"
)

// friendlyName renders an internal name for display, so "front_door"
// becomes "Front Door". Casers are not safe for concurrent use, hence one
// per call.
func friendlyName(value string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(value, "_", " "))
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}

// eventTitle renders the list entry for one event, for example
// "2021-06-04 00:00:01 [100s, Person 72%]".
func eventTitle(event frigate.Event, loc *time.Location) string {
	start := time.Unix(int64(event.StartTime), 0).In(loc)
	duration := int(event.EndTime - event.StartTime)
	score := int(event.TopScore * 100)
	return fmt.Sprintf("%s [%ds, %s %d%%]",
		start.Format("2006-01-02 15:04:05"), duration, capitalize(event.Label), score)
}

// searchTitle renders the heading of a clip search node from its drilldown
// trail and the number of events it covers.
func searchTitle(ident ClipSearchIdentifier, count int) string {
	if len(ident.Trail) == 0 {
		return fmt.Sprintf("Clips (%d)", count)
	}
	parts := make([]string, 0, len(ident.Trail))
	for _, crumb := range ident.Trail {
		parts = append(parts, friendlyName(crumb.Value))
	}
	return fmt.Sprintf("%s (%d)", strings.Join(parts, " > "), count)
}

// recordingTitle renders the heading of a recordings node from its deepest
// set field. Malformed folder names surface as errors so the caller can
// decide between failing the browse and skipping an entry.
func recordingTitle(ident RecordingIdentifier) (string, error) {
	switch {
	case ident.Camera != "":
		return friendlyName(ident.Camera), nil
	case ident.Hour != "":
		return hourTitle(ident.Hour + ".00.00")
	case ident.Day != "":
		return dayTitle(ident.YearMonth, ident.Day)
	case ident.YearMonth != "":
		return monthTitle(ident.YearMonth)
	default:
		return "Recordings", nil
	}
}

// recordingChildTitle renders the title a folder entry will get one level
// below the given node.
func recordingChildTitle(ident RecordingIdentifier, entryName string) (string, error) {
	switch {
	case ident.Camera != "":
		return hourTitle(ident.Hour + "." + strings.TrimSuffix(entryName, ".mp4"))
	case ident.Hour != "":
		return friendlyName(entryName), nil
	case ident.Day != "":
		return hourTitle(entryName + ".00.00")
	case ident.YearMonth != "":
		return dayTitle(ident.YearMonth, entryName)
	default:
		return monthTitle(entryName)
	}
}

func hourTitle(raw string) (string, error) {
	parsed, err := time.Parse("15.04.05", raw)
	if err != nil {
		return "", fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return parsed.Format("15:04:05"), nil
}

func monthTitle(yearMonth string) (string, error) {
	year, month, err := splitYearMonth(yearMonth)
	if err != nil {
		return "", err
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"), nil
}

func dayTitle(yearMonth, day string) (string, error) {
	year, month, err := splitYearMonth(yearMonth)
	if err != nil {
		return "", err
	}
	dayNumber, err := strconv.Atoi(day)
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", day, err)
	}
	date := time.Date(year, month, dayNumber, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != dayNumber {
		return "", fmt.Errorf("day %q out of range for %q", day, yearMonth)
	}
	return date.Format("January 02"), nil
}

func splitYearMonth(value string) (int, time.Month, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("parse year-month %q", value)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse year-month %q: %w", value, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("parse year-month %q: month out of range", value)
	}
	return year, time.Month(month), nil
}
