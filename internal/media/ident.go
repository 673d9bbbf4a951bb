package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	tagClipSearch = "clip-search"
	tagClips      = "clips"
	tagRecordings = "recordings"
)

// Identifier is the parsed form of a media source identifier string.
type Identifier interface {
	String() string
}

var (
	_ Identifier = ClipSearchIdentifier{}
	_ Identifier = ClipIdentifier{}
	_ Identifier = RecordingIdentifier{}
)

// ParseIdentifier decodes an identifier string into its typed form. It
// reports false when the tag is unknown or the payload is malformed.
func ParseIdentifier(value string) (Identifier, bool) {
	parts := strings.Split(value, "/")
	fields := parts[1:]
	switch parts[0] {
	case tagClipSearch:
		ident, ok := parseClipSearch(fields)
		if !ok {
			return nil, false
		}
		return ident, true
	case tagClips:
		ident, ok := parseClip(fields)
		if !ok {
			return nil, false
		}
		return ident, true
	case tagRecordings:
		ident, ok := parseRecording(fields)
		if !ok {
			return nil, false
		}
		return ident, true
	default:
		return nil, false
	}
}

// ClipSearchIdentifier addresses one node of the event browse tree. The
// trail records the drilldowns taken so far; the remaining fields are the
// event filters those drilldowns pinned.
type ClipSearchIdentifier struct {
	Trail  Breadcrumb
	After  *int64
	Before *int64
	Camera string
	Label  string
	Zone   string
}

func parseClipSearch(fields []string) (ClipSearchIdentifier, bool) {
	padded := make([]string, 6)
	copy(padded, fields)

	after, ok := parseOptionalInt(padded[1])
	if !ok {
		return ClipSearchIdentifier{}, false
	}
	before, ok := parseOptionalInt(padded[2])
	if !ok {
		return ClipSearchIdentifier{}, false
	}
	return ClipSearchIdentifier{
		Trail:  ParseBreadcrumb(padded[0]),
		After:  after,
		Before: before,
		Camera: padded[3],
		Label:  padded[4],
		Zone:   padded[5],
	}, true
}

// String implements Identifier.
func (c ClipSearchIdentifier) String() string {
	segments := []string{
		tagClipSearch,
		c.Trail.String(),
		formatOptionalInt(c.After),
		formatOptionalInt(c.Before),
		c.Camera,
		c.Label,
		c.Zone,
	}
	return strings.Join(segments, "/")
}

// IsRoot reports whether no drilldown or filter has been applied yet.
func (c ClipSearchIdentifier) IsRoot() bool {
	return len(c.Trail) == 0 && c.After == nil && c.Before == nil &&
		c.Camera == "" && c.Label == "" && c.Zone == ""
}

// withCrumb returns a copy with one more trail step appended.
func (c ClipSearchIdentifier) withCrumb(kind CrumbKind, value string) ClipSearchIdentifier {
	c.Trail = c.Trail.Append(kind, value)
	return c
}

// withRange returns a copy with the time window narrowed. A nil argument
// keeps the existing bound.
func (c ClipSearchIdentifier) withRange(after, before *int64) ClipSearchIdentifier {
	if after != nil {
		value := *after
		c.After = &value
	}
	if before != nil {
		value := *before
		c.Before = &value
	}
	return c
}

func parseOptionalInt(raw string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func formatOptionalInt(value *int64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatInt(*value, 10)
}

// ClipIdentifier addresses a single playable event clip by its file name.
type ClipIdentifier struct {
	Name string
}

func parseClip(fields []string) (ClipIdentifier, bool) {
	if len(fields) != 1 || fields[0] == "" {
		return ClipIdentifier{}, false
	}
	return ClipIdentifier{Name: fields[0]}, true
}

// String implements Identifier.
func (c ClipIdentifier) String() string {
	return tagClips + "/" + c.Name
}

const recordingFieldCount = 5

// RecordingIdentifier addresses a node of the recordings folder tree. The
// fields mirror Frigate's on-disk layout and fill strictly left to right;
// a set field never follows an unset one.
type RecordingIdentifier struct {
	YearMonth     string
	Day           string
	Hour          string
	Camera        string
	RecordingName string
}

func parseRecording(fields []string) (RecordingIdentifier, bool) {
	padded := make([]string, recordingFieldCount)
	copy(padded, fields)

	var ident RecordingIdentifier
	sawEmpty := false
	for index, value := range padded {
		if value == "" {
			sawEmpty = true
			continue
		}
		if sawEmpty {
			return RecordingIdentifier{}, false
		}
		if !ident.setField(index, value) {
			return RecordingIdentifier{}, false
		}
	}
	return ident, true
}

// String implements Identifier.
func (r RecordingIdentifier) String() string {
	return tagRecordings + "/" + strings.Join(r.fields(), "/")
}

// ServerPath renders the Frigate recordings path for this node, stopping
// at the first unset field.
func (r RecordingIdentifier) ServerPath() string {
	path := tagRecordings
	for _, value := range r.fields() {
		if value == "" {
			break
		}
		path += "/" + value
	}
	return path
}

// IsRoot reports whether no folder level has been descended yet.
func (r RecordingIdentifier) IsRoot() bool {
	for _, value := range r.fields() {
		if value != "" {
			return false
		}
	}
	return true
}

// WithNextField returns a copy with the first unset field filled in,
// validating the value against that field's format.
func (r RecordingIdentifier) WithNextField(value string) (RecordingIdentifier, error) {
	for index, existing := range r.fields() {
		if existing != "" {
			continue
		}
		if !r.setField(index, value) {
			return RecordingIdentifier{}, fmt.Errorf("invalid recording field %q", value)
		}
		return r, nil
	}
	return RecordingIdentifier{}, errors.New("recording identifier already complete")
}

func (r RecordingIdentifier) fields() []string {
	return []string{r.YearMonth, r.Day, r.Hour, r.Camera, r.RecordingName}
}

func (r *RecordingIdentifier) setField(index int, value string) bool {
	switch index {
	case 0:
		normalized, ok := normalizeYearMonth(value)
		if !ok {
			return false
		}
		r.YearMonth = normalized
	case 1:
		normalized, ok := normalizeDay(value)
		if !ok {
			return false
		}
		r.Day = normalized
	case 2:
		normalized, ok := normalizeHour(value)
		if !ok {
			return false
		}
		r.Hour = normalized
	case 3:
		r.Camera = value
	case 4:
		r.RecordingName = value
	default:
		return false
	}
	return true
}

func normalizeYearMonth(value string) (string, bool) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return "", false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 0 {
		return "", false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	return value, true
}

func normalizeDay(value string) (string, bool) {
	day, err := strconv.Atoi(value)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%02d", day), true
}

func normalizeHour(value string) (string, bool) {
	hour, err := strconv.Atoi(value)
	if err != nil || hour < 0 || hour > 23 {
		return "", false
	}
	return fmt.Sprintf("%02d", hour), true
}
