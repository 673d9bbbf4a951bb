package media

import (
	"slices"
	"strings"
)

// CrumbKind records which facet a drilldown pinned when it was taken.
type CrumbKind int

const (
	CrumbUnknown CrumbKind = iota
	CrumbDate
	CrumbCamera
	CrumbLabel
	CrumbZone
	CrumbAll
)

// String implements fmt.Stringer.
func (k CrumbKind) String() string {
	switch k {
	case CrumbDate:
		return "date"
	case CrumbCamera:
		return "camera"
	case CrumbLabel:
		return "label"
	case CrumbZone:
		return "zone"
	case CrumbAll:
		return "all"
	default:
		return "unknown"
	}
}

// Crumb is one step of a drilldown trail.
type Crumb struct {
	Kind  CrumbKind
	Value string
}

// Breadcrumb is the ordered drilldown trail of a clip search identifier.
// The wire form is a dot-joined string; kinds are not encoded, so parsed
// crumbs come back as CrumbUnknown except for the trailing "all" marker.
type Breadcrumb []Crumb

// ParseBreadcrumb splits a dot-joined trail into crumbs, dropping empty
// segments so ".today.front_door" and "today.front_door" parse the same.
func ParseBreadcrumb(trail string) Breadcrumb {
	var crumbs Breadcrumb
	for _, segment := range strings.Split(trail, ".") {
		if segment == "" {
			continue
		}
		kind := CrumbUnknown
		if segment == "all" {
			kind = CrumbAll
		}
		crumbs = append(crumbs, Crumb{Kind: kind, Value: segment})
	}
	return crumbs
}

// String renders the canonical wire form with a leading dot per crumb.
func (b Breadcrumb) String() string {
	if len(b) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, crumb := range b {
		builder.WriteString(".")
		builder.WriteString(crumb.Value)
	}
	return builder.String()
}

// EndsInAll reports whether the trail terminates in the "all" marker.
func (b Breadcrumb) EndsInAll() bool {
	if len(b) == 0 {
		return false
	}
	last := b[len(b)-1]
	return last.Kind == CrumbAll || last.Value == "all"
}

// Append returns a new trail extended by one crumb, leaving the receiver
// untouched so sibling drilldowns never share backing storage.
func (b Breadcrumb) Append(kind CrumbKind, value string) Breadcrumb {
	extended := slices.Clone(b)
	return append(extended, Crumb{Kind: kind, Value: value})
}
