package media

import (
	"fmt"
	"time"
)

const (
	secondsInDay   = int64(86400)
	secondsInMonth = int64(31 * 86400)
)

// dateNodes builds the date drilldowns for a clip search node. Identifiers
// that already carry a time window get calendar buckets covering it; fresh
// ones get the named shortcuts (Today, Yesterday, and so on), each gated on
// offering more events than the node already shows.
func dateNodes(summary SummaryData, ident ClipSearchIdentifier, shown int, now time.Time) []*BrowseNode {
	if ident.After != nil || ident.Before != nil {
		return rangeDateNodes(summary, ident, now)
	}
	return namedDateNodes(summary, ident, shown, now)
}

func rangeDateNodes(summary SummaryData, ident ClipSearchIdentifier, now time.Time) []*BrowseNode {
	after := now.Unix()
	if ident.After != nil {
		after = *ident.After
	}
	before := now.Unix()
	if ident.Before != nil {
		before = *ident.Before
	}

	var nodes []*BrowseNode
	switch {
	case before-after > secondsInMonth:
		for current := after; current < before; current += secondsInMonth {
			monthStart := midnight(time.Unix(current, 0).In(now.Location()))
			startEpoch := monthStart.Unix()
			endEpoch := addMonthsClamped(monthStart, 1).Unix()
			count := summary.CountMatching(ident.withRange(&startEpoch, &endEpoch))
			child := ident.withCrumb(CrumbDate, monthStart.Format("2006-01")).withRange(&startEpoch, &endEpoch)
			nodes = append(nodes, drilldownNode(child, fmt.Sprintf("%s (%d)", monthStart.Format("January"), count)))
		}
	case before-after > secondsInDay:
		for current := after; current < before; current += secondsInDay {
			dayStart := midnight(time.Unix(current, 0).In(now.Location()))
			startEpoch := dayStart.Unix()
			endEpoch := startEpoch + secondsInDay
			count := summary.CountMatching(ident.withRange(&startEpoch, &endEpoch))
			if count == 0 {
				continue
			}
			child := ident.withCrumb(CrumbDate, dayStart.Format("2006-01-02")).withRange(&startEpoch, &endEpoch)
			nodes = append(nodes, drilldownNode(child, fmt.Sprintf("%s (%d)", dayStart.Format("January 02"), count)))
		}
	}
	return nodes
}

func namedDateNodes(summary SummaryData, ident ClipSearchIdentifier, shown int, now time.Time) []*BrowseNode {
	startOfToday := midnight(now).Unix()
	startOfYesterday := startOfToday - secondsInDay
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfMonth := firstOfMonth.Unix()
	startOfLastMonth := addMonthsClamped(firstOfMonth, -1).Unix()
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()).Unix()

	countToday := summary.CountMatching(ident.withRange(&startOfToday, nil))
	countYesterday := summary.CountMatching(ident.withRange(&startOfYesterday, &startOfToday))
	countThisMonth := summary.CountMatching(ident.withRange(&startOfMonth, nil))
	countLastMonth := summary.CountMatching(ident.withRange(&startOfLastMonth, &startOfMonth))
	countThisYear := summary.CountMatching(ident.withRange(&startOfYear, nil))

	var nodes []*BrowseNode
	if countToday > shown {
		child := ident.withCrumb(CrumbDate, "today").withRange(&startOfToday, nil)
		nodes = append(nodes, drilldownNode(child, fmt.Sprintf("Today (%d)", countToday)))
	}
	if countYesterday > shown {
		child := ident.withCrumb(CrumbDate, "yesterday").withRange(&startOfYesterday, &startOfToday)
		nodes = append(nodes, drilldownNode(child, fmt.Sprintf("Yesterday (%d)", countYesterday)))
	}
	if countThisMonth > countToday+countYesterday && countThisMonth > shown {
		child := ident.withCrumb(CrumbDate, "this_month").withRange(&startOfMonth, nil)
		nodes = append(nodes, drilldownNode(child, fmt.Sprintf("This Month (%d)", countThisMonth)))
	}
	if countLastMonth > shown {
		child := ident.withCrumb(CrumbDate, "last_month").withRange(&startOfLastMonth, &startOfMonth)
		nodes = append(nodes, drilldownNode(child, fmt.Sprintf("Last Month (%d)", countLastMonth)))
	}
	if countThisYear > countThisMonth+countLastMonth && countThisYear > shown {
		child := ident.withCrumb(CrumbDate, "this_year").withRange(&startOfYear, nil)
		nodes = append(nodes, drilldownNode(child, "This Year"))
	}
	return nodes
}

// midnight truncates a time to the start of its day in its own location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// addMonthsClamped shifts a time by whole months, clamping the day to the
// target month's length instead of letting it normalize into the next one.
func addMonthsClamped(t time.Time, months int) time.Time {
	monthIndex := int(t.Month()) - 1 + months
	year := t.Year() + monthIndex/12
	monthIndex %= 12
	if monthIndex < 0 {
		monthIndex += 12
		year--
	}
	month := time.Month(monthIndex + 1)
	day := t.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
