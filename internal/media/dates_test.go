package media

import (
	"testing"
	"time"
)

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			"forward within year",
			time.Date(2021, time.March, 4, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2021, time.April, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			"clamps to shorter month",
			time.Date(2021, time.January, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2021, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"clamps leap february",
			time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"wraps into next year",
			time.Date(2021, time.December, 15, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2022, time.January, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"backward across year boundary",
			time.Date(2021, time.January, 10, 0, 0, 0, 0, time.UTC), -1,
			time.Date(2020, time.December, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			"backward clamps",
			time.Date(2021, time.March, 31, 0, 0, 0, 0, time.UTC), -1,
			time.Date(2021, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		if got := addMonthsClamped(tc.start, tc.months); !got.Equal(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMidnightKeepsLocation(t *testing.T) {
	offset := time.FixedZone("UTC-5", -5*3600)
	moment := time.Date(2021, time.June, 4, 13, 45, 12, 0, offset)
	start := midnight(moment)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("midnight did not truncate: %v", start)
	}
	if start.Location() != offset {
		t.Fatalf("midnight changed location: %v", start.Location())
	}
	if got := start.Unix(); got != 1622764800+5*3600 {
		t.Fatalf("unexpected epoch: %d", got)
	}
}
