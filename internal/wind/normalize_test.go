package wind

import (
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func raw(speed, gust, dir *float64, ts *string) RawObservation {
	var r RawObservation
	r.Metric.WindspeedAvg = speed
	r.Metric.WindgustHigh = gust
	r.WinddirAvg = dir
	r.ObsTimeLocal = ts
	return r
}

func TestNormalizeDropsIncompleteAndSorts(t *testing.T) {
	input := []RawObservation{
		raw(f(10), f(15), f(5), s("2024-06-01 07:05:00")),
		raw(nil, f(20), f(90), s("2024-06-01 07:10:00")),
		raw(f(8), f(12), f(200), s("2024-06-01 07:00:00")),
	}

	series, stats := Normalizer{}.Normalize(input)

	want := Series{
		{Time: "07:00", SpeedAvg: 8, GustHigh: 12, DirectionDeg: 200, Octant: OctantS},
		{Time: "07:05", SpeedAvg: 10, GustHigh: 15, DirectionDeg: 5, Octant: OctantN},
	}
	if !reflect.DeepEqual(series, want) {
		t.Fatalf("unexpected series:\n got %+v\nwant %+v", series, want)
	}
	if stats.Input != 3 || stats.Kept != 2 || stats.Dropped != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNormalizeDropsEachMissingField(t *testing.T) {
	ts := s("2024-06-01 12:00:00")
	input := []RawObservation{
		raw(nil, f(1), f(1), ts),
		raw(f(1), nil, f(1), ts),
		raw(f(1), f(1), nil, ts),
		raw(f(1), f(1), f(1), nil),
	}
	series, stats := Normalizer{}.Normalize(input)
	if len(series) != 0 {
		t.Fatalf("expected every record dropped, got %+v", series)
	}
	if stats.Dropped != 4 {
		t.Fatalf("expected 4 dropped, got %d", stats.Dropped)
	}
}

func TestNormalizeDropsInvalidValues(t *testing.T) {
	input := []RawObservation{
		raw(f(-1), f(3), f(10), s("2024-06-01 12:00:00")),
		raw(f(1), f(-3), f(10), s("2024-06-01 12:00:00")),
		raw(f(1), f(3), f(10), s("12:00")),
		raw(f(1), f(3), f(10), s("2024-06-01 ab:cd:00")),
		raw(f(1), f(3), f(10), s("")),
		raw(f(1), f(3), f(10), s("2024-06-01 12:01:00")),
	}
	series, _ := Normalizer{}.Normalize(input)
	if len(series) != 1 || series[0].Time != "12:01" {
		t.Fatalf("expected only the 12:01 record to survive, got %+v", series)
	}
}

func TestNormalizeKeepsZeroDirection(t *testing.T) {
	series, _ := Normalizer{}.Normalize([]RawObservation{
		raw(f(0), f(0), f(0), s("2024-06-01 09:30:00")),
	})
	if len(series) != 1 || series[0].Octant != OctantN {
		t.Fatalf("expected one calm northerly sample, got %+v", series)
	}
}

func TestNormalizeReducesOutOfRangeDirection(t *testing.T) {
	series, _ := Normalizer{}.Normalize([]RawObservation{
		raw(f(4), f(6), f(450), s("2024-06-01 10:00:00")),
		raw(f(4), f(6), f(-90), s("2024-06-01 10:05:00")),
	})
	if len(series) != 2 {
		t.Fatalf("expected two samples, got %d", len(series))
	}
	if series[0].DirectionDeg != 90 || series[0].Octant != OctantE {
		t.Errorf("450° should reduce to 90° E, got %+v", series[0])
	}
	if series[1].DirectionDeg != 270 || series[1].Octant != OctantW {
		t.Errorf("-90° should reduce to 270° W, got %+v", series[1])
	}
}

func TestNormalizeStableForEqualTimes(t *testing.T) {
	ts := s("2024-06-01 08:15:00")
	series, _ := Normalizer{}.Normalize([]RawObservation{
		raw(f(1), f(2), f(0), ts),
		raw(f(3), f(4), f(90), s("2024-06-01 08:00:00")),
		raw(f(5), f(6), f(180), ts),
	})
	got := []float64{series[0].SpeedAvg, series[1].SpeedAvg, series[2].SpeedAvg}
	want := []float64{3, 1, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected stable order %v, got %v", want, got)
	}
}

func TestNormalizeOutputIsChronological(t *testing.T) {
	stamps := []string{"23:55", "00:00", "13:20", "07:45", "13:05", "00:05", "19:00"}
	input := make([]RawObservation, 0, len(stamps))
	for _, st := range stamps {
		input = append(input, raw(f(1), f(1), f(1), s("2024-06-01 "+st+":00")))
	}
	series, _ := Normalizer{}.Normalize(input)
	if len(series) != len(stamps) {
		t.Fatalf("expected %d samples, got %d", len(stamps), len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i-1].Time > series[i].Time {
			t.Fatalf("series not sorted at %d: %s > %s", i, series[i-1].Time, series[i].Time)
		}
	}
}

func TestNormalizeMinHourCutoff(t *testing.T) {
	input := []RawObservation{
		raw(f(1), f(2), f(0), s("2024-06-01 05:59:00")),
		raw(f(1), f(2), f(0), s("2024-06-01 06:59:00")),
		raw(f(1), f(2), f(0), s("2024-06-01 07:00:00")),
		raw(f(1), f(2), f(0), s("2024-06-01 18:30:00")),
	}

	seven := 7
	series, stats := Normalizer{MinHour: &seven}.Normalize(input)
	if len(series) != 2 || series[0].Time != "07:00" || series[1].Time != "18:30" {
		t.Fatalf("unexpected series with cutoff: %+v", series)
	}
	if stats.Dropped != 2 {
		t.Fatalf("expected 2 dropped by cutoff, got %d", stats.Dropped)
	}

	all, _ := Normalizer{}.Normalize(input)
	if len(all) != 4 {
		t.Fatalf("expected no cutoff without MinHour, got %d samples", len(all))
	}
}

func TestNormalizeEmpty(t *testing.T) {
	series, stats := Normalizer{}.Normalize(nil)
	if series == nil || len(series) != 0 {
		t.Fatalf("expected empty non-nil series, got %#v", series)
	}
	if stats != (NormalizeStats{}) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
