package wind

import (
	"sort"
	"strconv"
	"time"
)

// Normalizer turns raw provider records into a validated, chronological Series.
type Normalizer struct {
	// MinHour drops samples observed before this local hour. Nil keeps the whole day.
	MinHour *int
}

// NormalizeStats counts what happened to the raw input.
type NormalizeStats struct {
	Input   int
	Kept    int
	Dropped int
}

// Normalize validates every record in input order, drops incomplete or invalid ones,
// applies the optional hour cutoff and returns the samples stably sorted by time.
func (n Normalizer) Normalize(raw []RawObservation) (Series, NormalizeStats) {
	series := make(Series, 0, len(raw))
	for _, r := range raw {
		s, ok := n.sample(r)
		if !ok {
			continue
		}
		series = append(series, s)
	}

	// HH:MM sorts lexically in clock order.
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time < series[j].Time
	})

	return series, NormalizeStats{
		Input:   len(raw),
		Kept:    len(series),
		Dropped: len(raw) - len(series),
	}
}

func (n Normalizer) sample(r RawObservation) (Sample, bool) {
	speed, gust, dir, ts := r.Metric.WindspeedAvg, r.Metric.WindgustHigh, r.WinddirAvg, r.ObsTimeLocal
	if speed == nil || gust == nil || dir == nil || ts == nil {
		return Sample{}, false
	}
	if *speed < 0 || *gust < 0 {
		return Sample{}, false
	}

	clock, hour, ok := clockOf(*ts)
	if !ok {
		return Sample{}, false
	}
	if n.MinHour != nil && hour < *n.MinHour {
		return Sample{}, false
	}

	return NewSample(clock, *speed, *gust, *dir), true
}

// clockOf slices HH:MM out of a fixed-width "... HH:MM:SS" local timestamp.
func clockOf(ts string) (string, int, bool) {
	if len(ts) < 8 {
		return "", 0, false
	}
	clock := ts[len(ts)-8 : len(ts)-3]
	if _, err := time.Parse("15:04", clock); err != nil {
		return "", 0, false
	}
	hour, err := strconv.Atoi(clock[:2])
	if err != nil {
		return "", 0, false
	}
	return clock, hour, true
}
