package wind

import (
	"fmt"
	"time"
)

// Octant is one of the eight compass direction buckets.
type Octant string

const (
	OctantN  Octant = "N"
	OctantNE Octant = "NE"
	OctantE  Octant = "E"
	OctantSE Octant = "SE"
	OctantS  Octant = "S"
	OctantSW Octant = "SW"
	OctantW  Octant = "W"
	OctantNW Octant = "NW"
)

// OctantCount is the number of compass buckets.
const OctantCount = 8

// Octants lists every octant clockwise from north. Distribution rows and
// classification both index into this table.
var Octants = [OctantCount]Octant{
	OctantN, OctantNE, OctantE, OctantSE, OctantS, OctantSW, OctantW, OctantNW,
}

// Key identifies one station's observation day.
type Key struct {
	StationID string `json:"stationId"`
	Date      string `json:"date"` // YYYYMMDD in the station's local time
}

// String returns a canonical string key for indexing this day in stores.
func (k Key) String() string {
	return k.StationID + ":" + k.Date
}

// DateLayout is the provider's date parameter format.
const DateLayout = "20060102"

// KeyFor builds the key of the station day containing t.
func KeyFor(stationID string, t time.Time) Key {
	return Key{StationID: stationID, Date: t.Format(DateLayout)}
}

// RawObservation is a single untrusted history record as delivered by the provider.
// Nil fields were absent or null in the payload.
type RawObservation struct {
	ObsTimeLocal *string  `json:"obsTimeLocal"`
	WinddirAvg   *float64 `json:"winddirAvg"`
	Metric       struct {
		WindspeedAvg *float64 `json:"windspeedAvg"`
		WindgustHigh *float64 `json:"windgustHigh"`
	} `json:"metric"`
}

// Sample is a validated observation. Build it with NewSample so the octant
// always matches the bearing; treat it as a value and never edit its fields.
type Sample struct {
	Time         string  `json:"time"` // HH:MM, local
	SpeedAvg     float64 `json:"speedAvg"`
	GustHigh     float64 `json:"gustHigh"`
	DirectionDeg float64 `json:"directionDeg"`
	Octant       Octant  `json:"octant"`
}

// NewSample reduces deg into [0,360) and derives the octant from it.
func NewSample(clock string, speedAvg, gustHigh, deg float64) Sample {
	deg = ReduceDegrees(deg)
	return Sample{
		Time:         clock,
		SpeedAvg:     speedAvg,
		GustHigh:     gustHigh,
		DirectionDeg: deg,
		Octant:       Classify(deg),
	}
}

// Series is a chronologically ordered, read-only run of samples for one day.
// It is replaced wholesale on refetch and never edited in place.
type Series []Sample

// Clone returns a copy that callers may keep without aliasing the cached series.
func (s Series) Clone() Series {
	if s == nil {
		return Series{}
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// FetchError reports a failed provider call for a station day.
type FetchError struct {
	StationID string
	Date      string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch observations for %s on %s: %v", e.StationID, e.Date, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
