package wind

// Tables is the input contract of every presentation sink: parallel sequences of
// equal length plus the day's direction distribution.
type Tables struct {
	Times        []string        `json:"times"`
	Speeds       []float64       `json:"speeds"`
	Gusts        []float64       `json:"gusts"`
	Directions   []float64       `json:"directions"`
	Octants      []Octant        `json:"octants"`
	Distribution DistributionRow `json:"distribution"`
	NoData       bool            `json:"noData"`
}

// Tabulate splits view into parallel sequences. The distribution is computed over
// day so narrowing the view never changes the direction shares.
func Tabulate(view, day Series) Tables {
	t := Tables{
		Times:        make([]string, 0, len(view)),
		Speeds:       make([]float64, 0, len(view)),
		Gusts:        make([]float64, 0, len(view)),
		Directions:   make([]float64, 0, len(view)),
		Octants:      make([]Octant, 0, len(view)),
		Distribution: Distribution(day),
		NoData:       len(day) == 0,
	}
	for _, s := range view {
		t.Times = append(t.Times, s.Time)
		t.Speeds = append(t.Speeds, s.SpeedAvg)
		t.Gusts = append(t.Gusts, s.GustHigh)
		t.Directions = append(t.Directions, s.DirectionDeg)
		t.Octants = append(t.Octants, s.Octant)
	}
	return t
}

// Len is the length shared by all sequences.
func (t Tables) Len() int {
	return len(t.Times)
}
