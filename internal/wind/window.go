package wind

// Window selects the part of a day's series a view displays.
type Window struct {
	recent bool
	n      int
}

// Full keeps the whole series.
func Full() Window {
	return Window{}
}

// RecentN keeps the last n samples. Negative n is treated as zero.
func RecentN(n int) Window {
	if n < 0 {
		n = 0
	}
	return Window{recent: true, n: n}
}

// IsFull reports whether w keeps the whole series.
func (w Window) IsFull() bool {
	return !w.recent
}

// N is the recent-window size; zero for Full.
func (w Window) N() int {
	return w.n
}

func (w Window) String() string {
	if w.recent {
		return "recent"
	}
	return "full"
}

// Apply returns the selected samples in their original order. Selection is positional:
// RecentN returns the last min(n, len(series)) samples.
func (w Window) Apply(series Series) Series {
	if !w.recent {
		return series
	}
	n := w.n
	if n > len(series) {
		n = len(series)
	}
	return series[len(series)-n:]
}
