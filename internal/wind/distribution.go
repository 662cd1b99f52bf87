package wind

import "math"

// OctantShare is the percentage of samples that fell into one octant.
type OctantShare struct {
	Octant  Octant  `json:"direction"`
	Percent float64 `json:"percent"`
}

// DistributionRow holds all eight octants in compass order. The array type
// guarantees consumers never see a partial mapping.
type DistributionRow [OctantCount]OctantShare

// Percent returns the share of o, or 0 for an unknown octant.
func (d DistributionRow) Percent(o Octant) float64 {
	for _, share := range d {
		if share.Octant == o {
			return share.Percent
		}
	}
	return 0
}

// Total sums all shares. Per-octant rounding keeps it near, not exactly at, 100
// for a non-empty series; it is 0 for an empty one.
func (d DistributionRow) Total() float64 {
	var sum float64
	for _, share := range d {
		sum += share.Percent
	}
	return sum
}

// Distribution computes the percentage of samples per octant: count, divide by the
// total, scale to 100 and round each share to one decimal, halves to even. Absent
// octants are zero-filled and an empty series yields an all-zero row.
func Distribution(series Series) DistributionRow {
	var row DistributionRow
	for i, o := range Octants {
		row[i].Octant = o
	}
	n := len(series)
	if n == 0 {
		return row
	}

	var counts [OctantCount]int
	for _, s := range series {
		counts[octantIndex(s.Octant)]++
	}
	for i, c := range counts {
		row[i].Percent = math.RoundToEven(float64(c)*1000/float64(n)) / 10
	}
	return row
}

func octantIndex(o Octant) int {
	for i, known := range Octants {
		if known == o {
			return i
		}
	}
	return 0
}
