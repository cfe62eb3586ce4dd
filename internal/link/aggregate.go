package link

import "gonum.org/v1/gonum/stat"

// SeriesStats summarizes a satellite's scored samples. Means are nil when
// the series has zero connectable samples: zero dBm is a valid signal value
// and must not be conflated with "no data".
type SeriesStats struct {
	ConnectableCount int
	MeanPowerDBm     *float64
	MeanQualityDB    *float64
	ClassCounts      map[Class]int
}

// Aggregate computes per-series statistics over the scored (connectable)
// samples.
func Aggregate(samples []QualitySample) SeriesStats {
	stats := SeriesStats{
		ConnectableCount: len(samples),
		ClassCounts:      make(map[Class]int, len(Classes)),
	}
	if len(samples) == 0 {
		return stats
	}

	power := make([]float64, len(samples))
	quality := make([]float64, len(samples))
	for i, s := range samples {
		power[i] = s.ReceivedPowerDBm
		quality[i] = s.QualityIndexDB
		stats.ClassCounts[s.Class]++
	}

	meanPower := stat.Mean(power, nil)
	meanQuality := stat.Mean(quality, nil)
	stats.MeanPowerDBm = &meanPower
	stats.MeanQualityDB = &meanQuality
	return stats
}
