package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cedarwud/orbit-engine-sub008/internal/link"
	"github.com/cedarwud/orbit-engine-sub008/internal/pipeline"
)

// Report is the JSON run summary handed to downstream analysis.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Satellites  int       `json:"satellites"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`

	// Aggregates over all connectable samples in the run. Null when the
	// run produced no connectable samples.
	MeanPowerDBm  *float64       `json:"mean_power_dbm"`
	MeanQualityDB *float64       `json:"mean_quality_db"`
	ClassCounts   map[string]int `json:"class_counts"`

	TotalWindows int                      `json:"total_windows"`
	Failures     []pipeline.FailureRecord `json:"failures,omitempty"`
}

// BuildReport computes run-level aggregates from the per-satellite results.
func BuildReport(results []pipeline.SatelliteResult, summary pipeline.Summary) Report {
	rep := Report{
		GeneratedAt: time.Now().UTC(),
		Satellites:  summary.Satellites,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		ClassCounts: make(map[string]int, len(link.Classes)),
		Failures:    summary.Failures,
	}

	var power, quality []float64
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		rep.TotalWindows += len(res.Windows)
		for _, q := range res.Quality {
			power = append(power, q.ReceivedPowerDBm)
			quality = append(quality, q.QualityIndexDB)
			rep.ClassCounts[string(q.Class)]++
		}
	}

	if len(power) > 0 {
		meanPower := stat.Mean(power, nil)
		meanQuality := stat.Mean(quality, nil)
		rep.MeanPowerDBm = &meanPower
		rep.MeanQualityDB = &meanQuality
	}
	return rep
}

// WriteReport serializes the report as indented JSON to path.
func WriteReport(rep Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
