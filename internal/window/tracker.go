// Package window derives service windows — contiguous connectable intervals
// — from a satellite's ordered visibility series.
package window

import (
	"fmt"
	"time"

	"github.com/cedarwud/orbit-engine-sub008/internal/visibility"
)

// ServiceWindow is a read-only summary of one contiguous connectable run.
type ServiceWindow struct {
	Start            time.Time
	End              time.Time
	Duration         time.Duration
	ConnectableCount int
	TotalSamples     int // all samples inside [Start, End]
	ContinuityScore  float64
}

// TimestampParseError reports an unusable timestamp in the input series.
// Durations are always computed from actual timestamps; falling back to an
// assumed sampling interval would corrupt downstream duration statistics.
type TimestampParseError struct {
	Index  int
	Time   time.Time
	Reason string
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("unusable timestamp at sample %d (%s): %s",
		e.Index, e.Time.UTC().Format(time.RFC3339Nano), e.Reason)
}

// Tracker computes service windows. MergeGap > 0 lets runs separated by at
// most that many consecutive non-connectable samples merge into a single
// window; the continuity score then captures the inner gaps. The zero value
// produces strictly maximal connectable runs (continuity always 1).
type Tracker struct {
	MergeGap int
}

// Windows computes the ordered service windows of a visibility series using
// the zero-value Tracker.
func Windows(series []visibility.Sample) ([]ServiceWindow, error) {
	return Tracker{}.Windows(series)
}

// Windows computes the ordered service windows of an ordered visibility
// series. A series with zero connectable samples yields an empty list and no
// error.
func (t Tracker) Windows(series []visibility.Sample) ([]ServiceWindow, error) {
	if err := checkTimestamps(series); err != nil {
		return nil, err
	}

	var windows []ServiceWindow

	// Indices of the current window's first and last connectable sample,
	// and the gap length since the last connectable sample.
	start := -1
	last := -1
	gap := 0

	flush := func() {
		if start < 0 {
			return
		}
		windows = append(windows, buildWindow(series, start, last))
		start, last, gap = -1, -1, 0
	}

	for i, s := range series {
		if s.Connectable {
			if start < 0 {
				start = i
			}
			last = i
			gap = 0
			continue
		}
		if start >= 0 {
			gap++
			if gap > t.MergeGap {
				flush()
			}
		}
	}
	flush()

	return windows, nil
}

// buildWindow summarizes series[first..last], whose endpoints are both
// connectable samples.
func buildWindow(series []visibility.Sample, first, last int) ServiceWindow {
	connectable := 0
	for _, s := range series[first : last+1] {
		if s.Connectable {
			connectable++
		}
	}
	total := last - first + 1

	return ServiceWindow{
		Start:            series[first].Time,
		End:              series[last].Time,
		Duration:         series[last].Time.Sub(series[first].Time),
		ConnectableCount: connectable,
		TotalSamples:     total,
		ContinuityScore:  float64(connectable) / float64(total),
	}
}

// checkTimestamps rejects zero-valued or time-reversed timestamps.
func checkTimestamps(series []visibility.Sample) error {
	for i, s := range series {
		if s.Time.IsZero() {
			return &TimestampParseError{Index: i, Time: s.Time, Reason: "zero timestamp"}
		}
		if i > 0 && s.Time.Before(series[i-1].Time) {
			return &TimestampParseError{
				Index:  i,
				Time:   s.Time,
				Reason: fmt.Sprintf("precedes previous sample at %s", series[i-1].Time.UTC().Format(time.RFC3339Nano)),
			}
		}
	}
	return nil
}
