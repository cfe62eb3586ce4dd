package pipeline

import "time"

// DiagKind names a class of non-fatal anomaly observed during a chain.
type DiagKind string

const (
	// DiagStaleElements marks samples propagated from an element set past
	// the soft accuracy threshold.
	DiagStaleElements DiagKind = "stale_elements"

	// DiagAltitudeSanity marks geodetic samples below the altitude sanity
	// floor.
	DiagAltitudeSanity DiagKind = "altitude_sanity"

	// DiagPrefilterSkip marks samples whose full frame transform was
	// skipped by the sub-horizon pre-filter.
	DiagPrefilterSkip DiagKind = "prefilter_skip"
)

// DiagRecord is one structured anomaly record.
type DiagRecord struct {
	Time   time.Time
	Kind   DiagKind
	Detail string
}

// Diagnostics accumulates anomaly records for one satellite's chain. One
// collector per chain, single goroutine; records replace the fire-once
// global warning flags of older pipelines so every anomaly is visible in the
// run output.
type Diagnostics struct {
	records []DiagRecord
}

// Add appends one record.
func (d *Diagnostics) Add(t time.Time, kind DiagKind, detail string) {
	d.records = append(d.records, DiagRecord{Time: t, Kind: kind, Detail: detail})
}

// Records returns the accumulated records in insertion order.
func (d *Diagnostics) Records() []DiagRecord {
	return d.records
}

// CountByKind returns how many records of the given kind were collected.
func (d *Diagnostics) CountByKind(kind DiagKind) int {
	n := 0
	for _, r := range d.records {
		if r.Kind == kind {
			n++
		}
	}
	return n
}
