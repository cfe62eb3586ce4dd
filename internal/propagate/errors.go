package propagate

import (
	"fmt"
	"time"
)

// InvalidElementError reports an element set whose parameters violate
// physical bounds. Raised at propagator construction, before any propagation.
type InvalidElementError struct {
	NORADID int
	Field   string
	Value   float64
	Reason  string
}

func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("invalid element set for NORAD %d: %s=%g %s",
		e.NORADID, e.Field, e.Value, e.Reason)
}

// PropagationDivergenceError reports that the SGP4 model failed to produce a
// usable state at the requested time (decayed orbit, numeric blow-up, or an
// element set older than the configured cutoff).
type PropagationDivergenceError struct {
	NORADID int
	Time    time.Time
	Reason  string
}

func (e *PropagationDivergenceError) Error() string {
	return fmt.Sprintf("propagation diverged for NORAD %d at %s: %s",
		e.NORADID, e.Time.UTC().Format(time.RFC3339), e.Reason)
}
