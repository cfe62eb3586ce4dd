package visibility

import (
	"fmt"
	"strings"
)

// ConstellationConfig describes one constellation's service parameters.
// Supplied by external configuration; read-only during a run.
type ConstellationConfig struct {
	Name              string
	MinElevationDeg   float64
	MinPeriodMinutes  float64
	MaxPeriodMinutes  float64
	TypicalAltitudeKm float64
}

// UnknownConstellationError reports a constellation tag with no configured
// entry. There is deliberately no default threshold: an unresolvable tag
// must fail, not silently bias the dataset.
type UnknownConstellationError struct {
	Tag string
}

func (e *UnknownConstellationError) Error() string {
	return fmt.Sprintf("unknown constellation tag %q", e.Tag)
}

// Registry resolves constellation tags to their configs. Built once during
// single-threaded setup and read-only afterwards.
type Registry struct {
	byName map[string]ConstellationConfig
}

// NewRegistry builds a Registry from the configured constellations. Lookup
// is case-insensitive exact match on the name.
func NewRegistry(configs []ConstellationConfig) *Registry {
	byName := make(map[string]ConstellationConfig, len(configs))
	for _, c := range configs {
		byName[strings.ToLower(c.Name)] = c
	}
	return &Registry{byName: byName}
}

// Resolve returns the config for tag, or an UnknownConstellationError.
func (r *Registry) Resolve(tag string) (ConstellationConfig, error) {
	cfg, ok := r.byName[strings.ToLower(tag)]
	if !ok {
		return ConstellationConfig{}, &UnknownConstellationError{Tag: tag}
	}
	return cfg, nil
}

// Names returns all configured constellation names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	return names
}
