// Package config loads and validates the run configuration. Everything the
// computational stages need — observer location, constellation thresholds,
// link parameters, atmosphere, Earth-orientation values — is resolved here,
// once, in the single-threaded setup phase, and handed to the pipeline as
// immutable values. No stage performs ambient configuration lookups.
package config

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/cedarwud/orbit-engine-sub008/internal/element"
	"github.com/cedarwud/orbit-engine-sub008/internal/frames"
	"github.com/cedarwud/orbit-engine-sub008/internal/link"
	"github.com/cedarwud/orbit-engine-sub008/internal/propagate"
	"github.com/cedarwud/orbit-engine-sub008/internal/visibility"
	"github.com/cedarwud/orbit-engine-sub008/internal/window"
)

// Run is the sampling schedule and execution shape of one pipeline run.
type Run struct {
	Start           time.Time
	Step            time.Duration
	Horizon         time.Duration
	Workers         int
	EnablePrefilter bool
	MergeGapSamples int
}

// SampleTimes expands the schedule into the ordered per-satellite timestamps.
func (r Run) SampleTimes() []time.Time {
	n := int(r.Horizon/r.Step) + 1
	times := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		times = append(times, r.Start.Add(time.Duration(i)*r.Step))
	}
	return times
}

// Output names the run's persistence targets.
type Output struct {
	SQLitePath  string
	ReportPath  string
	MetricsAddr string // empty disables the metrics endpoint
}

// Config is the fully validated run configuration.
type Config struct {
	Run            Run
	ElementSource  string
	PropConfig     propagate.Config
	Tags           *element.ConstellationMap
	Observer       visibility.Observer
	Constellations []visibility.ConstellationConfig
	Transform      frames.TransformConfig
	Link           link.Params
	Tracker        window.Tracker
	Output         Output
}

// Load reads the configuration file at path and validates every required
// field. A missing systemic field fails the whole run here, before any
// satellite is processed.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	v.SetDefault("run.step_seconds", 30)
	v.SetDefault("run.horizon_minutes", 90)
	v.SetDefault("run.workers", runtime.NumCPU())
	v.SetDefault("elements.max_age_days", 30.0)
	v.SetDefault("elements.stale_age_days", 7.0)
	v.SetDefault("frames.nutation_model", string(frames.NutationIAU1980))

	cfg := &Config{}

	if err := loadRun(v, cfg); err != nil {
		return nil, err
	}
	if err := loadElements(v, cfg); err != nil {
		return nil, err
	}
	if err := loadObserver(v, cfg); err != nil {
		return nil, err
	}
	if err := loadConstellations(v, cfg); err != nil {
		return nil, err
	}
	if err := loadLink(v, cfg); err != nil {
		return nil, err
	}

	cfg.Transform = frames.TransformConfig{
		Nutation:     frames.NutationModel(v.GetString("frames.nutation_model")),
		PolarXArcsec: v.GetFloat64("frames.polar_x_arcsec"),
		PolarYArcsec: v.GetFloat64("frames.polar_y_arcsec"),
		DeltaUT1Sec:  v.GetFloat64("frames.delta_ut1_sec"),
	}

	cfg.Tracker = window.Tracker{MergeGap: v.GetInt("run.merge_gap_samples")}

	cfg.Output = Output{
		SQLitePath:  v.GetString("output.sqlite_path"),
		ReportPath:  v.GetString("output.report_path"),
		MetricsAddr: v.GetString("output.metrics_addr"),
	}

	return cfg, nil
}

func loadRun(v *viper.Viper, cfg *Config) error {
	start := time.Now().UTC()
	if s := v.GetString("run.start_time"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("run.start_time: %w", err)
		}
		start = t.UTC()
	}

	step := v.GetInt("run.step_seconds")
	if step < 1 {
		return fmt.Errorf("run.step_seconds must be >= 1, got %d", step)
	}
	horizon := v.GetInt("run.horizon_minutes")
	if horizon < 1 {
		return fmt.Errorf("run.horizon_minutes must be >= 1, got %d", horizon)
	}

	cfg.Run = Run{
		Start:           start,
		Step:            time.Duration(step) * time.Second,
		Horizon:         time.Duration(horizon) * time.Minute,
		Workers:         v.GetInt("run.workers"),
		EnablePrefilter: v.GetBool("run.enable_prefilter"),
		MergeGapSamples: v.GetInt("run.merge_gap_samples"),
	}
	return nil
}

func loadElements(v *viper.Viper, cfg *Config) error {
	cfg.ElementSource = v.GetString("elements.source")
	if cfg.ElementSource == "" {
		return fmt.Errorf("elements.source is required (file path or URL)")
	}

	cfg.PropConfig = propagate.Config{
		MaxElementAgeDays:   v.GetFloat64("elements.max_age_days"),
		StaleElementAgeDays: v.GetFloat64("elements.stale_age_days"),
	}

	byID := make(map[int]string)
	for key, tag := range v.GetStringMapString("elements.constellation_ids") {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("elements.constellation_ids: NORAD id %q is not a number", key)
		}
		byID[id] = tag
	}

	var prefixes []element.PrefixRule
	var rawRules []struct {
		Prefix string `mapstructure:"prefix"`
		Tag    string `mapstructure:"tag"`
	}
	if err := v.UnmarshalKey("elements.name_prefixes", &rawRules); err != nil {
		return fmt.Errorf("elements.name_prefixes: %w", err)
	}
	for _, r := range rawRules {
		if r.Prefix == "" || r.Tag == "" {
			return fmt.Errorf("elements.name_prefixes entries need both prefix and tag")
		}
		prefixes = append(prefixes, element.PrefixRule{Prefix: r.Prefix, Tag: r.Tag})
	}

	cfg.Tags = &element.ConstellationMap{ByID: byID, ByPrefix: prefixes}
	return nil
}

func loadObserver(v *viper.Viper, cfg *Config) error {
	if !v.IsSet("observer.latitude_deg") || !v.IsSet("observer.longitude_deg") {
		return fmt.Errorf("observer.latitude_deg and observer.longitude_deg are required")
	}
	lat := v.GetFloat64("observer.latitude_deg")
	lon := v.GetFloat64("observer.longitude_deg")
	if lat < -90 || lat > 90 {
		return fmt.Errorf("observer.latitude_deg %g outside [-90, 90]", lat)
	}
	if lon < -180 || lon >= 180 {
		return fmt.Errorf("observer.longitude_deg %g outside [-180, 180)", lon)
	}
	// Altitude arrives in meters, the pipeline works in kilometers.
	cfg.Observer = visibility.NewObserver(lat, lon, v.GetFloat64("observer.altitude_m")/1000.0)
	return nil
}

func loadConstellations(v *viper.Viper, cfg *Config) error {
	var raw []struct {
		Name              string  `mapstructure:"name"`
		MinElevationDeg   float64 `mapstructure:"min_elevation_deg"`
		MinPeriodMinutes  float64 `mapstructure:"min_period_minutes"`
		MaxPeriodMinutes  float64 `mapstructure:"max_period_minutes"`
		TypicalAltitudeKm float64 `mapstructure:"typical_altitude_km"`
	}
	if err := v.UnmarshalKey("constellations", &raw); err != nil {
		return fmt.Errorf("constellations: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("at least one [[constellations]] entry is required")
	}

	for _, c := range raw {
		if c.Name == "" {
			return fmt.Errorf("constellations: name is required")
		}
		if c.MinElevationDeg < 0 || c.MinElevationDeg > 90 {
			return fmt.Errorf("constellation %s: min_elevation_deg %g outside [0, 90]", c.Name, c.MinElevationDeg)
		}
		cfg.Constellations = append(cfg.Constellations, visibility.ConstellationConfig{
			Name:              c.Name,
			MinElevationDeg:   c.MinElevationDeg,
			MinPeriodMinutes:  c.MinPeriodMinutes,
			MaxPeriodMinutes:  c.MaxPeriodMinutes,
			TypicalAltitudeKm: c.TypicalAltitudeKm,
		})
	}
	return nil
}

func loadLink(v *viper.Viper, cfg *Config) error {
	cfg.Link = link.Params{
		CarrierGHz:    v.GetFloat64("link.carrier_ghz"),
		BandwidthHz:   v.GetFloat64("link.bandwidth_hz"),
		EIRPDBm:       v.GetFloat64("link.eirp_dbm"),
		RxGainDBi:     v.GetFloat64("link.rx_gain_dbi"),
		NoiseFigureDB: v.GetFloat64("link.noise_figure_db"),
		SystemTempK:   v.GetFloat64("link.system_temp_k"),
		Atmosphere: link.Atmosphere{
			TemperatureK:      v.GetFloat64("atmosphere.temperature_k"),
			PressureHPa:       v.GetFloat64("atmosphere.pressure_hpa"),
			WaterVaporDensity: v.GetFloat64("atmosphere.water_vapor_density"),
		},
		Bands: link.ClassBands{
			Excellent: v.GetFloat64("quality_bands.excellent_db"),
			Good:      v.GetFloat64("quality_bands.good_db"),
			Fair:      v.GetFloat64("quality_bands.fair_db"),
		},
	}
	if err := cfg.Link.Validate(); err != nil {
		return fmt.Errorf("link configuration: %w", err)
	}
	return nil
}
