package element

import (
	"log/slog"
	"math"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	issLine1 = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"

	starlinkLine1 = "1 44713U 19074A   24100.50000000  .00001000  00000-0  10000-4 0  9995"
	starlinkLine2 = "2 44713  53.0000 200.0000 0001000  90.0000 270.0000 15.00000000    05"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestParseClassicalElements(t *testing.T) {
	input := "ISS (ZARYA)\n" + issLine1 + "\n" + issLine2 + "\n"

	sets, err := Parse(strings.NewReader(input), nil, testLogger())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("parsed %d sets, want 1", len(sets))
	}

	s := sets[0]
	if s.NORADID != 25544 {
		t.Errorf("NORADID = %d, want 25544", s.NORADID)
	}
	if s.Name != "ISS (ZARYA)" {
		t.Errorf("Name = %q", s.Name)
	}
	if math.Abs(s.InclinationDeg-51.64) > 1e-9 {
		t.Errorf("inclination = %v, want 51.64", s.InclinationDeg)
	}
	if math.Abs(s.Eccentricity-0.0001) > 1e-12 {
		t.Errorf("eccentricity = %v, want 0.0001", s.Eccentricity)
	}
	if math.Abs(s.MeanMotionRevPD-15.5) > 1e-9 {
		t.Errorf("mean motion = %v, want 15.5", s.MeanMotionRevPD)
	}

	// Epoch 24100.5 = 2024 day 100.5 = April 9, 2024 12:00 UTC.
	wantEpoch := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	if !s.Epoch.Equal(wantEpoch) {
		t.Errorf("epoch = %v, want %v", s.Epoch, wantEpoch)
	}
}

func TestParseSkipsMalformed(t *testing.T) {
	input := "GARBAGE\nnot a line 1\nnot a line 2\nSTARLINK-1007\n" +
		starlinkLine1 + "\n" + starlinkLine2 + "\n"

	sets, err := Parse(strings.NewReader(input), nil, testLogger())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("parsed %d sets, want 1 (malformed entry skipped)", len(sets))
	}
	if sets[0].NORADID != 44713 {
		t.Errorf("NORADID = %d, want 44713", sets[0].NORADID)
	}
}

func TestConstellationMapResolution(t *testing.T) {
	m := &ConstellationMap{
		ByID: map[int]string{25544: "ISS"},
		ByPrefix: []PrefixRule{
			{Prefix: "STARLINK", Tag: "starlink"},
			{Prefix: "ONEWEB", Tag: "oneweb"},
		},
	}

	if got := m.Resolve(25544, "ISS (ZARYA)"); got != "iss" {
		t.Errorf("explicit ID mapping: got %q, want \"iss\"", got)
	}
	if got := m.Resolve(44713, "STARLINK-1007"); got != "starlink" {
		t.Errorf("prefix fallback: got %q, want \"starlink\"", got)
	}
	if got := m.Resolve(99999, "MYSTERYSAT 1"); got != "" {
		t.Errorf("unresolvable satellite: got %q, want empty tag", got)
	}
}

func TestParseAttachesConstellationTag(t *testing.T) {
	m := &ConstellationMap{ByPrefix: []PrefixRule{{Prefix: "STARLINK", Tag: "starlink"}}}
	input := "STARLINK-1007\n" + starlinkLine1 + "\n" + starlinkLine2 + "\n"

	sets, err := Parse(strings.NewReader(input), m, testLogger())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sets[0].Constellation != "starlink" {
		t.Errorf("constellation = %q, want \"starlink\"", sets[0].Constellation)
	}
}

func TestAgeDays(t *testing.T) {
	s := Set{Epoch: time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)}
	age := s.AgeDays(time.Date(2024, 4, 19, 12, 0, 0, 0, time.UTC))
	if math.Abs(age-10.0) > 1e-9 {
		t.Errorf("AgeDays = %v, want 10", age)
	}
}
