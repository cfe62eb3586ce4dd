package element

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Parse reads 3-line NORAD TLE format from r and returns parsed element sets.
// Malformed entries are skipped with a warning log; the loader boundary is
// the one place lenient handling is allowed.
func Parse(r io.Reader, tags *ConstellationMap, logger *slog.Logger) ([]Set, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading element data: %w", err)
	}

	var sets []Set
	for i := 0; i+2 < len(lines); {
		name := lines[i]
		line1 := lines[i+1]
		line2 := lines[i+2]

		// Validate line prefixes.
		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			// Try to find next valid triplet.
			logger.Warn("skipping malformed element entry", "line_index", i, "name", name)
			i++
			continue
		}

		set, err := parseEntry(name, line1, line2)
		if err != nil {
			logger.Warn("skipping unparseable element entry", "name", name, "error", err)
			i += 3
			continue
		}

		set.Constellation = tags.Resolve(set.NORADID, set.Name)
		sets = append(sets, set)
		i += 3
	}

	return sets, nil
}

// parseEntry extracts the NORAD ID, epoch, and classical elements from one
// TLE entry using the fixed column layout.
func parseEntry(name, line1, line2 string) (Set, error) {
	if len(line1) < 69 || len(line2) < 63 {
		return Set{}, fmt.Errorf("short TLE lines (%d, %d chars)", len(line1), len(line2))
	}

	// NORAD ID from line1 cols 3-7 (0-indexed: 2..7).
	noradID, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return Set{}, fmt.Errorf("invalid NORAD ID %q", line1[2:7])
	}

	// Epoch from line1 cols 19-32 (0-indexed: 18..32).
	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return Set{}, fmt.Errorf("invalid epoch: %w", err)
	}

	field := func(s string, what string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", what, s)
		}
		return v, nil
	}

	incl, err := field(line2[8:16], "inclination")
	if err != nil {
		return Set{}, err
	}
	raan, err := field(line2[17:25], "RAAN")
	if err != nil {
		return Set{}, err
	}
	// Eccentricity has an implied leading decimal point.
	ecc, err := field("0."+strings.TrimSpace(line2[26:33]), "eccentricity")
	if err != nil {
		return Set{}, err
	}
	argp, err := field(line2[34:42], "argument of perigee")
	if err != nil {
		return Set{}, err
	}
	ma, err := field(line2[43:51], "mean anomaly")
	if err != nil {
		return Set{}, err
	}
	mm, err := field(line2[52:63], "mean motion")
	if err != nil {
		return Set{}, err
	}

	return Set{
		NORADID:         noradID,
		Name:            strings.TrimSpace(name),
		Epoch:           epoch,
		Line1:           line1,
		Line2:           line2,
		InclinationDeg:  incl,
		RAANDeg:         raan,
		Eccentricity:    ecc,
		ArgPerigeeDeg:   argp,
		MeanAnomalyDeg:  ma,
		MeanMotionRevPD: mm,
	}, nil
}

// parseEpoch converts a TLE epoch string in YYDDD.DDDDDDDD format to time.Time.
// Year 00-56 → 2000s, 57-99 → 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	// dayOfYear is 1-based: day 1 = Jan 1.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}
