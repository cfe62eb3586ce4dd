package element

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Loader reads raw TLE catalogs from a local file or an HTTP source and
// parses them into a Dataset.
type Loader struct {
	source     string
	tags       *ConstellationMap
	logger     *slog.Logger
	httpClient *http.Client
}

// NewLoader creates a Loader for the given source, which is either a file
// path or an http(s) URL.
func NewLoader(source string, tags *ConstellationMap, logger *slog.Logger) *Loader {
	return &Loader{
		source: source,
		tags:   tags,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Load fetches and parses the catalog.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading element catalog from %s: %w", l.source, err)
	}

	sets, err := Parse(bytes.NewReader(data), l.tags, l.logger)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("element catalog %s contains no parseable entries", l.source)
	}

	minEpoch := sets[0].Epoch
	maxEpoch := sets[0].Epoch
	for _, s := range sets[1:] {
		if s.Epoch.Before(minEpoch) {
			minEpoch = s.Epoch
		}
		if s.Epoch.After(maxEpoch) {
			maxEpoch = s.Epoch
		}
	}

	return &Dataset{
		Source:     l.source,
		LoadedAt:   time.Now().UTC(),
		EpochRange: EpochRange{Min: minEpoch, Max: maxEpoch},
		Satellites: sets,
	}, nil
}

// fetch performs an HTTP GET against the configured source URL.
func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching element data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, l.source)
	}

	return io.ReadAll(resp.Body)
}
