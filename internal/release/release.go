// Package release checks a published metadata document for newer builds.
package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pkt.systems/pslog"
)

const defaultFetchTimeout = 15 * time.Second

// Metadata is the published release document.
type Metadata struct {
	Version string `json:"version"`
	URL     string `json:"url,omitempty"`
}

// Status summarizes a release check.
type Status struct {
	Current         string
	Latest          string
	DownloadURL     string
	UpdateAvailable bool
}

// Check fetches the release document at url and compares its version
// against the running one.
func Check(ctx context.Context, url, current string, timeout time.Duration) (Status, error) {
	log := pslog.Ctx(ctx)
	started := time.Now()
	meta, err := Fetch(ctx, url, timeout)
	if err != nil {
		log.Warn("release check failed", "err", err, "duration_ms", time.Since(started).Milliseconds())
		return Status{Current: current}, err
	}
	status := Status{
		Current:         current,
		Latest:          meta.Version,
		DownloadURL:     meta.URL,
		UpdateAvailable: Compare(meta.Version, current) > 0,
	}
	log.Debug("release check completed", "latest", status.Latest, "update_available", status.UpdateAvailable, "duration_ms", time.Since(started).Milliseconds())
	return status, nil
}

// Fetch retrieves and decodes the release metadata document.
func Fetch(ctx context.Context, url string, timeout time.Duration) (Metadata, error) {
	if strings.TrimSpace(url) == "" {
		return Metadata{}, errors.New("release url is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return Metadata{}, fmt.Errorf("request %s failed: %s; body=%s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return Metadata{}, fmt.Errorf("decode response: %w", err)
	}
	meta.Version = strings.TrimSpace(meta.Version)
	if meta.Version == "" {
		return Metadata{}, fmt.Errorf("release document at %s has no version", url)
	}
	return meta, nil
}

// Compare orders two dot-separated versions. A leading "v" is ignored and
// any component that does not parse as a number counts as zero, so
// "v1.2.3" equals "1.2.3" and "(devel)" sorts below every release. It
// returns -1, 0 or 1.
func Compare(a, b string) int {
	as := components(a)
	bs := components(b)
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

func components(version string) []int {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	parts := strings.Split(version, ".")
	out := make([]int, len(parts))
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out[i] = value
	}
	return out
}
