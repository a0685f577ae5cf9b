package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pkt.systems/inkline/internal/logx"
	"pkt.systems/inkline/schema"
)

const defaultRefreshTimeout = 15 * time.Second

type modelListResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// RefreshModels asks the provider's API for its model list and merges new
// ids into the registry as disabled models. Already-known models keep their
// enabled and selected flags. It returns how many models were added.
func (s *Store) RefreshModels(ctx context.Context, provider, apiKey string, timeout time.Duration) (int, error) {
	id, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return 0, err
	}
	rec, err := s.Provider(string(id))
	if err != nil {
		return 0, err
	}
	if rec.BaseURL == "" {
		return 0, fmt.Errorf("provider %s has no base_url configured", id)
	}
	log := logx.WithProvider(ctx, id)
	started := time.Now()
	ids, err := fetchModelIDs(ctx, rec.BaseURL, apiKey, timeout)
	if err != nil {
		log.Warn("model refresh failed", "err", err, "duration_ms", time.Since(started).Milliseconds())
		return 0, err
	}
	added, err := s.MergeModels(string(id), ids)
	if err != nil {
		return 0, err
	}
	log.Debug("model refresh completed", "models", len(ids), "added", added, "duration_ms", time.Since(started).Milliseconds())
	return added, nil
}

// fetchModelIDs performs GET {baseURL}/models and decodes the conventional
// {"data":[{"id":"..."}]} shape. Entries whose id does not survive
// normalization are skipped rather than failing the whole refresh.
func fetchModelIDs(ctx context.Context, baseURL, apiKey string, timeout time.Duration) ([]schema.ModelID, error) {
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}
	url := strings.TrimRight(baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("request %s failed: %s; body=%s", url, resp.Status, strings.TrimSpace(string(body)))
	}
	var payload modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", url, err)
	}
	ids := make([]schema.ModelID, 0, len(payload.Data))
	for _, entry := range payload.Data {
		id, err := schema.NormalizeModelID(entry.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
