package identity

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"context"
)

// DirectoryClient talks to the external identity directory over HTTP. It
// rate-limits itself so a burst of dashboard reads cannot trip the
// directory's quota, and bounds every call with the client timeout.
type DirectoryClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewDirectoryClient(baseURL, token string, requestsPerSecond int) *DirectoryClient {
	if requestsPerSecond < 1 {
		requestsPerSecond = 10
	}
	return &DirectoryClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// Resolve fetches one profile. A 404 means the directory has no record and
// is not an error; transport and server failures map to
// ErrDirectoryUnavailable.
func (c *DirectoryClient) Resolve(ctx context.Context, guestID string) (*Profile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ErrDirectoryUnavailable
	}

	endpoint := fmt.Sprintf("%s/profiles/%s", c.baseURL, url.PathEscape(guestID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request failed: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, ErrDirectoryUnavailable
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if p.ID == "" {
		p.ID = guestID
	}
	return &p, nil
}

// ResolveBatch resolves each id individually; a failed lookup yields a nil
// entry rather than failing the whole batch.
func (c *DirectoryClient) ResolveBatch(ctx context.Context, guestIDs []string) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(guestIDs))
	for _, id := range guestIDs {
		p, err := c.Resolve(ctx, id)
		if err != nil {
			out[id] = nil
			continue
		}
		out[id] = p
	}
	return out, nil
}
