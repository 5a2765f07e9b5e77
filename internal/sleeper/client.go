// Package sleeper talks to the public Sleeper API. It is the only
// place raw feed JSON exists; everything past this boundary works with
// validated value types.
package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const DefaultBaseURL = "https://api.sleeper.app"

var ErrNotFound = errors.New("draft not found")
var ErrUnavailable = errors.New("sleeper unavailable")

type Client struct {
	baseURL    string
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithBackOff overrides the retry policy, mainly so tests can turn
// retries off.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = factory }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 200 * time.Millisecond
			bo.MaxElapsedTime = 10 * time.Second
			return bo
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the draft's current settings and its full ordered pick
// list. Transport errors and 5xx surface as ErrUnavailable after
// retries; a missing draft is ErrNotFound; an undecodable or invalid
// payload is a MalformedError.
func (c *Client) Fetch(ctx context.Context, draftID string) (Draft, []Pick, error) {
	var dr draftResponse
	if err := c.getJSON(ctx, "/v1/draft/"+draftID, &dr); err != nil {
		return Draft{}, nil, fmt.Errorf("fetch draft %s: %w", draftID, err)
	}
	draft, err := dr.toDraft(draftID)
	if err != nil {
		return Draft{}, nil, err
	}

	var prs []pickResponse
	if err := c.getJSON(ctx, "/v1/draft/"+draftID+"/picks", &prs); err != nil {
		return Draft{}, nil, fmt.Errorf("fetch picks %s: %w", draftID, err)
	}
	picks := make([]Pick, 0, len(prs))
	for _, pr := range prs {
		pick, err := pr.toPick(draftID)
		if err != nil {
			return Draft{}, nil, err
		}
		picks = append(picks, pick)
	}

	return draft, picks, nil
}

// User returns the display handle for a Sleeper user id, preferring
// display_name over username.
func (c *Client) User(ctx context.Context, userID string) (string, error) {
	var ur userResponse
	if err := c.getJSON(ctx, "/v1/user/"+userID, &ur); err != nil {
		return "", fmt.Errorf("fetch user %s: %w", userID, err)
	}
	if ur.DisplayName != "" {
		return ur.DisplayName, nil
	}
	return ur.Username, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			io.Copy(io.Discard, resp.Body)
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode >= 500:
			io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			io.Copy(io.Discard, resp.Body)
			return backoff.Permanent(fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s: %w", path, err))
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))
}
