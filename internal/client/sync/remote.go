package sync

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// Client issues calls against the remote collection API. Semantics are
// fail-soft and retry-free: failures map to the typed taxonomy and the
// scheduler decides whether a later tick retries. The credential is an
// opaque bearer token supplied by the authentication collaborator.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient returns a remote client for baseURL authenticating with the
// given bearer token. httpClient may be nil for http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: baseURL, token: token}
}

// List fetches all of the account's settlements. A missing collection
// set is an empty result, not an error.
func (c *Client) List(ctx context.Context, accountID string) ([]models.Settlement, error) {
	var out []models.Settlement
	err := c.do(ctx, http.MethodGet, c.userdataURL(accountID, ""), nil, &out)
	if errors.Is(err, errors.ErrNotFound) {
		return []models.Settlement{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Settlement{}
	}
	return out, nil
}

// Get fetches a single settlement. Not-found is the distinct NOT_FOUND
// outcome.
func (c *Client) Get(ctx context.Context, accountID, settlementID string) (*models.Settlement, error) {
	var out models.Settlement
	if err := c.do(ctx, http.MethodGet, c.userdataURL(accountID, settlementID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Put upserts one settlement. Idempotent: replaying the same write is
// harmless.
func (c *Client) Put(ctx context.Context, accountID, settlementID string, s models.Settlement) error {
	return c.do(ctx, http.MethodPut, c.userdataURL(accountID, settlementID), &s, nil)
}

// Delete removes one settlement from the remote store.
func (c *Client) Delete(ctx context.Context, accountID, settlementID string) error {
	return c.do(ctx, http.MethodDelete, c.userdataURL(accountID, settlementID), nil, nil)
}

func (c *Client) userdataURL(accountID, settlementID string) string {
	u := fmt.Sprintf("%s/api/users/%s/userdata", c.baseURL, accountID)
	if settlementID != "" {
		u += "/" + settlementID
	}
	return u
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.NewUnauthorized("credential rejected by remote store")
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewNotFound("remote settlement")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.NewNetworkUnavailable(fmt.Errorf("server responded %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.NewNetworkUnavailable(fmt.Errorf("invalid response: %w", err))
		}
	}
	return nil
}

func classifyTransport(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeout(err)
	}
	var nerr net.Error
	if stderrors.As(err, &nerr) && nerr.Timeout() {
		return errors.NewTimeout(err)
	}
	return errors.NewNetworkUnavailable(err)
}
