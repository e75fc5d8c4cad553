package sync

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestClientListDecodesSettlements(t *testing.T) {
	var gotURL, gotAuth string
	httpClient := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		gotAuth = r.Header.Get("Authorization")
		return respond(http.StatusOK, `[{"id": "s-1", "name": "Lantern Hoard"}]`), nil
	})}

	c := NewClient(httpClient, "http://remote", "tok-123")
	sets, err := c.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotURL != "http://remote/api/users/alice/userdata" {
		t.Errorf("URL = %q", gotURL)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(sets) != 1 || sets[0].ID != "s-1" {
		t.Errorf("sets = %+v", sets)
	}
}

func TestClientListMissingCollectionIsEmpty(t *testing.T) {
	httpClient := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return respond(http.StatusNotFound, ""), nil
	})}

	sets, err := NewClient(httpClient, "http://remote", "t").List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("List() error = %v, want empty result", err)
	}
	if sets == nil || len(sets) != 0 {
		t.Errorf("sets = %v, want empty non-nil slice", sets)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		code   errors.ErrorCode
	}{
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusForbidden, errors.ErrUnauthorized},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusInternalServerError, errors.ErrNetworkUnavailable},
		{http.StatusBadGateway, errors.ErrNetworkUnavailable},
	}
	for _, tt := range tests {
		httpClient := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return respond(tt.status, ""), nil
		})}
		_, err := NewClient(httpClient, "http://remote", "t").Get(context.Background(), "alice", "s-1")
		if !errors.Is(err, tt.code) {
			t.Errorf("status %d: err = %v, want code %s", tt.status, err, tt.code)
		}
	}
}

func TestClientPutSendsSettlement(t *testing.T) {
	var gotMethod, gotURL string
	var gotBody models.Settlement
	httpClient := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotMethod = r.Method
		gotURL = r.URL.String()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		return respond(http.StatusOK, `{}`), nil
	})}

	s := models.Settlement{ID: "s-1", Name: "Lantern Hoard"}
	err := NewClient(httpClient, "http://remote", "t").Put(context.Background(), "alice", "s-1", s)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %s", gotMethod)
	}
	if gotURL != "http://remote/api/users/alice/userdata/s-1" {
		t.Errorf("URL = %q", gotURL)
	}
	if gotBody.ID != "s-1" || gotBody.Name != "Lantern Hoard" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestClientDelete(t *testing.T) {
	var gotMethod, gotURL string
	httpClient := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotMethod = r.Method
		gotURL = r.URL.String()
		return respond(http.StatusOK, ""), nil
	})}

	err := NewClient(httpClient, "http://remote", "t").Delete(context.Background(), "alice", "s-1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotMethod != http.MethodDelete || gotURL != "http://remote/api/users/alice/userdata/s-1" {
		t.Errorf("%s %s", gotMethod, gotURL)
	}
}

func TestClientCancelledContextIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err := NewClient(srv.Client(), srv.URL, "t").List(ctx, "alice")
	if !errors.Is(err, errors.ErrTimeout) {
		t.Errorf("err = %v, want TIMEOUT", err)
	}
}
