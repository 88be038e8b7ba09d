package cloudflare

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPurgeHosts_Success(t *testing.T) {
	var gotBody map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/zones/zone123/purge_cache" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token123" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"success":true,"errors":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token123", "zone123")
	err := c.PurgeHosts(context.Background(), []string{"demo.apps.example.net", "shop.example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotBody["hosts"]) != 2 {
		t.Errorf("hosts = %v, want 2 entries", gotBody["hosts"])
	}
}

func TestPurgeHosts_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", "zone")
	if err := c.PurgeHosts(context.Background(), []string{"demo.apps.example.net"}); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestPurgeHosts_APIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"errors":[{"code":1002,"message":"invalid zone"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", "zone")
	if err := c.PurgeHosts(context.Background(), []string{"demo.apps.example.net"}); err == nil {
		t.Fatal("expected error when success=false")
	}
}

func TestPurgeHosts_EmptyList(t *testing.T) {
	c := NewClient("http://unreachable.invalid", "token", "zone")
	if err := c.PurgeHosts(context.Background(), nil); err != nil {
		t.Errorf("empty host list should be a no-op, got %v", err)
	}
}

func TestQueryTraffic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req graphqlRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Variables["host"] != "demo.apps.example.net" {
			t.Errorf("host variable = %v", req.Variables["host"])
		}
		w.Write([]byte(`{
			"data": {
				"viewer": {
					"zones": [{
						"httpRequestsAdaptiveGroups": [
							{"count": 100, "sum": {"edgeResponseBytes": 2048}, "quantiles": {"edgeTimeToFirstByteMsP50": 12.5, "edgeTimeToFirstByteMsP95": 80, "edgeTimeToFirstByteMsP99": 190}},
							{"count": 50, "sum": {"edgeResponseBytes": 1024}, "quantiles": {"edgeTimeToFirstByteMsP50": 11, "edgeTimeToFirstByteMsP95": 70, "edgeTimeToFirstByteMsP99": 150}}
						]
					}]
				}
			},
			"errors": []
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", "zone")
	until := time.Now()
	stats, err := c.QueryTraffic(context.Background(), "demo.apps.example.net", until.Add(-time.Hour), until)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Requests != 150 {
		t.Errorf("requests = %d, want 150", stats.Requests)
	}
	if stats.Bytes != 3072 {
		t.Errorf("bytes = %d, want 3072", stats.Bytes)
	}
	if stats.TTFBMsP50 != 11 {
		t.Errorf("p50 = %v, want 11", stats.TTFBMsP50)
	}
}

func TestQueryTraffic_GraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"code":0,"message":"zone not authorized"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", "zone")
	_, err := c.QueryTraffic(context.Background(), "demo.apps.example.net", time.Unix(0, 0), time.Now())
	if err == nil {
		t.Fatal("expected error for graphql errors")
	}
}
