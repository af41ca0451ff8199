package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		username:    "digger",
		userAgent:   "test-agent",
		baseURL:     server.URL,
		httpClient:  newHTTPClient("secret", server.Client().Transport, 5*time.Second),
		interval:    time.Millisecond,
		retryDelays: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
	}
}

func TestListCollectionPage(t *testing.T) {
	var gotAuth, gotAgent, gotPath, gotPage, gotPerPage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("per_page")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"pagination": {"page": 2, "pages": 3, "per_page": 50, "items": 120},
			"releases": [{
				"id": 100,
				"instance_id": 9,
				"date_added": "2024-01-15T10:30:00-08:00",
				"basic_information": {
					"id": 100,
					"title": "Night Moves",
					"year": 1998,
					"artists": [{"name": "Artist One"}],
					"labels": [{"name": "Label A", "catno": "LA-001"}],
					"formats": [{"name": "Vinyl", "qty": "1", "descriptions": ["12\"", "33 ⅓ RPM"]}]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	items, pages, err := client.ListCollectionPage(context.Background(), 0, 2, 50)
	if err != nil {
		t.Fatalf("ListCollectionPage() error = %v", err)
	}

	if gotAuth != "Discogs token=secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Discogs token=secret")
	}
	if gotAgent != "test-agent" {
		t.Errorf("User-Agent = %q, want test-agent", gotAgent)
	}
	if gotPath != "/users/digger/collection/folders/0/releases" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPage != "2" || gotPerPage != "50" {
		t.Errorf("page = %q, per_page = %q, want 2 and 50", gotPage, gotPerPage)
	}
	if pages != 3 {
		t.Errorf("pages = %d, want 3", pages)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	info := items[0].BasicInformation
	if info.ID != 100 || info.Title != "Night Moves" || info.Year != 1998 {
		t.Errorf("unexpected basic information: %+v", info)
	}
	if len(info.Formats) != 1 || len(info.Formats[0].Descriptions) != 2 {
		t.Errorf("unexpected formats: %+v", info.Formats)
	}
	if info.Labels[0].CatNo != "LA-001" {
		t.Errorf("catno = %q, want LA-001", info.Labels[0].CatNo)
	}
}

func TestListCollectionPage_EmptyReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pagination": {"page": 1, "pages": 0}}`))
	}))
	defer server.Close()

	items, pages, err := newTestClient(server).ListCollectionPage(context.Background(), 0, 1, 100)
	if err != nil {
		t.Fatalf("ListCollectionPage() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", items)
	}
	if pages != 0 {
		t.Errorf("pages = %d, want 0", pages)
	}
}

func TestGetReleaseDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases/42" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		detail := ReleaseDetail{
			ID:       42,
			Title:    "Deep Cuts",
			Released: "1999-03-01",
			ExtraArtists: []ExtraArtist{
				{Name: "X", Role: "Producer"},
			},
			Tracklist: []Track{
				{Position: "A1", Title: "Opening", Duration: "6:01"},
				{Position: "B1", Title: "Remix", ExtraArtists: []ExtraArtist{{Name: "Y", Role: "Remix"}}},
			},
		}
		json.NewEncoder(w).Encode(detail)
	}))
	defer server.Close()

	detail, err := newTestClient(server).GetReleaseDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetReleaseDetail() error = %v", err)
	}
	if detail.Released != "1999-03-01" {
		t.Errorf("Released = %q", detail.Released)
	}
	if len(detail.Tracklist) != 2 {
		t.Fatalf("got %d tracks, want 2", len(detail.Tracklist))
	}
	if got := detail.Tracklist[1].ExtraArtists[0].Role; got != "Remix" {
		t.Errorf("track extra artist role = %q, want Remix", got)
	}
}

func TestGetReleaseDetail_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message": "nope"}`))
			}))
			defer server.Close()

			detail, err := newTestClient(server).GetReleaseDetail(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetReleaseDetail() error = %v, want %v", err, tt.wantErr)
			}
			if detail != nil {
				t.Errorf("GetReleaseDetail() detail = %+v, want nil", detail)
			}
		})
	}
}

func TestGetReleaseDetail_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "boom"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).GetReleaseDetail(context.Background(), 1)
	if err == nil {
		t.Fatal("GetReleaseDetail() error = nil, want error")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrRateLimited) {
		t.Errorf("GetReleaseDetail() error = %v, want plain API error", err)
	}
}

func TestGetReleaseDetail_RateLimitRetry(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Fail first 2 requests with rate limit, succeed on 3rd
		if requestCount.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id": 7, "tracklist": [{"position": "A", "title": "Only"}]}`))
	}))
	defer server.Close()

	detail, err := newTestClient(server).GetReleaseDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetReleaseDetail() error = %v", err)
	}
	if len(detail.Tracklist) != 1 {
		t.Errorf("got %d tracks, want 1", len(detail.Tracklist))
	}
	if count := requestCount.Load(); count != 3 {
		t.Errorf("Expected 3 requests, got %d", count)
	}
}

func TestGetReleaseDetail_RateLimitExhausted(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server).GetReleaseDetail(context.Background(), 7)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("GetReleaseDetail() error = %v, want ErrRateLimited", err)
	}

	// 1 initial + 3 retries
	if count := requestCount.Load(); count != 4 {
		t.Errorf("Expected 4 requests, got %d", count)
	}
}

func TestDoRequest_Pacing(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.interval = 50 * time.Millisecond

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.GetReleaseDetail(context.Background(), 1); err != nil {
			t.Fatalf("GetReleaseDetail() error = %v", err)
		}
	}

	// The third request cannot start before two full intervals have passed.
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("3 requests took %v, want at least 100ms", elapsed)
	}
	if count := requestCount.Load(); count != 3 {
		t.Errorf("Expected 3 requests, got %d", count)
	}
}

func TestDoRequest_ContextCanceledDuringPacing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	client.interval = time.Hour

	if _, err := client.GetReleaseDetail(context.Background(), 1); err != nil {
		t.Fatalf("first GetReleaseDetail() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetReleaseDetail(ctx, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GetReleaseDetail() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"5", 5 * time.Second},
		{"-1", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(&Config{Token: "t", Username: "u", RequestInterval: 10 * time.Millisecond})

	if client.username != "u" {
		t.Errorf("NewClient() username = %s, want u", client.username)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("NewClient() baseURL = %s, want %s", client.baseURL, DefaultBaseURL)
	}
	if client.userAgent != DefaultUserAgent {
		t.Errorf("NewClient() userAgent = %s, want %s", client.userAgent, DefaultUserAgent)
	}
	if client.interval != DefaultRequestInterval {
		t.Errorf("NewClient() interval = %v, want floor of %v", client.interval, DefaultRequestInterval)
	}
	if client.httpClient == nil {
		t.Error("NewClient() httpClient is nil")
	}
}
