package steam

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := New(Config{
		APIKey:        "test-key",
		WebAPIBaseURL: server.URL,
		StoreBaseURL:  server.URL,
	}, logger)
	// Use the test server's transport so TLS settings match.
	client.http = server.Client()

	return client, server
}

func TestClient_AppList(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		wantCount  int
		wantErr    error
	}{
		{
			name:       "successful listing",
			response:   `{"response":{"apps":[{"appid":10,"name":"Counter-Strike"},{"appid":440,"name":"Team Fortress 2"}]}}`,
			statusCode: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "empty catalog page",
			response:   `{"response":{}}`,
			statusCode: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    ErrRateLimited,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantErr:    ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("include_games"); got != "true" {
					t.Errorf("include_games = %q, want true", got)
				}
				w.WriteHeader(tt.statusCode)
				if tt.response != "" {
					w.Write([]byte(tt.response))
				}
			}

			client, server := newTestClient(t, handler)
			defer server.Close()

			entries, err := client.AppList(context.Background(), 100)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AppList() failed: %v", err)
			}
			if len(entries) != tt.wantCount {
				t.Errorf("got %d entries, want %d", len(entries), tt.wantCount)
			}
		})
	}
}

func TestClient_AppList_MissingKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := New(Config{}, logger)

	_, err := client.AppList(context.Background(), 10)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}

func TestClient_AppIDs_FiltersInvalid(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"apps":[{"appid":10,"name":"a"},{"appid":0,"name":"broken"},{"appid":30,"name":"c"}]}}`))
	}
	client, server := newTestClient(t, handler)
	defer server.Close()

	ids, err := client.AppIDs(context.Background(), 100)
	if err != nil {
		t.Fatalf("AppIDs() failed: %v", err)
	}
	want := []int64{10, 30}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestClient_AppDetail(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantNil  bool
		wantName string
	}{
		{
			name:     "game",
			response: `{"570":{"success":true,"data":{"type":"game","name":"Dota 2","is_free":true,"release_date":{"coming_soon":false,"date":"9 Jul, 2013"},"genres":[{"id":"1","description":"Action"}]}}}`,
			wantName: "Dota 2",
		},
		{
			name:     "not a game",
			response: `{"570":{"success":true,"data":{"type":"dlc","name":"Some DLC"}}}`,
			wantNil:  true,
		},
		{
			name:     "unsuccessful entry",
			response: `{"570":{"success":false}}`,
			wantNil:  true,
		},
		{
			name:     "missing entry",
			response: `{}`,
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.response))
			}
			client, server := newTestClient(t, handler)
			defer server.Close()

			detail, err := client.AppDetail(context.Background(), 570)
			if err != nil {
				t.Fatalf("AppDetail() failed: %v", err)
			}
			if tt.wantNil {
				if detail != nil {
					t.Errorf("expected nil detail, got %+v", detail)
				}
				return
			}
			if detail == nil {
				t.Fatal("expected detail, got nil")
			}
			if detail.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", detail.Name, tt.wantName)
			}
			if detail.AppID != 570 {
				t.Errorf("AppID = %d, want 570", detail.AppID)
			}
			if len(detail.Raw) == 0 {
				t.Error("Raw payload should be retained")
			}
		})
	}
}

func TestClient_AppDetail_PriceAndGenres(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"730":{"success":true,"data":{
			"type":"game","name":"Counter-Strike 2","is_free":false,
			"price_overview":{"currency":"USD","initial":1499,"final":999},
			"genres":[{"id":"1","description":"Action"},{"id":"37","description":"Free To Play"}],
			"release_date":{"coming_soon":false,"date":"21 Aug, 2012"}}}}`))
	}
	client, server := newTestClient(t, handler)
	defer server.Close()

	detail, err := client.AppDetail(context.Background(), 730)
	if err != nil {
		t.Fatalf("AppDetail() failed: %v", err)
	}
	if detail.PriceOverview == nil {
		t.Fatal("expected price overview")
	}
	if detail.PriceOverview.Initial != 1499 || detail.PriceOverview.Final != 999 {
		t.Errorf("price = %+v", detail.PriceOverview)
	}
	if len(detail.Genres) != 2 || detail.Genres[0].Description != "Action" {
		t.Errorf("genres = %+v", detail.Genres)
	}
	if detail.IsFree == nil || *detail.IsFree {
		t.Errorf("IsFree = %v, want false", detail.IsFree)
	}
}

func TestClient_ReviewSummary(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		wantNil    bool
		wantTotal  int64
		wantErr    bool
	}{
		{
			name:       "summary present",
			response:   `{"success":1,"query_summary":{"total_reviews":1234,"total_positive":1000,"review_score":8}}`,
			statusCode: http.StatusOK,
			wantTotal:  1234,
		},
		{
			name:       "no summary block",
			response:   `{"success":2}`,
			statusCode: http.StatusOK,
			wantNil:    true,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if tt.response != "" {
					w.Write([]byte(tt.response))
				}
			}
			client, server := newTestClient(t, handler)
			defer server.Close()

			summary, err := client.ReviewSummary(context.Background(), 570)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReviewSummary() failed: %v", err)
			}
			if tt.wantNil {
				if summary != nil {
					t.Errorf("expected nil summary, got %+v", summary)
				}
				return
			}
			if summary == nil {
				t.Fatal("expected summary, got nil")
			}
			if summary.TotalReviews != tt.wantTotal {
				t.Errorf("TotalReviews = %d, want %d", summary.TotalReviews, tt.wantTotal)
			}
			if len(summary.Raw) == 0 {
				t.Error("Raw query_summary should be retained")
			}
		})
	}
}
