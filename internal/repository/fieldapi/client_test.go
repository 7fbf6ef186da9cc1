package fieldapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easytrack/backend/internal/domain"
	"github.com/easytrack/backend/internal/mapdata"
)

func TestClientGetAll(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/field-data", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"_id":"1","title":"Site A","category":"water","latitude":40,"longitude":30}]`))
		}))
		defer server.Close()

		client := NewClient(server.URL+"/api/", "secret", time.Second)
		records, err := client.GetAll(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Site A", records[0].Title)
	})

	t.Run("no token means no authorization header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		records, err := NewClient(server.URL, "", time.Second).GetAll(context.Background())

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("HTTP errors are fetch errors", func(t *testing.T) {
		tests := []struct {
			name     string
			status   int
			body     string
			contains string
		}{
			{"unauthorized", http.StatusUnauthorized, `{"message":"token expired"}`, "authorization error (HTTP 401): token expired"},
			{"rate limited", http.StatusTooManyRequests, ``, "rate limit exceeded"},
			{"server error", http.StatusInternalServerError, `oops`, "unexpected HTTP status 500"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				}))
				defer server.Close()

				_, err := NewClient(server.URL, "", time.Second).GetAll(context.Background())

				var fetchErr *domain.FetchError
				require.ErrorAs(t, err, &fetchErr)
				assert.Equal(t, sourceName, fetchErr.Source)
				assert.Contains(t, err.Error(), tt.contains)
			})
		}
	})

	t.Run("one malformed record keeps the rest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[
				{"_id":"1","title":"Site A","category":"water","latitude":40,"longitude":30,"updatedAt":"2025-03-14T11:00:00Z"},
				{"_id":"2","title":"Site B","category":"health","latitude":"50","longitude":10,"updatedAt":"2025-03-14"}
			]`))
		}))
		defer server.Close()

		records, err := NewClient(server.URL, "", time.Second).GetAll(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Site A", records[0].Title)
		require.NotNil(t, records[1].Latitude)
		assert.Equal(t, 50.0, *records[1].Latitude)
	})

	t.Run("malformed body is a fetch error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"unexpected":true}`))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, "", time.Second).GetAll(context.Background())

		var fetchErr *domain.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.ErrorIs(t, err, mapdata.ErrInvalidInput)
	})

	t.Run("unreachable server is a fetch error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := NewClient(url, "", time.Second).GetAll(context.Background())

		var fetchErr *domain.FetchError
		assert.ErrorAs(t, err, &fetchErr)
	})

	t.Run("context cancellation aborts the request", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := NewClient(server.URL, "", 5*time.Second).GetAll(ctx)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestClientCreate(t *testing.T) {
	t.Run("posts the record", func(t *testing.T) {
		var received domain.RawRecord
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		err := NewClient(server.URL, "", time.Second).Create(context.Background(), domain.RawRecord{ID: "abc", Title: "Well"})

		require.NoError(t, err)
		assert.Equal(t, "abc", received.ID)
		assert.Equal(t, "Well", received.Title)
	})

	t.Run("rejected create returns error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		err := NewClient(server.URL, "", time.Second).Create(context.Background(), domain.RawRecord{ID: "abc"})

		assert.ErrorContains(t, err, "HTTP 403")
	})

	t.Run("truncated response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, buf, err := w.(http.Hijacker).Hijack()
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()
			_, _ = buf.WriteString("HTTP/1.1 201 Created\r\nContent-Length: 100\r\n\r\nshort")
			_ = buf.Flush()
		}))
		defer server.Close()

		err := NewClient(server.URL, "", time.Second).Create(context.Background(), domain.RawRecord{ID: "abc"})

		assert.ErrorContains(t, err, "failed to read create response")
	})
}

func TestClientHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	assert.NoError(t, NewClient(server.URL, "", time.Second).Health(context.Background()))
}
