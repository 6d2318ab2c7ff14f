package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"finanse/internal/core"
)

func TestClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/transactions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"type":"Expense","category":"Food","amount":80,"date":"2025-05-01"}]`)
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL+"/", nil).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := core.Transaction{ID: 1, Type: core.Expense, Category: "Food", Amount: 80, Date: "2025-05-01"}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %+v, want [%+v]", got, want)
	}
}

func TestClientListEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `null`)
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, srv.Client()).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}

func TestClientCreate(t *testing.T) {
	tests := []struct {
		name       string
		amount     *float64
		wantAmount string
	}{
		{"number", ptr(12.5), "12.5"},
		{"null amount", nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s", r.Method)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("content type = %q", ct)
				}
				var body map[string]json.RawMessage
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode body: %v", err)
				}
				if got := string(body["amount"]); got != tt.wantAmount {
					t.Errorf("amount = %s, want %s", got, tt.wantAmount)
				}
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, `{"id":5,"type":"Expense","category":"Food","amount":12.5,"date":"2025-05-01"}`)
			}))
			defer srv.Close()

			got, err := NewClient(srv.URL, nil).Create(context.Background(), CreateRequest{
				Type: core.Expense, Category: "Food", Amount: tt.amount, Date: "2025-05-01",
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if got.ID != 5 {
				t.Fatalf("id = %d, want 5", got.ID)
			}
		})
	}
}

func TestClientAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json error", http.StatusBadRequest, `{"error":"missing required fields"}`, "missing required fields"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).Create(context.Background(), CreateRequest{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMsg {
				t.Fatalf("got %d %q, want %d %q", apiErr.Status, apiErr.Message, tt.status, tt.wantMsg)
			}
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewClient(url, nil).List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func ptr(f float64) *float64 { return &f }
