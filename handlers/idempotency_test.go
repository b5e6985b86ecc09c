package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUseIdempotency(t *testing.T) {
	next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusCreated)
	})

	h := UseIdempotency(next, IdempotencyHandlerOptions{
		Expiry:      time.Hour,
		IgnorePaths: []string{"/health"},
	}, NewIdempotencyStoreLocal())

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/keys", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})

	t.Run("first use passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/keys", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, rr.Code)
		}
	})

	t.Run("second use conflicts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/keys", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, rr.Code)
		}
	})

	t.Run("non-POST ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/keys", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, rr.Code)
		}
	})

	t.Run("ignored path passes without header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health/ready", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, rr.Code)
		}
	})
}

func TestIdempotencyStoreLocalExpiry(t *testing.T) {
	store := NewIdempotencyStoreLocal()

	if err := store.Set("key-1", -time.Second); err != nil {
		t.Fatal(err)
	}

	exists, err := store.Get("key-1")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("expected expired key to be gone")
	}
}
