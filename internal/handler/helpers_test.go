package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/relief-supply/internal/domain"
	"github.com/msomdec/relief-supply/internal/handler"
	"github.com/msomdec/relief-supply/internal/repository/sqlite"
	"github.com/msomdec/relief-supply/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	srv  *httptest.Server
	db   *sqlite.DB
	auth *service.AuthService
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestEnv serves the full router over a fresh SQLite store. configure
// may adjust the router dependencies before routes are registered.
func newTestEnv(t *testing.T, configure func(*handler.Deps)) *testEnv {
	t.Helper()
	db := newTestDB(t)
	auth := service.NewAuthService(db.Users(), service.NewTokenIssuer(testJWTSecret, time.Hour), 4)

	deps := handler.Deps{
		Auth:   auth,
		Supply: service.NewResourceService(domain.CollectionSupply, db.Collection(domain.CollectionSupply)),
		Goods:  service.NewResourceService(domain.CollectionGoods, db.Collection(domain.CollectionGoods)),
		DB:     db,
	}
	if configure != nil {
		configure(&deps)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, deps)
	srv := httptest.NewServer(handler.Chain(mux, []string{"*"}))
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, db: db, auth: auth}
}

// do sends a request with an optional JSON body and decodes the JSON
// response into a map.
func (e *testEnv) do(t *testing.T, method, path string, body any, header http.Header) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("%s %s: expected application/json, got %q", method, path, ct)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}
