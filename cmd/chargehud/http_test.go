package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chargehud/internal/control"
)

func doAPI(t *testing.T, h http.Handler, method, path string) (int, control.Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var resp control.Response
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return rec.Code, resp
}

func TestHTTPHandler_API(t *testing.T) {
	f := newEngineFixture(t)
	h := newHTTPHandler(f.engine, nil, discardLogger())

	code, resp := doAPI(t, h, http.MethodGet, "/api/status")
	if code != http.StatusOK || resp.Data == nil || resp.Data.Muted || !resp.Data.Visible {
		t.Fatalf("GET /api/status = %d %+v", code, resp)
	}

	code, resp = doAPI(t, h, http.MethodPost, "/api/toggle/mute")
	if code != http.StatusOK || !resp.Data.Muted {
		t.Fatalf("POST /api/toggle/mute = %d %+v", code, resp)
	}

	code, resp = doAPI(t, h, http.MethodPost, "/api/toggle/visibility")
	if code != http.StatusOK || resp.Data.Visible {
		t.Fatalf("POST /api/toggle/visibility = %d %+v", code, resp)
	}

	evs := f.sink.Events()
	if len(evs) != 2 {
		t.Fatalf("toggle events = %+v, want 2", evs)
	}
}

func TestHTTPHandler_MethodNotAllowed(t *testing.T) {
	f := newEngineFixture(t)
	h := newHTTPHandler(f.engine, nil, discardLogger())

	if code, _ := doAPI(t, h, http.MethodGet, "/api/toggle/mute"); code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/toggle/mute = %d, want 405", code)
	}
	if f.engine.Status().Muted {
		t.Fatalf("GET toggled mute")
	}
}
