package httpx

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "invalid_amount", map[string]string{"amount": "must_be_positive"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	want := `{"error":"invalid_amount","details":{"amount":"must_be_positive"}}` + "\n"
	if got := w.Body.String(); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
	if cl := w.Header().Get("Content-Length"); cl != strconv.Itoa(len(want)) {
		t.Fatalf("content length = %s, want %d", cl, len(want))
	}
}

func TestJSONNil(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	if w.Body.String() != "null\n" {
		t.Fatalf("expected null body got %q", w.Body.String())
	}
}

func TestJSONDoesNotEscapeHTML(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"method": "<cash>&"})
	if got := w.Body.String(); got != `{"method":"<cash>&"}`+"\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestJSONEncodeError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"error":"encode_error"}`+"\n" {
		t.Fatalf("unexpected body %q", got)
	}
}
