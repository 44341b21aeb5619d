package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteCallbackPage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeCallbackPage(rec, http.StatusOK, "Notion connected", "You can close this window.")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Notion connected") {
		t.Fatalf("missing title: %s", body)
	}
	if !strings.Contains(body, "window.close()") {
		t.Fatalf("success page should close itself: %s", body)
	}

	rec = httptest.NewRecorder()
	writeCallbackPage(rec, http.StatusBadRequest, "Connection failed", "The link has expired.")
	if strings.Contains(rec.Body.String(), "window.close()") {
		t.Fatalf("error page must stay open: %s", rec.Body.String())
	}
}
