// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func csrfStatus(t *testing.T, allowed []string, method string, headers map[string]string) int {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/api/v1/reload", nil)
	req.Host = "example.com"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	CSRFProtection(allowed)(handler).ServeHTTP(w, req)
	return w.Code
}

func TestCSRFProtection(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		method  string
		headers map[string]string
		want    int
	}{
		{"safe method from foreign origin", nil, http.MethodGet, map[string]string{"Origin": "http://evil.com"}, http.StatusOK},
		{"no origin information", nil, http.MethodPost, nil, http.StatusOK},
		{"same origin", nil, http.MethodPost, map[string]string{"Origin": "http://example.com"}, http.StatusOK},
		{"same origin behind https proxy", nil, http.MethodPost, map[string]string{
			"Origin":            "https://example.com",
			"X-Forwarded-Proto": "https",
		}, http.StatusOK},
		{"cross origin", nil, http.MethodPost, map[string]string{"Origin": "http://evil.com"}, http.StatusForbidden},
		{"configured origin", []string{"http://trusted.com"}, http.MethodPost, map[string]string{"Origin": "http://trusted.com"}, http.StatusOK},
		{"unconfigured origin", []string{"http://trusted.com"}, http.MethodPost, map[string]string{"Origin": "http://evil.com"}, http.StatusForbidden},
		{"wildcard", []string{"*"}, http.MethodPost, map[string]string{"Origin": "http://anything.com"}, http.StatusOK},
		{"token bearer", nil, http.MethodPost, map[string]string{
			"Origin":        "http://evil.com",
			"Authorization": "Bearer s3cret",
		}, http.StatusOK},
		{"referer fallback", nil, http.MethodPost, map[string]string{"Referer": "http://example.com/page"}, http.StatusOK},
		{"cross origin referer", nil, http.MethodPost, map[string]string{"Referer": "http://evil.com/page"}, http.StatusForbidden},
		{"origin wins over referer", nil, http.MethodPost, map[string]string{
			"Origin":  "http://example.com",
			"Referer": "http://evil.com/page",
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csrfStatus(t, tt.allowed, tt.method, tt.headers); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGetRequestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	if origin := getRequestOrigin(req); origin != "" {
		t.Errorf("Expected empty string, got %s", origin)
	}

	req.Header.Set("Referer", "http://example.com/page?query=value")
	if origin := getRequestOrigin(req); origin != "http://example.com" {
		t.Errorf("Expected http://example.com, got %s", origin)
	}

	req.Header.Set("Origin", "http://other.com/")
	if origin := getRequestOrigin(req); origin != "http://other.com" {
		t.Errorf("Expected http://other.com, got %s", origin)
	}
}
