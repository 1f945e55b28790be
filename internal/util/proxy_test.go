package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProxyFunc(t *testing.T) {
	proxy := ProxyFunc("http://proxy.internal:3128", "http://sproxy.internal:3128", "api.data.gov.in, localhost")

	tests := []struct {
		name   string
		target string
		want   string // "" means direct
	}{
		{"http via http proxy", "http://example.com/x", "http://proxy.internal:3128"},
		{"https via https proxy", "https://example.com/x", "http://sproxy.internal:3128"},
		{"no-proxy host direct", "https://api.data.gov.in/resource/abc", ""},
		{"no-proxy subdomain direct", "http://files.api.data.gov.in/dump", ""},
		{"no-proxy second entry", "http://localhost:8000/health", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("proxy func: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected direct connection, got proxy %s", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Fatalf("proxy = %v, want %s", got, tt.want)
			}
		})
	}
}
