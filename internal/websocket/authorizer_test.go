package websocket

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestOriginAuthorizer_CheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed string
		origin  string
		want    bool
	}{
		{"wildcard allows anything", "*", "https://anything.example", true},
		{"empty origin allowed", "https://app.example", "", true},
		{"exact match", "https://app.example", "https://app.example", true},
		{"case insensitive host", "https://app.example", "https://APP.example", true},
		{"trailing path in config", "https://app.example/dashboard", "https://app.example", true},
		{"different host", "https://app.example", "https://evil.example", false},
		{"different scheme", "https://app.example", "http://app.example", false},
		{"different port", "https://app.example", "https://app.example:8443", false},
		{"list of origins", "https://a.example, https://b.example", "https://b.example", true},
		{"garbage config", "not a url", "https://app.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewOriginAuthorizer(tt.allowed, NewWebSocketLoggerWith(zap.NewNop()))
			r, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/api/socketio", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, a.CheckOrigin(r))
		})
	}
}
