package websocket

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// OriginAuthorizer decides which browser origins may open a relay connection.
type OriginAuthorizer struct {
	allowAll bool
	allowed  map[string]struct{}
	logger   *WebSocketLogger
}

// NewOriginAuthorizer builds an authorizer from a comma separated origin list.
// "*" allows every origin.
func NewOriginAuthorizer(origins string, logger *WebSocketLogger) *OriginAuthorizer {
	a := &OriginAuthorizer{allowed: make(map[string]struct{}), logger: logger}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if o == "*" {
			a.allowAll = true
			continue
		}
		if normalized := normalizeOrigin(o); normalized != "" {
			a.allowed[normalized] = struct{}{}
		}
	}
	return a
}

// CheckOrigin matches the signature of websocket.Upgrader.CheckOrigin.
// Requests without an Origin header are non-browser clients and are allowed.
func (a *OriginAuthorizer) CheckOrigin(r *http.Request) bool {
	if a.allowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := a.allowed[normalizeOrigin(origin)]; ok {
		return true
	}
	if a.logger != nil {
		a.logger.logger.Warn("websocket origin rejected",
			zap.String("origin", origin),
			zap.String("remote_addr", r.RemoteAddr),
		)
	}
	return false
}

func normalizeOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}
