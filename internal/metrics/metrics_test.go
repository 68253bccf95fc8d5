package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRelayMetrics_Registered(t *testing.T) {
	before := testutil.ToFloat64(RelayMessagesTotal.WithLabelValues(SourceRemote))
	RelayMessagesTotal.WithLabelValues(SourceRemote).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RelayMessagesTotal.WithLabelValues(SourceRemote)))

	RelayConnectedClients.Set(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(RelayConnectedClients))
	RelayConnectedClients.Set(0)
}

func TestHTTPMetrics_Labels(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/health", "200")), 1.0)
}
