package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic(重复注册)

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, CatalogResultSize)
	assert.NotNil(t, AlertRunsTotal)
	assert.NotNil(t, AlertsDispatched)
}

func TestCounter(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(AlertMessagesMarked)
	IncCounter(AlertMessagesMarked)
	AddCounter(AlertMessagesMarked, 2)

	assert.Equal(t, before+3, testutil.ToFloat64(AlertMessagesMarked))
}

func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "GET", "path": "/api/v1/books/all", "status": "200"}
	before := testutil.ToFloat64(HTTPRequestsTotal.With(labels))

	IncCounterVec(HTTPRequestsTotal, labels)
	IncCounterVec(HTTPRequestsTotal, labels)
	IncCounterVec(HTTPRequestsTotal, map[string]string{"method": "POST", "path": "/api/v1/books/search-with-filters", "status": "200"})

	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequestsTotal.With(labels)))
}

func TestGauge(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsInProgress))
}
