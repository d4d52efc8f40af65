package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetIsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestCountersExposed(t *testing.T) {
	m := Get()
	before := testutil.ToFloat64(m.DocumentSaves.WithLabelValues("ok"))

	m.DocumentSaves.WithLabelValues("ok").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(m.DocumentSaves.WithLabelValues("ok")))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "folio_document_saves_total")
}
