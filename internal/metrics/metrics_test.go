package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveImport(t *testing.T) {
	runs := ImportsTotal.WithLabelValues("test", "failure")
	errs := ImportRecordsTotal.WithLabelValues("error")
	before, errorsBefore := counterValue(t, runs), counterValue(t, errs)

	ObserveImport("test", false, 2, 3, 40*time.Millisecond)

	assert.Equal(t, before+1, counterValue(t, runs))
	assert.Equal(t, errorsBefore+3, counterValue(t, errs))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "ok", Status(nil))
	assert.Equal(t, "error", Status(errors.New("boom")))
}
