package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	job := "rating-recompute"
	m.ObserveDuration(job, 250*time.Millisecond)
	m.IncSuccess(job)
	m.IncFailure(job)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := counterValue(mfs, "job_success", "job", job)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = counterValue(mfs, "job_failure", "job", job)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	sum, err := histogramSum(mfs, "job_duration_seconds", "job", job)
	require.NoError(t, err)
	assert.Greater(t, sum, 0.0)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodGet, "/api/v1/stores/search", http.StatusOK, 10*time.Millisecond)
	m.Observe(http.MethodGet, "/api/v1/stores/search", http.StatusOK, 20*time.Millisecond)
	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := counterValue(mfs, "http_requests_total", "route", "/api/v1/stores/search")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = counterValue(mfs, "http_requests_total", "route", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestNilRecordersAreNoops(t *testing.T) {
	var h *HTTPMetrics
	var c *CronJobMetrics
	var d *DirectoryMetrics

	assert.NotPanics(t, func() {
		h.Observe(http.MethodGet, "/", http.StatusOK, time.Second)
		c.IncSuccess("job")
		d.Inc("submission", "created")
		NewDirectoryMetrics(nil).Inc("claim", "created")
	})
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	var total float64
	var found bool
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			total += metric.GetCounter().GetValue()
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return total, nil
}

func histogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, l := range labels {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}
