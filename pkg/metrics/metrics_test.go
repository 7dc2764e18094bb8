package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer("barber", prometheus.NewRegistry())

	m.AppointmentCreated()
	m.AppointmentCreated()
	m.SlotConflict()
	m.AppointmentCanceled("client")
	m.ObserveHTTP("GET", "/api/v1/x", 404, time.Millisecond)
	m.ObserveDBQuery("query", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentsCreated.WithLabelValues("barber")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotConflicts.WithLabelValues("barber")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsCanceled.WithLabelValues("barber", "client")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("barber", "GET", "/api/v1/x", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("barber", "query")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AppointmentCreated()
		m.AppointmentCanceled("staff")
		m.SlotConflict()
		m.ObserveSlotComputation(time.Second)
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.ObserveDBQuery("exec", time.Second, nil)
		m.SetDBPoolStats(1, 1, 0)
	})
}
