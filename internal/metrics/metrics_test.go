package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsRegistered(t *testing.T) {
	for name, c := range map[string]prometheus.Collector{
		"duration":  RequestDuration,
		"total":     RequestsTotal,
		"in_flight": RequestsInFlight,
		"errors":    ErrorsTotal,
	} {
		err := prometheus.Register(c)
		if err == nil {
			prometheus.Unregister(c)
			t.Errorf("%s: expected collector to be registered at init", name)
			continue
		}
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}

func TestErrorsTotal(t *testing.T) {
	counter := ErrorsTotal.WithLabelValues("patient", "internal")
	before := testutil.ToFloat64(counter)
	counter.Inc()
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}
