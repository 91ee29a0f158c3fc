package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("crm_test", reg)

	m.RecordRequest("/tickets", "POST", 201, 15*time.Millisecond)
	m.RecordError("/tickets", "POST", "VALIDATION_FAILED")
	m.RecordTicketCreated(true)
	m.RecordTicketCreated(false)
	m.RecordMessageSent(true)
	m.RecordMessageSent(false)
	m.RecordKanbanWrite("plan_restricted")

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/tickets", "POST", "201")); got != 1 {
		t.Errorf("http requests = %v", got)
	}
	if got := testutil.ToFloat64(m.TicketsCreated.WithLabelValues("new")); got != 1 {
		t.Errorf("tickets created(new) = %v", got)
	}
	if got := testutil.ToFloat64(m.MessagesSent); got != 2 {
		t.Errorf("messages sent = %v", got)
	}
	if got := testutil.ToFloat64(m.StatusPromotions); got != 1 {
		t.Errorf("promotions = %v", got)
	}
	if got := testutil.ToFloat64(m.KanbanWrites.WithLabelValues("plan_restricted")); got != 1 {
		t.Errorf("kanban writes = %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordTicketCreated(true)
	m.RecordMessageSent(true)
	m.RecordKanbanWrite("ok")
}
