package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationOutcome(t *testing.T) {
	m := New()

	m.NotificationOutcome(OutcomeDelivered)
	m.NotificationOutcome(OutcomeDelivered)
	m.NotificationOutcome(OutcomeFailed)
	m.NotificationOutcome(OutcomeRetried)
	m.NotificationOutcome(OutcomeDropped)
	m.NotificationOutcome("bogus")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotificationsDelivered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsRetried))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDropped))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodPost, "/api/friend/{friendId}", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/friend/{friendId}", http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/friend/{friendId}", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.NotificationOutcome(OutcomeDropped)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "notifications_dropped_total 1")
	assert.Contains(t, body, "go_goroutines")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.NotificationOutcome(OutcomeFailed)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.NotificationsFailed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.NotificationsFailed))
}
