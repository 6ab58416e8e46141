package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("GET", "/todos/{id}", 200, 10*time.Millisecond)
	c.RecordRequest("GET", "/todos/{id}", 200, 20*time.Millisecond)
	c.RecordRequest("GET", "/todos/{id}", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/todos/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/todos/{id}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.requestDuration))
}

func TestCollector_AuthCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(LoginSuccess)
	c.RecordLogin(LoginInvalidPassword)
	c.RecordLogin(LoginInvalidPassword)
	c.RecordOTPCreated()
	c.RecordOTPVerification(OTPMismatch)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues(LoginSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.logins.WithLabelValues(LoginInvalidPassword)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otpCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.otpVerified.WithLabelValues(OTPMismatch)))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordOTPCreated()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "todo_otp_created_total 1")
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	assert.Panics(t, func() { NewCollector(reg) })
}
