package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveLLM("bedrock", "generate_policy_report", OutcomeSuccess, 2*time.Second)
	r.ObserveLLM("bedrock", "generate_policy_report", OutcomeEmpty, time.Second)
	r.ObserveLLM("bedrock", "generate_policy_report", OutcomeSuccess, time.Second)
	r.ObservePages(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.llmRequests.WithLabelValues("bedrock", "generate_policy_report", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.llmRequests.WithLabelValues("bedrock", "generate_policy_report", OutcomeEmpty)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.llmDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(r.pagesExtracted))
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveLLM("openai", "t", OutcomeError, time.Second)
		r.ObservePages(1)
	})
}
