package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycleMarkers(t *testing.T) {
	job := &Job{
		ID:         "job-1",
		Type:       JobTypeOrderConfirmation,
		Status:     JobStatusPending,
		CreatedAt:  time.Now(),
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("smtp unreachable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "smtp unreachable", job.ErrorMsg)
	assert.True(t, job.IsRetryable())

	for i := 0; i < DefaultMaxRetries; i++ {
		job.MarkAsRetrying()
	}
	assert.False(t, job.IsRetryable(), "retries must be bounded by MaxRetries")

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
}

func TestOrderConfirmationPayloadRoundTrip(t *testing.T) {
	payload := OrderConfirmationJobPayload{OrderID: 123}

	restored, err := OrderConfirmationJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, uint(123), restored.OrderID)
}

func TestMenuCacheRefreshPayloadFromJobMap(t *testing.T) {
	// Payload maps round-trip through JSON in Redis, so numbers come back
	// as float64. FromMap must tolerate that.
	restored, err := MenuCacheRefreshJobPayloadFromMap(map[string]interface{}{
		"restaurant_id": float64(7),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), restored.RestaurantID)
}
