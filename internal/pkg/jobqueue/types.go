package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeOrderConfirmation JobType = "order_confirmation_email"
	JobTypeMenuCacheRefresh  JobType = "menu_cache_refresh"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// OrderConfirmationJobPayload contains the payload for confirmation email jobs
type OrderConfirmationJobPayload struct {
	OrderID uint `json:"order_id"`
}

// ToMap converts the payload to a map for storage
func (p OrderConfirmationJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"order_id": p.OrderID,
	}
}

// OrderConfirmationJobPayloadFromMap creates a payload from a map
func OrderConfirmationJobPayloadFromMap(data map[string]interface{}) (*OrderConfirmationJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload OrderConfirmationJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// MenuCacheRefreshJobPayload contains the payload for menu cache refresh jobs
type MenuCacheRefreshJobPayload struct {
	RestaurantID uint `json:"restaurant_id"`
}

// ToMap converts the payload to a map for storage
func (p MenuCacheRefreshJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"restaurant_id": p.RestaurantID,
	}
}

// MenuCacheRefreshJobPayloadFromMap creates a payload from a map
func MenuCacheRefreshJobPayloadFromMap(data map[string]interface{}) (*MenuCacheRefreshJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload MenuCacheRefreshJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// MarkAsProcessing marks the job as currently being processed
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks the job as failed with an error message
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMsg = errorMsg
	j.UpdatedAt = time.Now()
}

// MarkAsRetrying marks the job for another attempt
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.RetryCount++
	j.UpdatedAt = time.Now()
}

// IsRetryable reports whether the job has retry attempts left
func (j *Job) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}
