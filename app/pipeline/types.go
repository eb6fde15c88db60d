package pipeline

import "fmt"

// Outcome summarizes one successful pipeline run. Not persisted.
type Outcome struct {
	Fetched   int `json:"fetched"`
	Published int `json:"published"`
	Inserted  int `json:"inserted"`
}

// Reason is a stable machine-readable code for a fatal run failure.
type Reason string

const (
	ReasonMissingNewsAPISecret Reason = "missing_newsapi_secret"
	ReasonMissingKafkaSecret   Reason = "missing_kafka_secret"
	ReasonSecretFetchFailed    Reason = "secret_fetch_failed"
	ReasonMissingAPIKey        Reason = "missing_api_key"
	ReasonMissingTable         Reason = "missing_table"
	ReasonKafkaInitFailed      Reason = "kafka_init_failed"
	ReasonFetchFailed          Reason = "fetch_failed"
)

// RunError is a fatal, whole-run failure. Configuration failures occur before
// any external write; a fetch failure discards any pages already accumulated.
type RunError struct {
	Reason Reason
	Err    error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("run failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("run failed (%s)", e.Reason)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func fail(reason Reason, err error) (*Outcome, error) {
	return nil, &RunError{Reason: reason, Err: err}
}
