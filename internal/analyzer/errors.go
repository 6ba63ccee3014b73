package analyzer

import "fmt"

// EmbeddingServiceError reports an embedding call that failed after retries.
type EmbeddingServiceError struct {
	Message string
	Cause   error
}

func (e *EmbeddingServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding service: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding service: %s", e.Message)
}

func (e *EmbeddingServiceError) Unwrap() error {
	return e.Cause
}

// VectorizationError reports degenerate TF-IDF input, such as an empty
// vocabulary after stop-word removal. Callers recover with a zero score.
type VectorizationError struct {
	Message string
}

func (e *VectorizationError) Error() string {
	return fmt.Sprintf("vectorization failed: %s", e.Message)
}
