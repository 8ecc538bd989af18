package gamedto

// Error codes surfaced at the API boundary.
const (
	CodeInvalidInput       = "invalid_input"
	CodeInsufficientFunds  = "insufficient_funds"
	CodeInvalidState       = "invalid_state"
	CodeStorageUnavailable = "storage_unavailable"
	CodeAdvisorUnavailable = "advisor_unavailable"
)

type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "blackjack service error"
}
