package models

// Envelope is the body of every REST response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok builds a successful envelope.
func Ok[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: data, Message: message}
}

// Fail builds a failed envelope carrying the human-readable reason.
func Fail[T any](message string) Envelope[T] {
	return Envelope[T]{Success: false, Message: message, Error: message}
}

// Outcome is the result of one write as reported to a view.
type Outcome struct {
	Success bool
	Message string
}

// WriteOutcome is a record write optionally followed by a secondary photo upload.
// The secondary write never rolls back the primary one.
type WriteOutcome struct {
	Primary   Outcome
	Secondary *Outcome
}

// PhotoFailedSuffix annotates a successful record write whose photo upload failed.
const PhotoFailedSuffix = " (photo upload failed)"

// Partial reports whether the record was written but the photo was not.
func (w WriteOutcome) Partial() bool {
	return w.Primary.Success && w.Secondary != nil && !w.Secondary.Success
}

// Message returns the message a user should see for the whole write.
func (w WriteOutcome) Message() string {
	if w.Partial() {
		return w.Primary.Message + PhotoFailedSuffix
	}
	return w.Primary.Message
}
