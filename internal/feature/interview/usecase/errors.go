package usecase

import "errors"

var (
	// ErrEmptyTranscript is returned when there is nothing to reply to or evaluate.
	ErrEmptyTranscript = errors.New("transcript has no messages")
	// ErrInvalidMessage is returned for unknown roles or blank content.
	ErrInvalidMessage = errors.New("transcript contains an invalid message")
	// ErrModelUnavailable wraps failures calling the language model.
	ErrModelUnavailable = errors.New("language model request failed")
	// ErrMalformedFeedback is returned when the model output is not the requested JSON.
	ErrMalformedFeedback = errors.New("language model returned malformed feedback")
)
