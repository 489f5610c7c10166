// Package entity defines the interview coaching domain types.
package entity

// Speaker roles in a transcript.
const (
	RoleAI   = "ai"
	RoleUser = "user"
)

// Message is one turn of a mock interview.
type Message struct {
	Role    string
	Content string
}

// Transcript is the conversation so far for a target role (e.g. "Product Manager").
type Transcript struct {
	TargetRole string
	Messages   []Message
}

// Feedback is the end-of-interview evaluation.
type Feedback struct {
	Score        int
	Strengths    []string
	Improvements []string
	Summary      string
}
