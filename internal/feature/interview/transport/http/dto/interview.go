// Package dto defines the wire types of the interview endpoints.
package dto

import "facecounter_backend/internal/feature/interview/domain/entity"

// MessageDTO is one transcript turn. Role is "ai" or "user".
type MessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TranscriptReq is the body of both interview endpoints.
type TranscriptReq struct {
	Role     string       `json:"role"`
	Messages []MessageDTO `json:"messages"`
}

// ReplyRes wraps the coach's next turn.
type ReplyRes struct {
	Message MessageDTO `json:"message"`
}

// FeedbackRes is the evaluation of a finished interview.
type FeedbackRes struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary"`
}

// ToEntity converts the request into a transcript.
func (r TranscriptReq) ToEntity() entity.Transcript {
	msgs := make([]entity.Message, len(r.Messages))
	for i, m := range r.Messages {
		msgs[i] = entity.Message{Role: m.Role, Content: m.Content}
	}
	return entity.Transcript{TargetRole: r.Role, Messages: msgs}
}

// NewFeedbackRes converts a domain feedback.
func NewFeedbackRes(f *entity.Feedback) FeedbackRes {
	return FeedbackRes{
		Score:        f.Score,
		Strengths:    f.Strengths,
		Improvements: f.Improvements,
		Summary:      f.Summary,
	}
}
