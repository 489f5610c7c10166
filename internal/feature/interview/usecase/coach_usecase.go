// Package usecase implements interview coaching on top of a language model.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	authentity "facecounter_backend/internal/feature/auth/domain/entity"
	authusecase "facecounter_backend/internal/feature/auth/usecase"
	"facecounter_backend/internal/feature/interview/domain/entity"
	"facecounter_backend/internal/shared/ratelimiter"
)

// LanguageModel is the text generation backend.
type LanguageModel interface {
	// Chat continues the conversation under a system instruction.
	Chat(ctx context.Context, system string, messages []entity.Message) (string, error)
	// Evaluate answers prompt with JSON matching the feedback schema.
	Evaluate(ctx context.Context, prompt string) (string, error)
}

// UserFinder loads the session user to read the stored profile.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*authentity.User, error)
}

// coachUsecase drives mock interviews for a logged-in user.
type coachUsecase struct {
	model    LanguageModel
	users    UserFinder
	throttle ratelimiter.Waiter
}

// NewCoachUsecase creates a new instance of coachUsecase. throttle may be nil.
func NewCoachUsecase(model LanguageModel, users UserFinder, throttle ratelimiter.Waiter) *coachUsecase {
	return &coachUsecase{model: model, users: users, throttle: throttle}
}

// Reply returns the coach's next turn.
func (u *coachUsecase) Reply(ctx context.Context, userID string, t entity.Transcript) (entity.Message, error) {
	if err := validate(t); err != nil {
		return entity.Message{}, err
	}

	profile, err := u.profile(ctx, userID)
	if err != nil {
		return entity.Message{}, err
	}

	if err := u.wait(ctx); err != nil {
		return entity.Message{}, err
	}
	text, err := u.model.Chat(ctx, coachInstruction(t.TargetRole, profile), t.Messages)
	if err != nil {
		return entity.Message{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		text = FallbackReply
	}
	return entity.Message{Role: entity.RoleAI, Content: text}, nil
}

// Feedback scores the finished interview.
func (u *coachUsecase) Feedback(ctx context.Context, t entity.Transcript) (*entity.Feedback, error) {
	if err := validate(t); err != nil {
		return nil, err
	}
	prompt, err := feedbackPrompt(t)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	if err := u.wait(ctx); err != nil {
		return nil, err
	}
	raw, err := u.model.Evaluate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return parseFeedback(raw)
}

func (u *coachUsecase) profile(ctx context.Context, userID string) (*authentity.Profile, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			// Coaching still works without a profile.
			slog.Warn("coach: session user not found", "user_id", userID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user.Profile, nil
}

func (u *coachUsecase) wait(ctx context.Context) error {
	if u.throttle == nil {
		return nil
	}
	return u.throttle.Wait(ctx)
}

func validate(t entity.Transcript) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	for _, m := range t.Messages {
		if (m.Role != entity.RoleAI && m.Role != entity.RoleUser) || strings.TrimSpace(m.Content) == "" {
			return ErrInvalidMessage
		}
	}
	return nil
}

type feedbackJSON struct {
	Score        *float64 `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary"`
}

// parseFeedback accepts the flat object or one wrapped in {"feedback": ...}.
func parseFeedback(raw string) (*entity.Feedback, error) {
	raw = strings.TrimSpace(raw)
	var wrapped struct {
		Feedback *feedbackJSON `json:"feedback"`
	}
	var fb feedbackJSON
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && wrapped.Feedback != nil {
		fb = *wrapped.Feedback
	} else if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeedback, err)
	}
	if fb.Score == nil {
		return nil, fmt.Errorf("%w: missing score", ErrMalformedFeedback)
	}

	// Clamp before converting; out-of-range float to int conversion is implementation-defined.
	score := int(math.Round(math.Max(0, math.Min(100, *fb.Score))))
	return &entity.Feedback{
		Score:        score,
		Strengths:    nonNil(fb.Strengths),
		Improvements: nonNil(fb.Improvements),
		Summary:      fb.Summary,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
