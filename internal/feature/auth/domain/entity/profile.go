package entity

import (
	"encoding/json"
	"fmt"
)

// Profile is the career information a user fills in during onboarding.
// The server stores it as-is; completeness is left to the client.
type Profile struct {
	Name       string `json:"name,omitempty"`
	CurrentJob string `json:"currentJob,omitempty"`
	TargetJob  string `json:"targetJob,omitempty"`
	Experience string `json:"experience,omitempty"`
	Industry   string `json:"industry,omitempty"`
}

// SerializeProfile encodes a profile for storage. A nil profile is stored as NULL.
func SerializeProfile(p *Profile) (*string, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	s := string(b)
	return &s, nil
}

// DeserializeProfile decodes a stored profile.
// NULL, empty text and a JSON null all mean "no profile" and yield nil without error.
func DeserializeProfile(raw *string) (*Profile, error) {
	if raw == nil || *raw == "" || *raw == "null" {
		return nil, nil
	}
	var p Profile
	if err := json.Unmarshal([]byte(*raw), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}
