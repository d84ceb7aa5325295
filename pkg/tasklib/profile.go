package tasklib

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyName = errors.New("profile name is empty")

// Profile is the signed-in user. Its presence is the session signal that
// enables alarm scanning.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Birthday string `json:"birthday,omitempty"`
}

// NewProfile validates the input and assigns an ID when missing.
func NewProfile(p Profile) (*Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	p.Email = strings.TrimSpace(p.Email)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return &p, nil
}
