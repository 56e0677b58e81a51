package model

import (
	"fmt"
	"strings"
	"time"
)

// Article is a league news post.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"date"`
}

// Validate checks that every text field is filled in.
func (a Article) Validate() error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidArticle)
	case strings.TrimSpace(a.Author) == "":
		return fmt.Errorf("%w: author is required", ErrInvalidArticle)
	case strings.TrimSpace(a.Body) == "":
		return fmt.Errorf("%w: body is required", ErrInvalidArticle)
	}
	return nil
}

// Signup is a manager's request to take over an unmanaged team.
type Signup struct {
	ManagerName string    `json:"manager_name"`
	Email       string    `json:"email"`
	TeamID      string    `json:"team_id"`
	Note        string    `json:"note"`
	Agree       bool      `json:"agree"`
	Season      int       `json:"season"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Validate checks the required signup fields.
func (s Signup) Validate() error {
	switch {
	case strings.TrimSpace(s.ManagerName) == "":
		return fmt.Errorf("%w: manager_name is required", ErrInvalidSignup)
	case strings.TrimSpace(s.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidSignup)
	case !strings.Contains(s.Email, "@"):
		return fmt.Errorf("%w: email is malformed", ErrInvalidSignup)
	case strings.TrimSpace(s.TeamID) == "":
		return fmt.Errorf("%w: team_id is required", ErrInvalidSignup)
	case !s.Agree:
		return fmt.Errorf("%w: league rules must be accepted", ErrInvalidSignup)
	}
	return nil
}
