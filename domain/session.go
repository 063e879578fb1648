// Package domain contains core concepts of the pairing system.
// This file defines the Session entity and its invariants.
// No storage, network, or transport logic should be added here.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// MaxProblemLength caps a sanitized problem title, in runes.
const MaxProblemLength = 140

type SessionID string

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficulties = map[Difficulty]struct{}{
	DifficultyEasy:   {},
	DifficultyMedium: {},
	DifficultyHard:   {},
}

// Session is the unit of collaboration between a host and at most one participant.
// Participant is the zero Member until a join succeeds.
type Session struct {
	ID          SessionID
	Problem     string
	Difficulty  Difficulty
	Host        Member
	Participant Member
	Status      Status
	Handle      string // correlates the session to its external call/channel pair
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Session) IsActive() bool {
	return s.Status == StatusActive
}

func (s Session) HasParticipant() bool {
	return !s.Participant.IsZero()
}

func (s Session) IsHost(userID string) bool {
	return userID != "" && s.Host.ID == userID
}

func (s Session) IsMember(userID string) bool {
	return s.IsHost(userID) || (userID != "" && s.Participant.ID == userID)
}

var (
	controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// SanitizeProblem strips control characters, collapses whitespace and
// truncates to MaxProblemLength runes.
func SanitizeProblem(problem string) string {
	cleaned := controlChars.ReplaceAllString(problem, "")
	cleaned = strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
	runes := []rune(cleaned)
	if len(runes) > MaxProblemLength {
		cleaned = strings.TrimSpace(string(runes[:MaxProblemLength]))
	}
	return cleaned
}

// NormalizeDifficulty returns the canonical difficulty and false when the
// value is outside the closed set.
func NormalizeDifficulty(difficulty string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(difficulty)))
	_, ok := difficulties[d]
	return d, ok
}
