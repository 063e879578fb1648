// Package domain contains core concepts of the pairing system.
// This file defines Member, the identity snapshot of a host or participant.
package domain

// Member is the identity resolved by the identity collaborator.
// Only ID takes part in invariants; Name and Image are display data.
type Member struct {
	ID    string
	Name  string
	Image string
}

func (m Member) IsZero() bool {
	return m.ID == ""
}
