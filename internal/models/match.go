package models

import "gorm.io/gorm"

// Match modes and their capacities.
const (
	Mode1v1 = "1v1"
	Mode2v2 = "2v2"
)

// Match is an open matchmaking session with a fixed, mode-derived
// capacity. Joining is manual; there is no pairing algorithm.
type Match struct {
	gorm.Model
	Mode        string `gorm:"size:3;not null"`
	CreatedByID uint   `gorm:"not null;index"`

	// Free-text teammate for 2v2 matches whose partner has no account.
	// Counts as one occupied slot.
	TempTeammate string `gorm:"size:100"`

	CreatedBy User   `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE;"`
	Players   []User `gorm:"many2many:match_players;"`
}

// MaxPlayers returns the capacity for the match's mode.
func (m *Match) MaxPlayers() int {
	switch m.Mode {
	case Mode1v1:
		return 2
	case Mode2v2:
		return 4
	}
	return 0
}

// PlayerCount counts registered players plus the virtual teammate slot.
// Players must be preloaded.
func (m *Match) PlayerCount() int {
	count := len(m.Players)
	if m.Mode == Mode2v2 && m.TempTeammate != "" {
		count++
	}
	return count
}

// IsFull reports whether the match has reached capacity.
func (m *Match) IsFull() bool {
	return m.PlayerCount() >= m.MaxPlayers()
}

// HasPlayer reports whether the given user is already registered.
func (m *Match) HasPlayer(userID uint) bool {
	for _, p := range m.Players {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// CanJoin reports whether the given user may take a slot: the match has
// room, the user is not the creator and not already registered.
func (m *Match) CanJoin(userID uint) bool {
	if m.IsFull() {
		return false
	}
	if m.CreatedByID == userID || m.HasPlayer(userID) {
		return false
	}
	return true
}
