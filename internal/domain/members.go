package domain

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Members maps live connection ids to the participant identity behind them.
// One participant may hold several connections (e.g. two browser tabs).
type Members struct {
	byConn map[string]string
}

func NewMembers() *Members {
	return &Members{
		byConn: make(map[string]string),
	}
}

func (m Members) Length() int {
	return len(m.byConn)
}

func (m *Members) Add(connectionID, participantID string) {
	m.byConn[connectionID] = participantID
}

func (m *Members) Remove(connectionID string) bool {
	if _, ok := m.byConn[connectionID]; !ok {
		return false
	}

	delete(m.byConn, connectionID)
	return true
}

func (m Members) ConnectionIDs() []string {
	ids := maps.Keys(m.byConn)
	slices.Sort(ids)
	return ids
}

// ParticipantIDs returns every distinct identity in the room, sorted.
func (m Members) ParticipantIDs() []string {
	seen := make(map[string]struct{}, len(m.byConn))
	for _, participantID := range m.byConn {
		seen[participantID] = struct{}{}
	}

	ids := maps.Keys(seen)
	slices.Sort(ids)
	return ids
}
