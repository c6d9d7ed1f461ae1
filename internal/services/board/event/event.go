// Package event defines the append-only audit records produced by board
// mutations. Entries are written in the same transaction as the state
// change they describe and are never updated afterwards.
package event

import "time"

// Type tags an audit entry with the mutation it records.
type Type string

const (
	TypeBoardCreated     Type = "board.created"
	TypeSquareClaimed    Type = "square.claimed"
	TypeSquareReleased   Type = "square.released"
	TypeSquareReassigned Type = "square.reassigned"
	TypeDigitsAssigned   Type = "digits.assigned"
	TypeDigitsCleared    Type = "digits.cleared"
	TypeBoardLocked      Type = "board.locked"
	TypeBoardUnlocked    Type = "board.unlocked"
	TypeBoardReset       Type = "board.reset"
	TypeScoreUpdated     Type = "score.updated"
	TypeSettingsUpdated  Type = "board.settings_updated"
	TypeAuditPruned      Type = "audit.pruned"
)

// ActorType classifies who performed the mutation.
type ActorType string

const (
	ActorSystem      ActorType = "system"
	ActorParticipant ActorType = "participant"
	ActorAdmin       ActorType = "admin"
)

// Entry is one audit record. Seq is assigned by storage per board and is
// strictly increasing; it stays stable across prunes so entry identity
// survives retention trims.
type Entry struct {
	BoardID     string
	Seq         uint64
	Timestamp   time.Time
	Type        Type
	ActorType   ActorType
	ActorID     string
	PayloadJSON []byte
}

var knownTypes = map[Type]bool{
	TypeBoardCreated:     true,
	TypeSquareClaimed:    true,
	TypeSquareReleased:   true,
	TypeSquareReassigned: true,
	TypeDigitsAssigned:   true,
	TypeDigitsCleared:    true,
	TypeBoardLocked:      true,
	TypeBoardUnlocked:    true,
	TypeBoardReset:       true,
	TypeScoreUpdated:     true,
	TypeSettingsUpdated:  true,
	TypeAuditPruned:      true,
}

// IsValid reports whether the type is one of the recognized entry types.
func (t Type) IsValid() bool {
	return knownTypes[t]
}

// IsValid reports whether the actor type is recognized.
func (a ActorType) IsValid() bool {
	switch a {
	case ActorSystem, ActorParticipant, ActorAdmin:
		return true
	}
	return false
}
