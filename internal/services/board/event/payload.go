package event

import "encoding/json"

// Payloads are stored as JSON alongside the entry. They carry the details
// a reader needs to reconstruct what happened without replaying state.

// ClaimPayload records a square claim.
type ClaimPayload struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	OwnerID string `json:"owner_id"`
}

// ReleasePayload records a square release. ReleasedBy differs from OwnerID
// when an admin releases someone else's square.
type ReleasePayload struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	OwnerID    string `json:"owner_id"`
	ReleasedBy string `json:"released_by"`
}

// ReassignPayload records an admin transferring a square to a new owner.
type ReassignPayload struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	FromOwner string `json:"from_owner"`
	ToOwner   string `json:"to_owner"`
}

// DigitsPayload records a digit assignment. Forced is set when existing
// digits were overwritten.
type DigitsPayload struct {
	RowDigits []int `json:"row_digits"`
	ColDigits []int `json:"col_digits"`
	Forced    bool  `json:"forced,omitempty"`
}

// ScorePayload records a score entry for one quarter.
type ScorePayload struct {
	Quarter  int `json:"quarter"`
	RowScore int `json:"row_score"`
	ColScore int `json:"col_score"`
}

// SettingsPayload records a settings change with before and after values.
type SettingsPayload struct {
	Before SettingsSnapshot `json:"before"`
	After  SettingsSnapshot `json:"after"`
}

// SettingsSnapshot is the mutable settings surface at a point in time.
type SettingsSnapshot struct {
	Name                     string `json:"name"`
	RowTeam                  string `json:"row_team"`
	ColTeam                  string `json:"col_team"`
	PriceCents               int64  `json:"price_cents"`
	MaxSquaresPerParticipant int    `json:"max_squares_per_participant"`
}

// ResetPayload records a full board reset.
type ResetPayload struct {
	SquaresReleased int  `json:"squares_released"`
	DigitsCleared   bool `json:"digits_cleared"`
	ScoresCleared   int  `json:"scores_cleared"`
	WasLocked       bool `json:"was_locked"`
}

// PrunePayload records an audit retention trim.
type PrunePayload struct {
	Keep    int `json:"keep"`
	Removed int `json:"removed"`
}

// Marshal encodes a payload for storage.
func Marshal(payload any) ([]byte, error) {
	return json.Marshal(payload)
}

// Unmarshal decodes a stored payload into the given target.
func Unmarshal(data []byte, target any) error {
	return json.Unmarshal(data, target)
}
