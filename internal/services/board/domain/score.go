package domain

import (
	"strconv"
	"time"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
)

// Quarters recognized by the score tracker. QuarterFinal covers the final
// score including overtime.
const (
	QuarterFirst = 1
	QuarterFinal = 5
)

// ErrNegativeScore indicates a negative score value.
var ErrNegativeScore = apperrors.New(apperrors.CodeScoreNegative, "scores cannot be negative")

// ScoreEntry holds the score pair for one quarter. RowScore belongs to the
// row team, ColScore to the column team.
//
// Later quarters may be entered before earlier ones, and scores are not
// required to be monotonically non-decreasing across quarters. Corrections
// happen by re-entering a quarter; every entry is audited.
type ScoreEntry struct {
	Quarter   int
	RowScore  int
	ColScore  int
	UpdatedBy string
	UpdatedAt time.Time
}

// ValidateQuarter checks the quarter number is in range.
func ValidateQuarter(quarter int) error {
	if quarter < QuarterFirst || quarter > QuarterFinal {
		return apperrors.WithMetadata(
			apperrors.CodeScoreInvalidQuarter,
			"quarter is out of range",
			map[string]string{"Quarter": strconv.Itoa(quarter)},
		)
	}
	return nil
}

// ValidateScores checks the score pair values.
func ValidateScores(rowScore, colScore int) error {
	if rowScore < 0 || colScore < 0 {
		return ErrNegativeScore
	}
	return nil
}
