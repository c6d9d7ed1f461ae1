package domain

import (
	"strconv"
	"time"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
)

// Square is one claimable cell. OwnerID is empty while unclaimed;
// ownership is exclusive and arbitrated by the storage layer.
type Square struct {
	Row       int
	Col       int
	OwnerID   string
	ClaimedAt *time.Time
}

// Claimed reports whether the square has an owner.
func (s Square) Claimed() bool {
	return s.OwnerID != ""
}

// SquareIndex flattens a coordinate into the canonical 0..99 ordering.
func SquareIndex(row, col int) int {
	return row*BoardSize + col
}

// RowColFromIndex reverses SquareIndex.
func RowColFromIndex(index int) (row, col int) {
	return index / BoardSize, index % BoardSize
}

// ValidateCoordinate checks that (row, col) is on the board.
func ValidateCoordinate(row, col int) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return apperrors.WithMetadata(
			apperrors.CodeSquareInvalidCoordinate,
			"square coordinate is out of range",
			map[string]string{
				"Row": strconv.Itoa(row),
				"Col": strconv.Itoa(col),
			},
		)
	}
	return nil
}
