package domain

// WinnerStatus describes whether a quarter has a decidable winner.
type WinnerStatus int

const (
	// WinnerPending means digits have not been assigned yet.
	WinnerPending WinnerStatus = iota
	// WinnerNoScore means no score has been entered for the quarter.
	WinnerNoScore
	// WinnerDecided means the winning square is known. The square may
	// still be unclaimed; that is reported, not treated as an error.
	WinnerDecided
)

// QuarterWinner is the evaluation result for one quarter.
type QuarterWinner struct {
	Quarter  int
	Status   WinnerStatus
	RowDigit int
	ColDigit int
	Row      int
	Col      int
	// OwnerID is the winning square's owner, empty when the square is
	// unclaimed.
	OwnerID string
}

// EvaluateQuarter computes the winning square for one quarter. It is a pure
// function of the digit permutations, the score entry, and the current
// square owners; repeated calls with identical inputs return identical
// results and nothing is mutated.
//
// The winning row index is the position of rowScore mod 10 within
// rowDigits; the winning column index is the position of colScore mod 10
// within colDigits.
func EvaluateQuarter(quarter int, rowDigits, colDigits Digits, score *ScoreEntry, squares []Square) QuarterWinner {
	result := QuarterWinner{Quarter: quarter}

	if !rowDigits.Valid() || !colDigits.Valid() {
		result.Status = WinnerPending
		return result
	}
	if score == nil {
		result.Status = WinnerNoScore
		return result
	}

	result.RowDigit = score.RowScore % BoardSize
	result.ColDigit = score.ColScore % BoardSize
	result.Row = rowDigits.IndexOf(result.RowDigit)
	result.Col = colDigits.IndexOf(result.ColDigit)
	result.Status = WinnerDecided

	index := SquareIndex(result.Row, result.Col)
	if index >= 0 && index < len(squares) {
		result.OwnerID = squares[index].OwnerID
	}
	return result
}
