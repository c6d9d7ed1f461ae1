package domain

import "testing"

func claimedSquares(owners map[int]string) []Square {
	squares := make([]Square, SquareCount)
	for index := range squares {
		row, col := RowColFromIndex(index)
		squares[index] = Square{Row: row, Col: col, OwnerID: owners[index]}
	}
	return squares
}

func TestEvaluateQuarterScenario(t *testing.T) {
	rowDigits := Digits{3, 7, 0, 9, 1, 4, 6, 2, 8, 5}
	colDigits := Digits{1, 0, 5, 9, 2, 3, 7, 4, 6, 8}
	score := &ScoreEntry{Quarter: QuarterFinal, RowScore: 24, ColScore: 17}
	squares := claimedSquares(map[int]string{SquareIndex(5, 6): "pat"})

	winner := EvaluateQuarter(QuarterFinal, rowDigits, colDigits, score, squares)

	if winner.Status != WinnerDecided {
		t.Fatalf("expected decided winner, got %v", winner.Status)
	}
	if winner.RowDigit != 4 || winner.ColDigit != 7 {
		t.Fatalf("expected last digits 4/7, got %d/%d", winner.RowDigit, winner.ColDigit)
	}
	if winner.Row != 5 || winner.Col != 6 {
		t.Fatalf("expected winning square (5,6), got (%d,%d)", winner.Row, winner.Col)
	}
	if winner.OwnerID != "pat" {
		t.Fatalf("expected owner pat, got %q", winner.OwnerID)
	}
}

func TestEvaluateQuarterIsDeterministic(t *testing.T) {
	rowDigits := Digits{3, 7, 0, 9, 1, 4, 6, 2, 8, 5}
	colDigits := Digits{1, 0, 5, 9, 2, 3, 7, 4, 6, 8}
	score := &ScoreEntry{Quarter: 2, RowScore: 10, ColScore: 3}
	squares := claimedSquares(nil)

	first := EvaluateQuarter(2, rowDigits, colDigits, score, squares)
	for i := 0; i < 10; i++ {
		again := EvaluateQuarter(2, rowDigits, colDigits, score, squares)
		if again != first {
			t.Fatalf("evaluation not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestEvaluateQuarterPendingWithoutDigits(t *testing.T) {
	score := &ScoreEntry{Quarter: 1, RowScore: 7, ColScore: 0}

	winner := EvaluateQuarter(1, nil, nil, score, claimedSquares(nil))
	if winner.Status != WinnerPending {
		t.Fatalf("expected pending status, got %v", winner.Status)
	}
}

func TestEvaluateQuarterNoScore(t *testing.T) {
	rowDigits := Digits{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	colDigits := Digits{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}

	winner := EvaluateQuarter(3, rowDigits, colDigits, nil, claimedSquares(nil))
	if winner.Status != WinnerNoScore {
		t.Fatalf("expected no-score status, got %v", winner.Status)
	}
}

func TestEvaluateQuarterUnclaimedSquareWins(t *testing.T) {
	rowDigits := Digits{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	colDigits := Digits{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	score := &ScoreEntry{Quarter: 1, RowScore: 14, ColScore: 21}

	winner := EvaluateQuarter(1, rowDigits, colDigits, score, claimedSquares(nil))
	if winner.Status != WinnerDecided {
		t.Fatalf("expected decided winner, got %v", winner.Status)
	}
	if winner.Row != 4 || winner.Col != 1 {
		t.Fatalf("expected square (4,1), got (%d,%d)", winner.Row, winner.Col)
	}
	if winner.OwnerID != "" {
		t.Fatalf("expected unclaimed winning square, got owner %q", winner.OwnerID)
	}
}
