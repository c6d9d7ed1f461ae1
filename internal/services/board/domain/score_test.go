package domain

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/squarepool/internal/platform/errors"
)

func TestValidateQuarter(t *testing.T) {
	for quarter := QuarterFirst; quarter <= QuarterFinal; quarter++ {
		if err := ValidateQuarter(quarter); err != nil {
			t.Fatalf("expected quarter %d valid: %v", quarter, err)
		}
	}

	for _, quarter := range []int{0, -1, 6, 100} {
		err := ValidateQuarter(quarter)
		if err == nil {
			t.Fatalf("expected quarter %d rejected", quarter)
		}
		if apperrors.GetCode(err) != apperrors.CodeScoreInvalidQuarter {
			t.Fatalf("expected invalid quarter code, got %v", apperrors.GetCode(err))
		}
	}
}

func TestValidateScores(t *testing.T) {
	if err := ValidateScores(0, 0); err != nil {
		t.Fatalf("expected zero scores valid: %v", err)
	}
	if err := ValidateScores(24, 17); err != nil {
		t.Fatalf("expected positive scores valid: %v", err)
	}
	if err := ValidateScores(-1, 0); !errors.Is(err, ErrNegativeScore) {
		t.Fatalf("expected ErrNegativeScore, got %v", err)
	}
	if err := ValidateScores(0, -7); !errors.Is(err, ErrNegativeScore) {
		t.Fatalf("expected ErrNegativeScore, got %v", err)
	}
}
