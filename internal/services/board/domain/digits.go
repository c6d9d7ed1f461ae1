package domain

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Digits maps a row or column index to its assigned score digit.
// A valid value is a permutation of 0..9.
type Digits []int

// Valid reports whether the value is a full permutation of 0..9.
func (d Digits) Valid() bool {
	if len(d) != BoardSize {
		return false
	}
	var seen [BoardSize]bool
	for _, digit := range d {
		if digit < 0 || digit >= BoardSize || seen[digit] {
			return false
		}
		seen[digit] = true
	}
	return true
}

// IndexOf returns the board index holding the given digit, or -1.
func (d Digits) IndexOf(digit int) int {
	for i, value := range d {
		if value == digit {
			return i
		}
	}
	return -1
}

// String renders the permutation as compact JSON, the storage format.
func (d Digits) String() string {
	if len(d) == 0 {
		return ""
	}
	encoded, err := json.Marshal([]int(d))
	if err != nil {
		return ""
	}
	return string(encoded)
}

// ParseDigits decodes the compact JSON storage format. An empty string
// decodes to nil (digits unassigned); anything else must be a full
// permutation.
func ParseDigits(value string) (Digits, error) {
	if value == "" {
		return nil, nil
	}
	var decoded []int
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return nil, fmt.Errorf("decode digits: %w", err)
	}
	digits := Digits(decoded)
	if !digits.Valid() {
		return nil, fmt.Errorf("digits %q are not a permutation of 0..9", value)
	}
	return digits, nil
}

// DigitAssigner produces random digit permutations for a board.
//
// The zero source of randomness is injected at construction so production
// callers can seed from crypto/rand while tests pass fixed seeds.
type DigitAssigner struct {
	rng *rand.Rand
}

// NewDigitAssigner creates an assigner seeded with the given value.
func NewDigitAssigner(seed int64) *DigitAssigner {
	return &DigitAssigner{rng: rand.New(rand.NewSource(seed))}
}

// Assign draws two independent uniform permutations of 0..9, one for
// rows and one for columns.
func (a *DigitAssigner) Assign() (rowDigits, colDigits Digits) {
	return Digits(a.rng.Perm(BoardSize)), Digits(a.rng.Perm(BoardSize))
}
