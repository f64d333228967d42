package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DrawSize      = 6
	DrawNumberMin = 1
	DrawNumberMax = 60
)

// Draw is a stored draw selection. The selection itself only exists as
// ciphertext under the owner's draw key.
type Draw struct {
	ID         string
	UserID     string
	Ciphertext []byte `json:"-"`
	Played     bool
	Win        bool
	Round      int
	CreatedAt  time.Time
}

type DrawStatus string

const (
	DrawStatusOK            DrawStatus = "ok"
	DrawStatusUndecryptable DrawStatus = "undecryptable"
)

// DrawView is the decrypted read model of a draw. A new value is built on
// every read.
type DrawView struct {
	ID      string     `json:"id"`
	Numbers []int      `json:"numbers,omitempty"`
	Played  bool       `json:"played"`
	Win     bool       `json:"win"`
	Round   int        `json:"round"`
	Status  DrawStatus `json:"status"`
}

// ValidateSelection checks the size and range of a draw selection.
func ValidateSelection(numbers []int) error {
	if len(numbers) != DrawSize {
		return fmt.Errorf("a draw needs exactly %d numbers, got %d", DrawSize, len(numbers))
	}
	for _, n := range numbers {
		if n < DrawNumberMin || n > DrawNumberMax {
			return fmt.Errorf("draw number %d out of range %d..%d", n, DrawNumberMin, DrawNumberMax)
		}
	}
	return nil
}

// FormatSelection renders numbers as the canonical plaintext "n1 n2 ... n6".
func FormatSelection(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// ParseSelection is the inverse of FormatSelection.
func ParseSelection(s string) ([]int, error) {
	fields := strings.Fields(s)
	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse draw number %q: %w", f, err)
		}
		numbers = append(numbers, n)
	}
	if err := ValidateSelection(numbers); err != nil {
		return nil, err
	}
	return numbers, nil
}
