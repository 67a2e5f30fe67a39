package analysis

import (
	"testing"

	"github.com/shinyvision/phpscan/internal/tokens"
)

// nth returns the index of the n-th (0-based) token with the given text.
func nth(t *testing.T, toks *tokens.Tokens, text string, n int) int {
	t.Helper()
	for i := 0; i < toks.Len(); i++ {
		if toks.At(i).Text == text {
			if n == 0 {
				return i
			}
			n--
		}
	}
	t.Fatalf("token %q not found", text)
	return -1
}

func intPtr(v int) *int {
	return &v
}
