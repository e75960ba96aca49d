// Package tokens estimates prompt sizes before dispatch so callers can log
// and budget outbound requests.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// Estimate returns an approximate token count for text using the cl100k_base
// encoding. When the encoding cannot be loaded it falls back to a four
// characters per token heuristic rather than failing.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})
	if enc == nil {
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
