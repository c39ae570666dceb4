// Package textrec splits whitespace-column text records into tokens.
//
// A token is either a run of characters between word delimiters or the
// verbatim contents of a quoted literal, so "a \"b c\" d" splits into
// [a, b c, d]. A quoted literal left open at the end of the line is dropped.
package textrec

import (
	"iter"
	"strings"
)

type scanState uint8

const (
	outside scanState = iota
	inWord
	inQuote
)

// Tokens yields the tokens of line lazily.
func Tokens(line string, wordDelim, quoteDelim rune) iter.Seq[string] {
	return func(yield func(string) bool) {
		var sb strings.Builder
		state := outside

		for _, c := range line {
			switch state {
			case outside:
				switch c {
				case wordDelim:
					continue
				case quoteDelim:
					state = inQuote
					continue
				}
				state = inWord
				sb.WriteRune(c)
				continue
			case inWord:
				if c != wordDelim {
					sb.WriteRune(c)
					continue
				}
			case inQuote:
				if c != quoteDelim {
					sb.WriteRune(c)
					continue
				}
			}

			// Closing delimiter: emit whatever was collected, even "".
			if !yield(sb.String()) {
				return
			}
			sb.Reset()
			state = outside
		}

		if sb.Len() > 0 && state != inQuote {
			yield(sb.String())
		}
	}
}

// Tokenize collects Tokens into a slice. It never returns nil.
func Tokenize(line string, wordDelim, quoteDelim rune) []string {
	tokens := make([]string, 0, 8)
	for tok := range Tokens(line, wordDelim, quoteDelim) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Fields tokenizes with the delimiters used by every lattice data file:
// spaces between words and double quotes around literals.
func Fields(line string) []string {
	return Tokenize(line, ' ', '"')
}
