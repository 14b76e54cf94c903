package record

import "strings"

// Letters are the multiple-choice option letters in order. GPQA uses the
// first four, MMLU-Pro up to all ten.
var Letters = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

// MaxOptions is the largest supported candidate count.
const MaxOptions = len("ABCDEFGHIJ")

const finalAnswerMarker = "FINAL ANSWER:"

// OptionLetters returns the option letters for a question with n candidates.
// Values outside 1..MaxOptions yield the full set.
func OptionLetters(n int) []string {
	if n < 1 || n > MaxOptions {
		return Letters
	}
	return Letters[:n]
}

// ValidLetter reports whether letter is one of the first n option letters.
func ValidLetter(letter string, n int) bool {
	for _, l := range OptionLetters(n) {
		if letter == l {
			return true
		}
	}
	return false
}

// ExtractAnswer parses the final answer letter from a model response. It
// searches for a case-insensitive "FINAL ANSWER: X" marker and takes the
// first letter after it, stripping a leading two-character bold marker.
// The letter must be one of the first optionCount option letters; anything
// else is unparseable and reported as ok=false.
func ExtractAnswer(response string, optionCount int) (string, bool) {
	trimmed := strings.TrimSpace(response)
	upper := strings.ToUpper(trimmed)
	idx := strings.LastIndex(upper, finalAnswerMarker)
	if idx == -1 {
		return "", false
	}
	rest := strings.TrimSpace(trimmed[idx+len(finalAnswerMarker):])
	if rest == "" {
		return "", false
	}
	if strings.HasPrefix(rest, "**") && len(rest) >= 4 {
		rest = rest[2:]
	}
	letter := strings.ToUpper(rest[:1])
	if !ValidLetter(letter, optionCount) {
		return "", false
	}
	return letter, true
}
