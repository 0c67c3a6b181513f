package sift

import (
	"context"
	"strings"
	"unicode/utf8"
)

// MaxTrimAttempts bounds the number of count-and-cut rounds in TrimToTokens.
const MaxTrimAttempts = 5

// trimHeadroom shrinks each proportional cut so that the next count is
// likely to land under the budget.
const trimHeadroom = 0.9

// TrimToTokens shortens text until counter reports at most maxTokens tokens.
// Each round cuts proportionally to the overshoot, preferring paragraph and
// then word boundaries. After MaxTrimAttempts rounds the text is cut at the
// proportional byte offset without looking for a boundary. It returns the
// trimmed text and its token count. maxTokens <= 0 disables trimming.
func TrimToTokens(ctx context.Context, counter TokenCounter, text string, maxTokens int) (string, int, error) {
	if maxTokens <= 0 || text == "" {
		return text, 0, nil
	}

	for attempt := 0; attempt < MaxTrimAttempts; attempt++ {
		n, err := counter.CountTokens(ctx, text)
		if err != nil {
			return text, 0, err
		}
		if n <= maxTokens {
			return text, n, nil
		}
		target := int(float64(len(text)) * float64(maxTokens) / float64(n) * trimHeadroom)
		text = cutAtBoundary(text, target)
	}

	n, err := counter.CountTokens(ctx, text)
	if err != nil {
		return text, 0, err
	}
	if n <= maxTokens {
		return text, n, nil
	}
	text = cutAt(text, int(float64(len(text))*float64(maxTokens)/float64(n)))
	n, err = counter.CountTokens(ctx, text)
	if err != nil {
		return text, 0, err
	}
	return text, n, nil
}

// cutAtBoundary cuts text to at most target bytes, backing off to the last
// paragraph break or whitespace in the second half of the kept text.
func cutAtBoundary(text string, target int) string {
	head := cutAt(text, target)
	if i := strings.LastIndex(head, "\n\n"); i > len(head)/2 {
		return strings.TrimRight(head[:i], " \t\n")
	}
	if i := strings.LastIndexAny(head, " \t\n"); i > len(head)/2 {
		return strings.TrimRight(head[:i], " \t\n")
	}
	return head
}

// cutAt returns the longest prefix of text no longer than target bytes that
// ends on a rune boundary. The result is always shorter than text.
func cutAt(text string, target int) string {
	if target >= len(text) {
		target = len(text) - 1
	}
	if target <= 0 {
		return ""
	}
	for target > 0 && !utf8.RuneStart(text[target]) {
		target--
	}
	return text[:target]
}
