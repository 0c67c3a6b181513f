package sift

import "strings"

// FormatItems formats items for display or LLM context.
// Uses title if available, falls back to URL. Items are separated by
// blank lines. Items without markdown are skipped.
func FormatItems(items []*SearchItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Markdown == "" {
			continue
		}
		header := item.Title
		if header == "" {
			header = item.URL
		}
		parts = append(parts, "## Source: "+header+"\n"+item.URL+"\n\n"+item.Markdown)
	}
	return strings.Join(parts, "\n\n")
}

// FormatResponse formats a response for LLM context.
func FormatResponse(resp *SearchResponse) string {
	if resp == nil {
		return ""
	}
	return FormatItems(resp.Data)
}
