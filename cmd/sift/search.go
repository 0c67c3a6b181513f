package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/sift"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	query := strings.TrimSpace(strings.Join(c.Query, " "))
	if query == "" {
		err := sift.Errorf(sift.EINVALID, "query is required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", sift.ErrorMessage(err))
		return err
	}

	resp := deps.Service.Search(deps.Ctx, query, sift.SearchOptions{
		Timeout:   c.Timeout,
		Limit:     c.Limit,
		MaxTokens: c.MaxTokens,
	})

	switch c.Format {
	case "json":
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
	default:
		if out := sift.FormatResponse(resp); out != "" {
			fmt.Fprintln(deps.Stdout, out)
		}
	}

	if len(resp.Data) == 0 {
		fmt.Fprintln(deps.Stderr, "No content retrieved.")
		return nil
	}
	fmt.Fprintf(deps.Stderr, "%d pages in %dms (search %dms, content %dms)\n",
		len(resp.Data), resp.Timing.Total, resp.Timing.Search, resp.Timing.Content)
	return nil
}
