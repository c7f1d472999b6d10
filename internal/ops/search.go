package ops

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/sticker"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string // optional; empty matches every sticker
	Limit  int    // default: all matches, max: 500
	Offset int    // default: 0
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Query      string          `json:"query"`
	Folder     string          `json:"folder,omitempty"`
	Items      []sticker.Entry `json:"items"`
	Total      int             `json:"total"`
	Pagination Pagination      `json:"pagination"`
}

// Search builds a one-shot index from the current settings and filters it.
func Search(ctx context.Context, resolver sticker.Resolver, s settings.Settings, input SearchInput) (*SearchOutput, error) {
	// Validate before touching the resolver
	if _, err := validateQuery(input.Query); err != nil {
		return nil, err
	}

	session, err := OpenSession(ctx, resolver, s)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	output, err := session.Search(input)
	if err != nil {
		return nil, err
	}
	output.Folder = session.Folder()
	return output, nil
}

// search filters idx and pages the matches. A zero or oversized limit becomes
// min(total, maxLimit).
func search(idx *sticker.Index, input SearchInput, maxLimit int) (*SearchOutput, error) {
	query, err := validateQuery(input.Query)
	if err != nil {
		return nil, err
	}

	matches := idx.Search(query)
	total := len(matches)

	limit := input.Limit
	if limit <= 0 || limit > maxLimit {
		limit = min(total, maxLimit)
	}
	offset := min(max(input.Offset, 0), total)
	end := min(offset+limit, total)

	items := matches[offset:end]
	return &SearchOutput{
		Query: query,
		Items: items,
		Total: total,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
			Total:   total,
		},
	}, nil
}

// validateQuery returns the query as typed. Whitespace is significant for
// substring matching, so only length is checked.
func validateQuery(query string) (string, error) {
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return "", errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}
	if strings.ContainsRune(query, '\n') {
		return "", errors.NewInvalidRequest("query must be a single line")
	}
	return query, nil
}
