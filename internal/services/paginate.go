package services

import (
	"context"

	"github.com/desertthunder/ytmigrate/internal/models"
)

// PageFunc fetches the page identified by token. The first page has an empty token.
type PageFunc[T any] func(ctx context.Context, token string) (models.Page[T], error)

// FetchAll drains fetch from the first page until a page carries no continuation token.
//
// Items come back in page order. Any page error aborts the fetch and no partial result is returned.
// Empty pages are legal and the fetch continues with their token.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var (
		all   []T
		token string
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	if all == nil {
		all = []T{}
	}
	return all, nil
}
