package aws

import (
	"context"
	"fmt"
)

// maxPages stops a runaway paginator; prefix lists and rule groups are far smaller.
const maxPages = 500

type pager[O any] struct {
	hasMore func() bool
	next    func(context.Context) (O, error)
}

func collectPages[O, T any](ctx context.Context, p pager[O], extract func(O) []T) ([]T, error) {
	var items []T
	for pages := 0; p.hasMore(); pages++ {
		if pages == maxPages {
			return nil, fmt.Errorf("more than %d pages", maxPages)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := p.next(ctx)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pages+1, err)
		}
		items = append(items, extract(page)...)
	}
	return items, nil
}
