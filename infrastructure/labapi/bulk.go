package labapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BulkResult reports the outcome of a fan-out of single-record calls.
type BulkResult struct {
	Succeeded []string
	Failed    map[string]error
}

func (r BulkResult) Total() int { return len(r.Succeeded) + len(r.Failed) }

// BulkDelete issues exactly one DELETE per distinct positive integer id. pathFmt
// takes the escaped id via %s. Calls run with bounded concurrency and never
// cancel each other; order of Succeeded follows ids.
func (c *Client) BulkDelete(ctx context.Context, pathFmt string, ids []string) BulkResult {
	unique := dedupeIDs(ids)
	res := BulkResult{Succeeded: make([]string, 0, len(unique)), Failed: make(map[string]error)}
	if len(unique) == 0 {
		return res
	}

	ok := make([]bool, len(unique))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(c.bulkWorkers)
	for i, id := range unique {
		g.Go(func() error {
			err := c.delete(ctx, fmt.Sprintf(pathFmt, url.PathEscape(id)))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed[id] = err
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range unique {
		if ok[i] {
			res.Succeeded = append(res.Succeeded, id)
		}
	}
	return res
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		id = strconv.FormatInt(n, 10)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
