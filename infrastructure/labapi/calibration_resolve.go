package labapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Matrix id lookup strategies, tried in this order.
const (
	ResolvedFromPoint     = "point-record"
	ResolvedFromLookup    = "matrix-by-point"
	ResolvedFromPriceScan = "price-scan"
	ResolvedFromURL       = "url"
)

// ResolveMatrixID finds the matrix owning pointID when the screen was opened
// without one. Each strategy is a separate GET; the first non-empty answer
// wins and is not cross-checked against the others. priceID may be empty, in
// which case the price scan is skipped.
func (c *Client) ResolveMatrixID(ctx context.Context, pointID, priceID string) (matrixID, strategy string, err error) {
	var errs []error

	if p, err := c.Point(ctx, pointID); err == nil {
		if m := p.Matrix.String(); m != "" {
			return m, ResolvedFromPoint, nil
		}
	} else {
		errs = append(errs, err)
	}

	if m, err := c.MatrixForPoint(ctx, pointID); err == nil {
		if id := m.ID.String(); id != "" {
			return id, ResolvedFromLookup, nil
		}
	} else {
		errs = append(errs, err)
	}

	if priceID != "" {
		matrices, err := c.Matrices(ctx, priceID)
		if err != nil {
			errs = append(errs, err)
		}
		for _, m := range matrices {
			points, err := c.Points(ctx, m.ID.String())
			if err != nil {
				errs = append(errs, err)
				continue
			}
			for _, p := range points {
				if p.ID.String() == pointID {
					return m.ID.String(), ResolvedFromPriceScan, nil
				}
			}
		}
	}

	if len(errs) > 0 {
		slog.Warn("matrix id lookup failed", slog.String("point", pointID), slog.Any("err", errors.Join(errs...)))
	}
	return "", "", fmt.Errorf("matrix for point %s: %w", pointID, ErrUnresolved)
}
