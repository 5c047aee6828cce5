package ledger

import (
	"context"
	"fmt"
)

// ScanFunc receives the messages of one height. Returning an error stops the scan.
type ScanFunc func(height uint64, msgs []CrossChainMessage) error

// Scan reads heights from..to inclusive and calls fn once per height, in
// order. A to of zero means the latest height reported by r; a to above the
// latest height is clamped to it.
//
// The returned cursor is the next height to scan: from when nothing was
// handed to fn, otherwise one past the last height fn accepted.
func Scan(ctx context.Context, r DataReader, from, to uint64, fn ScanFunc) (uint64, error) {
	next := from
	latest, err := r.QueryLatestHeight(ctx)
	if err != nil {
		return next, fmt.Errorf("ledger: latest height: %w", err)
	}
	if to == 0 || to > latest {
		to = latest
	}
	for h := from; h <= to; h++ {
		if err := ctx.Err(); err != nil {
			return next, err
		}
		msgs, err := r.ReadCrossChainMessagesByHeight(ctx, h)
		if err != nil {
			return next, fmt.Errorf("ledger: height %d: %w", h, err)
		}
		if err := fn(h, msgs); err != nil {
			return next, err
		}
		next = h + 1
	}
	return next, nil
}
