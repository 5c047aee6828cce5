// Package memory is an in-process ledger.DataReader for tests and simulations.
package memory

import (
	"context"
	"sync"

	"acbridge.dev/ccc/ledger"
)

type Reader struct {
	mu       sync.RWMutex
	latest   uint64
	blocks   map[uint64][]ledger.CrossChainMessage
	receipts map[string]ledger.CrossChainMessageReceipt
}

var _ ledger.DataReader = (*Reader)(nil)

func New() *Reader {
	return &Reader{
		blocks:   make(map[uint64][]ledger.CrossChainMessage),
		receipts: make(map[string]ledger.CrossChainMessageReceipt),
	}
}

// AddMessages appends msgs to the block at height and advances the latest
// height to at least height. Each message's ProvableData.Height is set to height.
func (r *Reader) AddMessages(height uint64, msgs ...ledger.CrossChainMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		m.ProvableData.Height = height
		r.blocks[height] = append(r.blocks[height], m)
	}
	if height > r.latest {
		r.latest = height
	}
}

// SetLatestHeight moves the chain head, for example past empty blocks.
func (r *Reader) SetLatestHeight(h uint64) {
	r.mu.Lock()
	r.latest = h
	r.mu.Unlock()
}

func (r *Reader) SetReceipt(rc ledger.CrossChainMessageReceipt) {
	r.mu.Lock()
	r.receipts[rc.TxHash] = rc
	r.mu.Unlock()
}

func (r *Reader) ReadCrossChainMessagesByHeight(ctx context.Context, height uint64) ([]ledger.CrossChainMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if height > r.latest {
		return nil, ledger.ErrHeightAhead
	}
	return append([]ledger.CrossChainMessage{}, r.blocks[height]...), nil
}

func (r *Reader) ReadCrossChainMessageReceipt(ctx context.Context, txHash string) (ledger.CrossChainMessageReceipt, error) {
	if err := ctx.Err(); err != nil {
		return ledger.CrossChainMessageReceipt{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rc, ok := r.receipts[txHash]
	if !ok {
		return ledger.CrossChainMessageReceipt{}, ledger.ErrReceiptNotFound
	}
	return rc, nil
}

func (r *Reader) QueryLatestHeight(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, nil
}
