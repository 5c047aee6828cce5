package ledger_test

import (
	"context"
	"errors"
	"testing"

	"acbridge.dev/ccc/ledger"
	"acbridge.dev/ccc/ledger/memory"
)

func chain() *memory.Reader {
	r := memory.New()
	r.AddMessages(1, ledger.CrossChainMessage{Message: []byte("a")})
	r.AddMessages(2, ledger.CrossChainMessage{Message: []byte("b")}, ledger.CrossChainMessage{Message: []byte("c")})
	r.SetLatestHeight(4)
	return r
}

func TestScan_WalksToLatest(t *testing.T) {
	var heights []uint64
	total := 0
	next, err := ledger.Scan(context.Background(), chain(), 1, 0, func(h uint64, msgs []ledger.CrossChainMessage) error {
		heights = append(heights, h)
		total += len(msgs)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if next != 5 || len(heights) != 4 || total != 3 {
		t.Fatalf("next=%d heights=%v total=%d", next, heights, total)
	}
}

func TestScan_ClampsAndResumes(t *testing.T) {
	r := chain()
	next, err := ledger.Scan(context.Background(), r, 2, 100, func(uint64, []ledger.CrossChainMessage) error { return nil })
	if err != nil || next != 5 {
		t.Fatalf("next=%d err=%v", next, err)
	}
	next, err = ledger.Scan(context.Background(), r, next, 0, func(uint64, []ledger.CrossChainMessage) error {
		t.Fatalf("nothing new to scan")
		return nil
	})
	if err != nil || next != 5 {
		t.Fatalf("next=%d err=%v", next, err)
	}
}

func TestScan_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	next, err := ledger.Scan(context.Background(), chain(), 1, 0, func(h uint64, _ []ledger.CrossChainMessage) error {
		if h == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || next != 2 {
		t.Fatalf("next=%d err=%v", next, err)
	}
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ledger.Scan(ctx, chain(), 1, 0, func(uint64, []ledger.CrossChainMessage) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
