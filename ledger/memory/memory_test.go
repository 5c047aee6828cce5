package memory

import (
	"context"
	"errors"
	"testing"

	"acbridge.dev/ccc/ledger"
)

func TestReader_MessagesAndReceipts(t *testing.T) {
	ctx := context.Background()
	r := New()
	r.AddMessages(3, ledger.CrossChainMessage{Type: ledger.AuthMessage, Message: []byte("am")})
	r.AddMessages(3, ledger.CrossChainMessage{Type: ledger.DeveloperDesign, Message: []byte("dd")})

	msgs, err := r.ReadCrossChainMessagesByHeight(ctx, 3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(msgs) != 2 || string(msgs[0].Message) != "am" || msgs[1].ProvableData.Height != 3 {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if empty, err := r.ReadCrossChainMessagesByHeight(ctx, 1); err != nil || len(empty) != 0 {
		t.Fatalf("empty block: %v %v", empty, err)
	}
	if _, err := r.ReadCrossChainMessagesByHeight(ctx, 4); !errors.Is(err, ledger.ErrHeightAhead) {
		t.Fatalf("expected ErrHeightAhead, got %v", err)
	}

	r.SetReceipt(ledger.CrossChainMessageReceipt{TxHash: "0xab", Confirmed: true, Successful: true})
	rc, err := r.ReadCrossChainMessageReceipt(ctx, "0xab")
	if err != nil || !rc.Confirmed {
		t.Fatalf("receipt: %+v %v", rc, err)
	}
	if _, err := r.ReadCrossChainMessageReceipt(ctx, "0xcd"); !errors.Is(err, ledger.ErrReceiptNotFound) {
		t.Fatalf("expected ErrReceiptNotFound, got %v", err)
	}
}

func TestReader_HonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().QueryLatestHeight(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
