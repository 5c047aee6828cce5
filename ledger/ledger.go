// Package ledger describes how cross-chain messages are read from a source
// chain. It has no dependency on the certificate encoding: a relayer pairs
// what it reads here with identities it has verified separately.
package ledger

import (
	"context"
	"errors"
)

var (
	// ErrReceiptNotFound is returned when no receipt exists for a transaction.
	ErrReceiptNotFound = errors.New("ledger: receipt not found")
	// ErrHeightAhead is returned for heights above the latest height.
	ErrHeightAhead = errors.New("ledger: height is ahead of the chain")
)

// MessageType says which system contract produced a message.
type MessageType uint8

const (
	AuthMessage MessageType = iota
	DeveloperDesign
)

func (t MessageType) String() string {
	switch t {
	case AuthMessage:
		return "AUTH_MSG"
	case DeveloperDesign:
		return "DEVELOPER_DESIGN"
	default:
		return "UNKNOWN"
	}
}

// ProvableLedgerData is trace data found on the ledger together with the
// chain's proof that it is there.
type ProvableLedgerData struct {
	LedgerData []byte
	Proof      []byte
	BlockHash  []byte
	TxHash     string
	Height     uint64
	Timestamp  int64
}

// CrossChainMessage is a raw cross-chain message and where it was found.
type CrossChainMessage struct {
	Type         MessageType
	Message      []byte
	ProvableData ProvableLedgerData
}

// CrossChainMessageReceipt reports the fate of a transaction that committed
// a message on the destination chain.
type CrossChainMessageReceipt struct {
	TxHash     string
	Confirmed  bool
	Successful bool
	ErrorMsg   string
}

// DataReader reads cross-chain data from one chain.
type DataReader interface {
	// ReadCrossChainMessagesByHeight returns the messages in the block at height,
	// in ledger order. An empty block returns an empty slice.
	ReadCrossChainMessagesByHeight(ctx context.Context, height uint64) ([]CrossChainMessage, error)
	ReadCrossChainMessageReceipt(ctx context.Context, txHash string) (CrossChainMessageReceipt, error)
	QueryLatestHeight(ctx context.Context) (uint64, error)
}
