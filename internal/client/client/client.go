package client

import (
	"context"
	"time"
)

// RawTransaction is the verbose getrawtransaction reply, reduced to what the
// scanner needs. Height is nil while the transaction is in the mempool.
type RawTransaction struct {
	TxID          string
	Hex           string
	Height        *uint32
	BlockTime     time.Time
	Confirmations int64
}

// ChainInfo is a subset of getblockchaininfo.
type ChainInfo struct {
	Chain         string `json:"chain"`
	Blocks        uint32 `json:"blocks"`
	BestBlockHash string `json:"bestblockhash"`
}

// NodeClient is what the CLI needs from a full node.
type NodeClient interface {
	Close() error
	Ping(ctx context.Context) error
	GetRawTransaction(ctx context.Context, txid string) (*RawTransaction, error)
	GetBlockchainInfo(ctx context.Context) (*ChainInfo, error)
}
