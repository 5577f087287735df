package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/rpcclient"
)

// rawRequester is the part of *rpcclient.Client used here.
type rawRequester interface {
	RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
	Shutdown()
}

// RPCClient talks to zcashd (or a compatible node) over JSON-RPC in HTTP POST
// mode.
type RPCClient struct {
	node rawRequester
}

// NewRPCClient prepares a client for host. No connection is made until the
// first call.
func NewRPCClient(host, user, password string) (*RPCClient, error) {
	c, err := rpcclient.New(&rpcclient.ConnConfig{
		HTTPPostMode: true,
		DisableTLS:   true,
		Host:         host,
		User:         user,
		Pass:         password,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &RPCClient{node: c}, nil
}

func (c *RPCClient) Close() error {
	c.node.Shutdown()
	return nil
}

// call runs the request in a goroutine so ctx can abandon it. Node-side
// errors are returned as is; anything else is reported as ErrUnavailable.
func (c *RPCClient) call(ctx context.Context, method string, out any, args ...any) error {
	params := make([]json.RawMessage, 0, len(args))
	for _, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return err
		}
		params = append(params, b)
	}

	type reply struct {
		raw json.RawMessage
		err error
	}
	done := make(chan reply, 1)
	go func() {
		raw, err := c.node.RawRequest(method, params)
		done <- reply{raw, err}
	}()

	var r reply
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r = <-done:
	}

	if r.err != nil {
		var rpcErr *btcjson.RPCError
		if errors.As(r.err, &rpcErr) {
			return fmt.Errorf("%s: %w", method, rpcErr)
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, method, r.err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.raw, out); err != nil {
		return fmt.Errorf("%s: decode reply: %w", method, err)
	}
	return nil
}

func (c *RPCClient) Ping(ctx context.Context) error {
	return c.call(ctx, "getblockchaininfo", nil)
}

func (c *RPCClient) GetBlockchainInfo(ctx context.Context) (*ChainInfo, error) {
	var info ChainInfo
	if err := c.call(ctx, "getblockchaininfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// errNoInfo is the code zcashd uses for unknown transactions.
const errNoInfo = btcjson.ErrRPCNoTxInfo

func (c *RPCClient) GetRawTransaction(ctx context.Context, txid string) (*RawTransaction, error) {
	var reply struct {
		TxID          string `json:"txid"`
		Hex           string `json:"hex"`
		Height        *int64 `json:"height"`
		BlockTime     int64  `json:"blocktime"`
		Confirmations int64  `json:"confirmations"`
	}
	err := c.call(ctx, "getrawtransaction", &reply, txid, 1)
	if err != nil {
		var rpcErr *btcjson.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == errNoInfo {
			return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txid)
		}
		return nil, err
	}

	tx := &RawTransaction{
		TxID:          reply.TxID,
		Hex:           reply.Hex,
		Confirmations: reply.Confirmations,
	}
	// zcashd reports height -1 for mempool transactions
	if reply.Height != nil && *reply.Height >= 0 {
		h := uint32(*reply.Height)
		tx.Height = &h
	}
	if reply.BlockTime > 0 {
		tx.BlockTime = time.Unix(reply.BlockTime, 0).UTC()
	}
	return tx, nil
}
