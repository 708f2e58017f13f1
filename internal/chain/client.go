package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps an ethclient connection for the chain-side reads the
// redemption pipeline needs. Safe for concurrent use.
type Client struct {
	eth *ethclient.Client
	url string
}

// Dial connects to the given RPC endpoint.
func Dial(rpcURL string) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	return &Client{eth: eth, url: rpcURL}, nil
}

// GetBytecode returns the deployed bytecode at the given address, or an
// empty slice if the account is not a contract (or not yet deployed).
func (c *Client) GetBytecode(ctx context.Context, address string) ([]byte, error) {
	code, err := c.eth.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bytecode for %s: %w", address, err)
	}
	return code, nil
}

// ChainID queries the connected endpoint for its chain ID, used to confirm
// the resolved RPC URL matches the requested chain.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return id.Uint64(), nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
