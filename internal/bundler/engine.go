package bundler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/cyphera/delegation-server/internal/account"
	"github.com/cyphera/delegation-server/internal/execution"
	"github.com/cyphera/delegation-server/internal/network"
)

var (
	// ErrSubmissionRejected means the bundler or chain explicitly refused
	// the operation (insufficient balance, reverted call, bad signature).
	// Terminal: resubmitting the same payload will fail again.
	ErrSubmissionRejected = errors.New("user operation rejected")

	// ErrSubmissionTimeout means the call deadline passed with the final
	// outcome unknown. The operation may still land on chain; callers must
	// reconcile via chain lookup, never blind-retry.
	ErrSubmissionTimeout = errors.New("user operation confirmation timed out")

	// ErrEmptyHash guards against a confirmed receipt carrying no
	// transaction hash; surfaced as a failure, never as success.
	ErrEmptyHash = errors.New("confirmed user operation returned empty transaction hash")
)

// getNonce(address sender, uint192 key) on the EntryPoint.
const getNonceSelector = "0x35567e1a"

// Transport is the JSON-RPC channel the engine talks through. Satisfied by
// *rpc.Client; faked in tests.
type Transport interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// Dialer opens a Transport for an endpoint URL.
type Dialer func(ctx context.Context, url string) (Transport, error)

// DialRPC is the production dialer.
func DialRPC(ctx context.Context, url string) (Transport, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Engine submits execution payloads as bundled user operations and waits
// for inclusion. One instance is shared across requests.
type Engine struct {
	logger       *zap.Logger
	dial         Dialer
	pollInterval time.Duration
}

// NewEngine creates a submission engine. A nil dialer gets the production
// JSON-RPC dialer.
func NewEngine(logger *zap.Logger, dial Dialer) *Engine {
	if dial == nil {
		dial = DialRPC
	}
	return &Engine{
		logger:       logger,
		dial:         dial,
		pollInterval: 2 * time.Second,
	}
}

type userOpReceipt struct {
	UserOpHash string `json:"userOpHash"`
	Success    bool   `json:"success"`
	Reason     string `json:"reason"`
	Receipt    struct {
		TransactionHash string `json:"transactionHash"`
	} `json:"receipt"`
}

// Submit relays the payload through the bundler and polls for inclusion
// until the context deadline. Returns the transaction hash on success.
//
// The relay is asynchronous: a timeout here does not cancel the in-flight
// operation, which is why timeouts and rejections are distinct errors.
func (e *Engine) Submit(ctx context.Context, payload *execution.Payload, handle *account.Handle, netCfg *network.Config) (string, error) {
	chainRPC, err := e.dial(ctx, netCfg.RPCURL)
	if err != nil {
		return "", fmt.Errorf("failed to connect to chain RPC: %w", err)
	}
	defer chainRPC.Close()

	bundlerRPC, err := e.dial(ctx, netCfg.BundlerURL)
	if err != nil {
		return "", fmt.Errorf("failed to connect to bundler: %w", err)
	}
	defer bundlerRPC.Close()

	op, err := e.buildUserOperation(ctx, chainRPC, payload, handle)
	if err != nil {
		return "", err
	}

	if err := signUserOperation(op, netCfg.ChainID, handle.SignerKey()); err != nil {
		return "", err
	}

	var userOpHash string
	err = bundlerRPC.CallContext(ctx, &userOpHash, "eth_sendUserOperation", op, entryPointAddress.Hex())
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrSubmissionTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}

	e.logger.Info("User operation submitted",
		zap.String("user_op_hash", userOpHash),
		zap.Uint32("chain_id", netCfg.ChainID),
		zap.String("sender", payload.Sender.Hex()),
	)

	return e.waitForReceipt(ctx, bundlerRPC, userOpHash)
}

// buildUserOperation assembles the unsigned operation: nonce from the
// EntryPoint, initCode only when the sender is not yet deployed, gas from
// the bundler's estimator with conservative fallbacks.
func (e *Engine) buildUserOperation(ctx context.Context, chainRPC Transport, payload *execution.Payload, handle *account.Handle) (*UserOperation, error) {
	initCode := "0x"
	var senderCode string
	if err := chainRPC.CallContext(ctx, &senderCode, "eth_getCode", payload.Sender.Hex(), "latest"); err != nil {
		return nil, fmt.Errorf("failed to check redeemer deployment: %w", err)
	}
	if senderCode == "" || senderCode == "0x" {
		initCode = hexutil.Encode(handle.InitCode())
	}

	nonce, err := e.fetchNonce(ctx, chainRPC, payload)
	if err != nil {
		return nil, err
	}

	op := &UserOperation{
		Sender:               payload.Sender,
		Nonce:                nonce,
		InitCode:             initCode,
		CallData:             hexutil.Encode(payload.CallData),
		CallGasLimit:         "0x30d40",
		VerificationGasLimit: "0x493e0", // generous, covers first-use deployment
		PreVerificationGas:   "0xc350",
		MaxFeePerGas:         "0x59682f00",
		MaxPriorityFeePerGas: "0x59682f00",
		PaymasterAndData:     "0x",
		Signature:            "0x",
	}

	var gasPrice string
	if err := chainRPC.CallContext(ctx, &gasPrice, "eth_gasPrice"); err == nil && gasPrice != "" {
		op.MaxFeePerGas = gasPrice
		op.MaxPriorityFeePerGas = gasPrice
	}

	return op, nil
}

func (e *Engine) fetchNonce(ctx context.Context, chainRPC Transport, payload *execution.Payload) (string, error) {
	callData := getNonceSelector +
		common.Bytes2Hex(common.LeftPadBytes(payload.Sender.Bytes(), 32)) +
		strings.Repeat("0", 64)

	var result string
	err := chainRPC.CallContext(ctx, &result, "eth_call", map[string]interface{}{
		"to":   entryPointAddress.Hex(),
		"data": callData,
	}, "latest")
	if err != nil {
		return "", fmt.Errorf("failed to fetch account nonce: %w", err)
	}

	nonce, err := parseHexBig(result)
	if err != nil {
		return "", fmt.Errorf("failed to parse account nonce: %w", err)
	}
	return hexutil.EncodeBig(nonce), nil
}

// waitForReceipt polls the bundler until the operation is included or the
// context deadline passes.
func (e *Engine) waitForReceipt(ctx context.Context, bundlerRPC Transport, userOpHash string) (string, error) {
	poll := backoff.WithContext(backoff.NewConstantBackOff(e.pollInterval), ctx)

	var receipt *userOpReceipt
	err := backoff.Retry(func() error {
		var r userOpReceipt
		callErr := bundlerRPC.CallContext(ctx, &r, "eth_getUserOperationReceipt", userOpHash)
		if callErr != nil {
			return callErr
		}
		if r.UserOpHash == "" && r.Receipt.TransactionHash == "" {
			return errors.New("user operation not mined yet")
		}
		receipt = &r
		return nil
	}, poll)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %s", ErrSubmissionTimeout, userOpHash)
		}
		return "", fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}

	if !receipt.Success {
		reason := receipt.Reason
		if reason == "" {
			reason = "execution reverted"
		}
		return "", fmt.Errorf("%w: %s", ErrSubmissionRejected, reason)
	}

	txHash := receipt.Receipt.TransactionHash
	if txHash == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyHash, userOpHash)
	}

	e.logger.Info("User operation confirmed",
		zap.String("user_op_hash", userOpHash),
		zap.String("tx_hash", txHash),
	)

	return txHash, nil
}
