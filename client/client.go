// Package client is the library the billing backend embeds to call the
// delegation server. It owns the connection lifecycle, per-call timeouts,
// pre-flight input validation, and a lightweight health probe.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/cyphera/delegation-server/proto"
)

var (
	// ErrInvalidInput means the request failed local validation; no RPC
	// round trip was spent on it.
	ErrInvalidInput = errors.New("invalid redemption input")

	// ErrUnavailable means the server could not be reached. Callers should
	// apply their own backoff before retrying.
	ErrUnavailable = errors.New("delegation server unavailable")

	// ErrTimeout means the call deadline passed with the outcome unknown.
	// The redemption may still complete on chain; reconcile via chain
	// lookup rather than blindly retrying.
	ErrTimeout = errors.New("delegation redemption timed out")

	// ErrRedemptionFailed means the server processed the request and
	// reported a business failure.
	ErrRedemptionFailed = errors.New("delegation redemption failed")
)

const (
	defaultRPCTimeout  = 3 * time.Minute // blockchain confirmation latency
	healthCheckTimeout = 10 * time.Second
	maxMessageSize     = 20 * 1024 * 1024
	zeroAddress        = "0x0000000000000000000000000000000000000000"
)

// ExecutionObject carries the redemption parameters for one billing attempt.
// TokenAmount is in the token's smallest unit.
type ExecutionObject struct {
	MerchantAddress      string
	TokenContractAddress string
	TokenAmount          int64
	TokenDecimals        int32
	ChainID              uint32
	NetworkName          string
}

// Config configures the delegation client.
type Config struct {
	// ServerAddr is the gRPC address of the delegation server.
	ServerAddr string

	// RPCTimeout bounds each redemption call. Defaults to 3 minutes to
	// cover bundler confirmation latency.
	RPCTimeout time.Duration

	// UseLocalMode dials with plaintext credentials and no DNS resolution,
	// for same-host or trusted-network development use. Production uses
	// DNS resolution and TLS against the system CA pool.
	UseLocalMode bool
}

// DelegationClient talks to the delegation server over a single long-lived
// connection, reused across calls. Safe for concurrent use.
type DelegationClient struct {
	conn       *grpc.ClientConn
	client     proto.DelegationServiceClient
	rpcTimeout time.Duration
	logger     *zap.Logger
}

// NewDelegationClient establishes the connection described by config.
// The connection is lazy; the first call pays the dial cost, after which it
// is amortized across the process lifetime (important for warm-start
// serverless callers).
func NewDelegationClient(config Config, logger *zap.Logger) (*DelegationClient, error) {
	if config.ServerAddr == "" {
		return nil, errors.New("delegation server address is required")
	}

	timeout := config.RPCTimeout
	if timeout == 0 {
		timeout = defaultRPCTimeout
	}

	var creds grpc.DialOption
	if config.UseLocalMode {
		creds = grpc.WithTransportCredentials(insecure.NewCredentials())
	} else {
		// Verify the server certificate against the system CA pool.
		creds = grpc.WithTransportCredentials(credentials.NewClientTLSFromCert(nil, ""))
	}

	dialOpts := []grpc.DialOption{
		creds,
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMessageSize),
			grpc.MaxCallSendMsgSize(maxMessageSize),
		),
	}

	target := config.ServerAddr
	if config.UseLocalMode {
		// Bypass DNS resolution and connect directly.
		target = fmt.Sprintf("passthrough:///%s", config.ServerAddr)
	}

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to delegation server")
	}

	return &DelegationClient{
		conn:       conn,
		client:     proto.NewDelegationServiceClient(conn),
		rpcTimeout: timeout,
		logger:     logger,
	}, nil
}

// RedeemDelegation redeems a delegation and returns the transaction hash.
// Input validation runs locally first so malformed requests never consume an
// RPC round trip.
func (c *DelegationClient) RedeemDelegation(ctx context.Context, signature []byte, executionObject ExecutionObject) (string, error) {
	if err := validateRedemptionInputs(signature, executionObject); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.rpcTimeout)
	defer cancel()

	req := &proto.RedeemDelegationRequest{
		Signature:            signature,
		MerchantAddress:      executionObject.MerchantAddress,
		TokenContractAddress: executionObject.TokenContractAddress,
		TokenAmount:          executionObject.TokenAmount,
		TokenDecimals:        executionObject.TokenDecimals,
		ChainId:              executionObject.ChainID,
		NetworkName:          executionObject.NetworkName,
	}

	res, err := c.client.RedeemDelegation(ctx, req)
	if err != nil {
		return "", c.classifyRPCError(err)
	}

	c.logger.Debug("Delegation server response", zap.String("response", spew.Sdump(res)))

	return c.processRedemptionResponse(res)
}

// HealthCheck probes the server with a deliberately invalid minimal request.
// A validation-type rejection means the server is reachable and alive; only
// a connection-level unavailability code reports the server as down.
func (c *DelegationClient) HealthCheck(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req := &proto.RedeemDelegationRequest{
		Signature:            []byte{},
		MerchantAddress:      zeroAddress,
		TokenContractAddress: zeroAddress,
	}

	_, err := c.client.RedeemDelegation(timeoutCtx, req)
	if err == nil {
		// An accepted empty request would be a server bug, but it still
		// proves the server is reachable.
		return nil
	}

	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unavailable:
		return errors.Wrapf(ErrUnavailable, "health check: %s", st.Message())
	case codes.DeadlineExceeded:
		return errors.Wrapf(ErrUnavailable, "health check timed out: %s", st.Message())
	default:
		// The server connected and rejected the probe, which is the
		// expected healthy outcome.
		return nil
	}
}

// Close closes the gRPC connection. Call when the client is no longer
// needed.
func (c *DelegationClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func validateRedemptionInputs(signature []byte, executionObject ExecutionObject) error {
	if len(signature) == 0 {
		return errors.Wrap(ErrInvalidInput, "signature cannot be empty")
	}
	if executionObject.MerchantAddress == "" || executionObject.MerchantAddress == zeroAddress {
		return errors.Wrap(ErrInvalidInput, "valid merchant address is required")
	}
	if executionObject.TokenContractAddress == "" || executionObject.TokenContractAddress == zeroAddress {
		return errors.Wrap(ErrInvalidInput, "valid token contract address is required")
	}
	if executionObject.TokenAmount <= 0 {
		return errors.Wrap(ErrInvalidInput, "valid token amount is required")
	}
	if executionObject.TokenDecimals < 0 {
		return errors.Wrap(ErrInvalidInput, "token decimals cannot be negative")
	}
	if executionObject.ChainID == 0 {
		return errors.Wrap(ErrInvalidInput, "chain ID cannot be zero")
	}
	if executionObject.NetworkName == "" {
		return errors.Wrap(ErrInvalidInput, "network name cannot be empty")
	}
	return nil
}

// classifyRPCError splits connectivity-layer failures from business
// rejections the server expressed as status errors.
func (c *DelegationClient) classifyRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	switch st.Code() {
	case codes.Unavailable:
		return errors.Wrap(ErrUnavailable, st.Message())
	case codes.DeadlineExceeded:
		return errors.Wrap(ErrTimeout, st.Message())
	default:
		return errors.Wrapf(ErrRedemptionFailed, "%s", st.Message())
	}
}

func (c *DelegationClient) processRedemptionResponse(res *proto.RedeemDelegationResponse) (string, error) {
	if !res.GetSuccess() {
		errorMsg := res.GetErrorMessage()
		if errorMsg == "" {
			errorMsg = "unknown error (empty error message from server)"
		}
		return "", errors.Wrapf(ErrRedemptionFailed, "%s", errorMsg)
	}

	txHash := res.GetTransactionHash()
	if txHash == "" {
		return "", errors.Wrap(ErrRedemptionFailed, "empty transaction hash returned")
	}

	return txHash, nil
}
