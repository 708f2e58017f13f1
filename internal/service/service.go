package service

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cyphera/delegation-server/internal/account"
	"github.com/cyphera/delegation-server/internal/chain"
	"github.com/cyphera/delegation-server/internal/config"
	"github.com/cyphera/delegation-server/internal/delegation"
	"github.com/cyphera/delegation-server/internal/execution"
	"github.com/cyphera/delegation-server/internal/network"
	"github.com/cyphera/delegation-server/proto"
)

// Pipeline stages, in redemption order. Failure responses name the stage
// that failed so operators can triage from the message alone.
const (
	stageReceived        = "received"
	stageValidated       = "validation"
	stageNetworkResolved = "network resolution"
	stageAccountResolved = "account resolution"
	stageBuilt           = "execution build"
	stageSubmitted       = "submission"
)

// NetworkResolver resolves chain endpoints. Satisfied by *network.Resolver.
type NetworkResolver interface {
	Resolve(ctx context.Context, chainID uint32, networkName string) (*network.Config, error)
}

// Submitter relays built payloads through the bundler. Satisfied by
// *bundler.Engine.
type Submitter interface {
	Submit(ctx context.Context, payload *execution.Payload, handle *account.Handle, netCfg *network.Config) (string, error)
}

// ChainClient is the per-network chain connection the validator uses.
type ChainClient interface {
	delegation.BytecodeFetcher
	ChainID(ctx context.Context) (uint64, error)
	Close()
}

// ChainDialer opens a chain client for a resolved RPC URL.
type ChainDialer func(rpcURL string) (ChainClient, error)

func dialChain(rpcURL string) (ChainClient, error) {
	return chain.Dial(rpcURL)
}

// DelegationService is the gRPC redemption service. It owns the signing key
// and orchestrates the pipeline; each request is independent, so concurrent
// redemptions proceed fully in parallel.
type DelegationService struct {
	proto.UnimplementedDelegationServiceServer

	cfg       *config.Config
	logger    *zap.Logger
	validator *delegation.Validator
	networks  NetworkResolver
	accounts  *account.Resolver
	builder   *execution.Builder
	engine    Submitter
	dialChain ChainDialer
}

// Params wires a DelegationService.
type Params struct {
	Config    *config.Config
	Logger    *zap.Logger
	Validator *delegation.Validator
	Networks  NetworkResolver
	Accounts  *account.Resolver
	Builder   *execution.Builder
	Engine    Submitter
	DialChain ChainDialer // nil = production dialer
}

// New creates the redemption service.
func New(p Params) *DelegationService {
	if p.DialChain == nil {
		p.DialChain = dialChain
	}
	return &DelegationService{
		cfg:       p.Config,
		logger:    p.Logger,
		validator: p.Validator,
		networks:  p.Networks,
		accounts:  p.Accounts,
		builder:   p.Builder,
		engine:    p.Engine,
		dialChain: p.DialChain,
	}
}

// RedeemDelegation runs the full redemption pipeline for one request.
//
// Malformed requests are rejected with codes.InvalidArgument before the
// pipeline starts; every failure past that point comes back as a typed
// response with success=false rather than a transport error, so callers can
// distinguish connectivity problems from business failures.
func (s *DelegationService) RedeemDelegation(ctx context.Context, req *proto.RedeemDelegationRequest) (*proto.RedeemDelegationResponse, error) {
	requestID := uuid.New().String()
	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.Uint32("chain_id", req.GetChainId()),
		zap.String("network", req.GetNetworkName()),
	)

	if err := validateRequest(req); err != nil {
		log.Warn("Rejected malformed redemption request", zap.Error(err))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	log.Info("Redemption request received",
		zap.Int("payload_bytes", len(req.GetSignature())),
		zap.String("merchant", req.GetMerchantAddress()),
	)

	// Validated: parse and run the pure local checks before any network
	// or signing cost.
	del, err := delegation.Parse(req.GetSignature())
	if err != nil {
		return s.fail(log, stageValidated, err), nil
	}
	if err := s.validator.Validate(ctx, del, nil); err != nil {
		return s.fail(log, stageValidated, err), nil
	}

	// NetworkResolved.
	netCfg, err := s.networks.Resolve(ctx, req.GetChainId(), req.GetNetworkName())
	if err != nil {
		return s.fail(log, stageNetworkResolved, err), nil
	}

	chainClient, err := s.dialChain(netCfg.RPCURL)
	if err != nil {
		return s.fail(log, stageNetworkResolved, err), nil
	}
	defer chainClient.Close()

	// A provider mixup here would submit to the wrong chain, so confirm the
	// endpoint agrees with the requested chain ID before going further.
	endpointChainID, err := chainClient.ChainID(ctx)
	if err != nil {
		return s.fail(log, stageNetworkResolved, err), nil
	}
	if endpointChainID != uint64(req.GetChainId()) {
		return s.fail(log, stageNetworkResolved,
			fmt.Errorf("RPC endpoint reports chain %d, request targets chain %d", endpointChainID, req.GetChainId())), nil
	}

	if err := s.validator.CheckDeployment(ctx, del, chainClient); err != nil {
		return s.fail(log, stageValidated, err), nil
	}

	// AccountResolved.
	handle, err := s.accounts.Resolve(s.cfg.SignerKey)
	if err != nil {
		return s.fail(log, stageAccountResolved, err), nil
	}

	// Built: includes the delegate==redeemer authorization check.
	payload, err := s.builder.Build(
		del,
		req.GetSignature(),
		req.GetMerchantAddress(),
		req.GetTokenContractAddress(),
		req.GetTokenAmount(),
		req.GetTokenDecimals(),
		handle.Address,
	)
	if err != nil {
		return s.fail(log, stageBuilt, err), nil
	}

	// Submitted -> Confirmed | Rejected | TimedOut.
	txHash, err := s.engine.Submit(ctx, payload, handle, netCfg)
	if err != nil {
		return s.fail(log, stageSubmitted, err), nil
	}
	if txHash == "" {
		return s.fail(log, stageSubmitted, fmt.Errorf("empty transaction hash reported as success")), nil
	}

	log.Info("Redemption confirmed", zap.String("tx_hash", txHash))

	return &proto.RedeemDelegationResponse{
		Success:         true,
		TransactionHash: txHash,
	}, nil
}

func (s *DelegationService) fail(log *zap.Logger, stage string, err error) *proto.RedeemDelegationResponse {
	log.Error("Redemption failed",
		zap.String("stage", stage),
		zap.Error(err),
	)
	return &proto.RedeemDelegationResponse{
		Success:      false,
		ErrorMessage: fmt.Sprintf("%s failed: %v", stage, err),
	}
}

// validateRequest mirrors the client's pre-flight checks so a request that
// slipped past an out-of-date client still cannot start the pipeline.
func validateRequest(req *proto.RedeemDelegationRequest) error {
	if len(req.GetSignature()) == 0 {
		return fmt.Errorf("signature cannot be empty")
	}
	if !delegation.IsValidAddress(req.GetMerchantAddress()) || isZeroAddress(req.GetMerchantAddress()) {
		return fmt.Errorf("valid merchant address is required")
	}
	if !delegation.IsValidAddress(req.GetTokenContractAddress()) || isZeroAddress(req.GetTokenContractAddress()) {
		return fmt.Errorf("valid token contract address is required")
	}
	if req.GetTokenAmount() <= 0 {
		return fmt.Errorf("valid token amount is required")
	}
	if req.GetTokenDecimals() < 0 {
		return fmt.Errorf("token decimals cannot be negative")
	}
	if req.GetChainId() == 0 {
		return fmt.Errorf("chain ID cannot be zero")
	}
	if req.GetNetworkName() == "" {
		return fmt.Errorf("network name cannot be empty")
	}
	return nil
}

func isZeroAddress(addr string) bool {
	return common.HexToAddress(addr) == (common.Address{})
}
