package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cyphera/delegation-server/internal/account"
	"github.com/cyphera/delegation-server/internal/config"
	"github.com/cyphera/delegation-server/internal/delegation"
	"github.com/cyphera/delegation-server/internal/execution"
	"github.com/cyphera/delegation-server/internal/network"
	"github.com/cyphera/delegation-server/internal/service"
	"github.com/cyphera/delegation-server/proto"
)

type fakeNetworkResolver struct {
	config *network.Config
	err    error
}

func (f *fakeNetworkResolver) Resolve(_ context.Context, chainID uint32, networkName string) (*network.Config, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.config != nil {
		return f.config, nil
	}
	return &network.Config{
		ChainID:     chainID,
		NetworkName: networkName,
		RPCURL:      "https://sepolia.example/v3/key",
		BundlerURL:  "https://bundler.example/v2/rpc?apikey=key",
	}, nil
}

type fakeSubmitter struct {
	mu       sync.Mutex
	err      error
	txHash   string
	payloads []*execution.Payload
	count    int
}

func (f *fakeSubmitter) Submit(_ context.Context, payload *execution.Payload, _ *account.Handle, _ *network.Config) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return "", f.err
	}
	if f.txHash != "" {
		return f.txHash, nil
	}
	return fmt.Sprintf("0xtx%04d", f.count), nil
}

type fakeChainClient struct {
	code       []byte
	err        error
	chainID    uint64
	chainIDErr error
}

func (f *fakeChainClient) GetBytecode(_ context.Context, _ string) ([]byte, error) {
	return f.code, f.err
}

func (f *fakeChainClient) ChainID(_ context.Context) (uint64, error) {
	if f.chainIDErr != nil {
		return 0, f.chainIDErr
	}
	if f.chainID != 0 {
		return f.chainID, nil
	}
	return 11155111, nil
}

func (f *fakeChainClient) Close() {}

type serviceFixture struct {
	svc       *service.DelegationService
	submitter *fakeSubmitter
	handle    *account.Handle
}

type fixtureOptions struct {
	networks        service.NetworkResolver
	submitter       *fakeSubmitter
	chainClient     service.ChainClient
	dialErr         error
	requireDeployed bool
}

func newFixture(t *testing.T, opts fixtureOptions) *serviceFixture {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	salt := [32]byte{31: 0x01}
	accounts := account.NewResolver(salt)
	handle, err := accounts.Resolve(key)
	require.NoError(t, err)

	builder, err := execution.NewBuilder()
	require.NoError(t, err)

	if opts.networks == nil {
		opts.networks = &fakeNetworkResolver{}
	}
	if opts.submitter == nil {
		opts.submitter = &fakeSubmitter{}
	}
	if opts.chainClient == nil {
		opts.chainClient = &fakeChainClient{code: []byte{0x60}}
	}

	dial := func(_ string) (service.ChainClient, error) {
		if opts.dialErr != nil {
			return nil, opts.dialErr
		}
		return opts.chainClient, nil
	}

	svc := service.New(service.Params{
		Config:    &config.Config{SignerKey: key, DeploymentSalt: salt},
		Logger:    zap.NewNop(),
		Validator: delegation.NewValidator(zap.NewNop(), opts.requireDeployed),
		Networks:  opts.networks,
		Accounts:  accounts,
		Builder:   builder,
		Engine:    opts.submitter,
		DialChain: dial,
	})

	return &serviceFixture{svc: svc, submitter: opts.submitter, handle: handle}
}

func delegationPayload(delegate string) []byte {
	return []byte(fmt.Sprintf(`{
		"delegate": %q,
		"delegator": "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
		"salt": "0x01",
		"signature": "0xsigned"
	}`, delegate))
}

func validRequest(signature []byte) *proto.RedeemDelegationRequest {
	return &proto.RedeemDelegationRequest{
		Signature:            signature,
		MerchantAddress:      "0x9999999999999999999999999999999999999999",
		TokenContractAddress: "0x5555555555555555555555555555555555555555",
		TokenAmount:          1500000,
		TokenDecimals:        6,
		ChainId:              11155111,
		NetworkName:          "sepolia",
	}
}

func TestRedeemDelegation_Success(t *testing.T) {
	f := newFixture(t, fixtureOptions{submitter: &fakeSubmitter{txHash: "0xconfirmed"}})

	res, err := f.svc.RedeemDelegation(context.Background(), validRequest(delegationPayload(f.handle.Address.Hex())))

	require.NoError(t, err)
	assert.True(t, res.GetSuccess())
	assert.Equal(t, "0xconfirmed", res.GetTransactionHash())
	assert.Empty(t, res.GetErrorMessage())

	require.Len(t, f.submitter.payloads, 1)
	assert.Equal(t, f.handle.Address, f.submitter.payloads[0].Sender)
}

func TestRedeemDelegation_MalformedRequests(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	tests := []struct {
		name        string
		mutate      func(req *proto.RedeemDelegationRequest)
		errorString string
	}{
		{
			name:        "empty signature",
			mutate:      func(req *proto.RedeemDelegationRequest) { req.Signature = nil },
			errorString: "signature cannot be empty",
		},
		{
			name:        "missing merchant address",
			mutate:      func(req *proto.RedeemDelegationRequest) { req.MerchantAddress = "" },
			errorString: "merchant address",
		},
		{
			name: "zero merchant address",
			mutate: func(req *proto.RedeemDelegationRequest) {
				req.MerchantAddress = "0x0000000000000000000000000000000000000000"
			},
			errorString: "merchant address",
		},
		{
			name: "zero token contract address",
			mutate: func(req *proto.RedeemDelegationRequest) {
				req.TokenContractAddress = "0x0000000000000000000000000000000000000000"
			},
			errorString: "token contract address",
		},
		{
			name:        "zero token amount",
			mutate:      func(req *proto.RedeemDelegationRequest) { req.TokenAmount = 0 },
			errorString: "token amount",
		},
		{
			name:        "negative token decimals",
			mutate:      func(req *proto.RedeemDelegationRequest) { req.TokenDecimals = -1 },
			errorString: "token decimals",
		},
		{
			name:        "zero chain ID",
			mutate:      func(req *proto.RedeemDelegationRequest) { req.ChainId = 0 },
			errorString: "chain ID",
		},
		{
			name:        "empty network name",
			mutate:      func(req *proto.RedeemDelegationRequest) { req.NetworkName = "" },
			errorString: "network name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(delegationPayload(f.handle.Address.Hex()))
			tt.mutate(req)

			res, err := f.svc.RedeemDelegation(ctx, req)

			// Malformed input is a transport-level rejection, not a typed
			// response, so health probes can see it.
			require.Error(t, err)
			assert.Nil(t, res)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, codes.InvalidArgument, st.Code())
			assert.Contains(t, st.Message(), tt.errorString)
		})
	}

	assert.Zero(t, f.submitter.count, "malformed requests must never reach submission")
}

func TestRedeemDelegation_TypedFailures(t *testing.T) {
	expiredPayload := func(delegate string) []byte {
		return []byte(fmt.Sprintf(`{
			"delegate": %q,
			"delegator": "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
			"salt": "0x01",
			"expiry": %d,
			"signature": "0xsigned"
		}`, delegate, time.Now().Add(-time.Hour).Unix()))
	}

	tests := []struct {
		name        string
		opts        fixtureOptions
		signature   func(f *serviceFixture) []byte
		errorString string
	}{
		{
			name:        "unparseable delegation",
			signature:   func(_ *serviceFixture) []byte { return []byte{0x01, 0x02} },
			errorString: "validation failed",
		},
		{
			name:        "expired delegation",
			signature:   func(f *serviceFixture) []byte { return expiredPayload(f.handle.Address.Hex()) },
			errorString: "validation failed",
		},
		{
			name:        "network resolution failure",
			opts:        fixtureOptions{networks: &fakeNetworkResolver{err: network.ErrConfiguration}},
			signature:   func(f *serviceFixture) []byte { return delegationPayload(f.handle.Address.Hex()) },
			errorString: "network resolution failed",
		},
		{
			name:        "chain dial failure",
			opts:        fixtureOptions{dialErr: errors.New("connection refused")},
			signature:   func(f *serviceFixture) []byte { return delegationPayload(f.handle.Address.Hex()) },
			errorString: "network resolution failed",
		},
		{
			name:        "endpoint chain ID mismatch",
			opts:        fixtureOptions{chainClient: &fakeChainClient{code: []byte{0x60}, chainID: 1}},
			signature:   func(f *serviceFixture) []byte { return delegationPayload(f.handle.Address.Hex()) },
			errorString: "network resolution failed",
		},
		{
			name: "undeployed delegator when deployment required",
			opts: fixtureOptions{
				requireDeployed: true,
				chainClient:     &fakeChainClient{code: nil},
			},
			signature:   func(f *serviceFixture) []byte { return delegationPayload(f.handle.Address.Hex()) },
			errorString: "validation failed",
		},
		{
			name: "delegate mismatch",
			signature: func(_ *serviceFixture) []byte {
				return delegationPayload("0x0000000000000000000000000000000000000001")
			},
			errorString: "execution build failed",
		},
		{
			name:        "submission rejected",
			opts:        fixtureOptions{submitter: &fakeSubmitter{err: errors.New("AA21 didn't pay prefund")}},
			signature:   func(f *serviceFixture) []byte { return delegationPayload(f.handle.Address.Hex()) },
			errorString: "submission failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts)

			res, err := f.svc.RedeemDelegation(context.Background(), validRequest(tt.signature(f)))

			// Pipeline failures come back as typed responses.
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.False(t, res.GetSuccess())
			assert.Empty(t, res.GetTransactionHash())
			assert.Contains(t, res.GetErrorMessage(), tt.errorString)
		})
	}
}

func TestRedeemDelegation_FailuresBeforeSubmissionNeverSubmit(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	// Delegate scoped to a different redeemer.
	res, err := f.svc.RedeemDelegation(context.Background(),
		validRequest(delegationPayload("0x0000000000000000000000000000000000000001")))

	require.NoError(t, err)
	assert.False(t, res.GetSuccess())
	assert.Zero(t, f.submitter.count)
}

func TestRedeemDelegation_ConcurrentRequests(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	payload := delegationPayload(f.handle.Address.Hex())

	const n = 16
	hashes := make([]string, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.RedeemDelegation(context.Background(), validRequest(payload))
			if assert.NoError(t, err) && assert.True(t, res.GetSuccess()) {
				hashes[i] = res.GetTransactionHash()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, h := range hashes {
		assert.NotEmpty(t, h)
		assert.False(t, seen[h], "transaction hashes must be distinct per request")
		seen[h] = true
	}
	assert.Equal(t, n, f.submitter.count)
}
