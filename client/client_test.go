package client

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/cyphera/delegation-server/proto"
)

const bufSize = 1024 * 1024

// stubDelegationServer returns a canned response or status error.
type stubDelegationServer struct {
	proto.UnimplementedDelegationServiceServer

	mu       sync.Mutex
	response *proto.RedeemDelegationResponse
	err      error

	requests []*proto.RedeemDelegationRequest
}

func (s *stubDelegationServer) RedeemDelegation(_ context.Context, req *proto.RedeemDelegationRequest) (*proto.RedeemDelegationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubDelegationServer) set(response *proto.RedeemDelegationResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = response
	s.err = err
}

func (s *stubDelegationServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// newBufconnClient starts an in-process server and returns a client wired to
// it over a bufconn pipe.
func newBufconnClient(t *testing.T, stub *stubDelegationServer) *DelegationClient {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	server := grpc.NewServer()
	proto.RegisterDelegationServiceServer(server, stub)

	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &DelegationClient{
		conn:       conn,
		client:     proto.NewDelegationServiceClient(conn),
		rpcTimeout: 5 * time.Second,
		logger:     zap.NewNop(),
	}
}

func validExecutionObject() ExecutionObject {
	return ExecutionObject{
		MerchantAddress:      "0x9999999999999999999999999999999999999999",
		TokenContractAddress: "0x5555555555555555555555555555555555555555",
		TokenAmount:          1500000,
		TokenDecimals:        6,
		ChainID:              11155111,
		NetworkName:          "sepolia",
	}
}

func TestNewDelegationClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "local mode",
			config: Config{ServerAddr: "localhost:50051", UseLocalMode: true},
		},
		{
			name:   "production mode",
			config: Config{ServerAddr: "delegation.example.com:443"},
		},
		{
			name:    "missing server address",
			config:  Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewDelegationClient(tt.config, zap.NewNop())

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NoError(t, c.Close())
		})
	}
}

func TestNewDelegationClientDefaultTimeout(t *testing.T) {
	c, err := NewDelegationClient(Config{ServerAddr: "localhost:50051", UseLocalMode: true}, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, defaultRPCTimeout, c.rpcTimeout)
}

func TestRedeemDelegation_LocalValidation(t *testing.T) {
	// A nil inner client guarantees the test fails loudly if validation
	// lets a bad request reach the wire.
	c := &DelegationClient{rpcTimeout: time.Second, logger: zap.NewNop()}
	ctx := context.Background()

	tests := []struct {
		name        string
		signature   []byte
		mutate      func(eo *ExecutionObject)
		errorString string
	}{
		{
			name:        "empty signature",
			signature:   nil,
			mutate:      func(eo *ExecutionObject) {},
			errorString: "signature cannot be empty",
		},
		{
			name:        "missing merchant address",
			signature:   []byte("{}"),
			mutate:      func(eo *ExecutionObject) { eo.MerchantAddress = "" },
			errorString: "merchant address",
		},
		{
			name:        "zero merchant address",
			signature:   []byte("{}"),
			mutate:      func(eo *ExecutionObject) { eo.MerchantAddress = zeroAddress },
			errorString: "merchant address",
		},
		{
			name:        "zero token contract address",
			signature:   []byte("{}"),
			mutate:      func(eo *ExecutionObject) { eo.TokenContractAddress = zeroAddress },
			errorString: "token contract address",
		},
		{
			name:        "zero token amount",
			signature:   []byte("{}"),
			mutate:      func(eo *ExecutionObject) { eo.TokenAmount = 0 },
			errorString: "token amount",
		},
		{
			name:        "negative token decimals",
			signature:   []byte("{}"),
			mutate:      func(eo *ExecutionObject) { eo.TokenDecimals = -1 },
			errorString: "token decimals",
		},
		{
			name:        "zero chain ID",
			signature:   []byte("{}"),
			mutate:      func(eo *ExecutionObject) { eo.ChainID = 0 },
			errorString: "chain ID",
		},
		{
			name:        "empty network name",
			signature:   []byte("{}"),
			mutate:      func(eo *ExecutionObject) { eo.NetworkName = "" },
			errorString: "network name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eo := validExecutionObject()
			tt.mutate(&eo)

			txHash, err := c.RedeemDelegation(ctx, tt.signature, eo)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.errorString)
			assert.Empty(t, txHash)
		})
	}
}

func TestRedeemDelegation_Success(t *testing.T) {
	stub := &stubDelegationServer{
		response: &proto.RedeemDelegationResponse{Success: true, TransactionHash: "0xtxhash"},
	}
	c := newBufconnClient(t, stub)

	txHash, err := c.RedeemDelegation(context.Background(), []byte(`{"delegate":"0x01"}`), validExecutionObject())

	require.NoError(t, err)
	assert.Equal(t, "0xtxhash", txHash)

	require.Equal(t, 1, stub.requestCount())
	assert.Equal(t, uint32(11155111), stub.requests[0].GetChainId())
	assert.Equal(t, "sepolia", stub.requests[0].GetNetworkName())
}

func TestRedeemDelegation_BusinessFailure(t *testing.T) {
	stub := &stubDelegationServer{
		response: &proto.RedeemDelegationResponse{Success: false, ErrorMessage: "submission failed: user operation rejected"},
	}
	c := newBufconnClient(t, stub)

	txHash, err := c.RedeemDelegation(context.Background(), []byte("{}"), validExecutionObject())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRedemptionFailed)
	assert.Contains(t, err.Error(), "user operation rejected")
	assert.Empty(t, txHash)
}

func TestRedeemDelegation_EmptyErrorMessage(t *testing.T) {
	stub := &stubDelegationServer{
		response: &proto.RedeemDelegationResponse{Success: false},
	}
	c := newBufconnClient(t, stub)

	_, err := c.RedeemDelegation(context.Background(), []byte("{}"), validExecutionObject())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRedemptionFailed)
	assert.Contains(t, err.Error(), "unknown error")
}

func TestRedeemDelegation_SuccessWithEmptyHash(t *testing.T) {
	stub := &stubDelegationServer{
		response: &proto.RedeemDelegationResponse{Success: true},
	}
	c := newBufconnClient(t, stub)

	txHash, err := c.RedeemDelegation(context.Background(), []byte("{}"), validExecutionObject())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRedemptionFailed)
	assert.Contains(t, err.Error(), "empty transaction hash")
	assert.Empty(t, txHash)
}

func TestRedeemDelegation_StatusErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		code    codes.Code
		wantErr error
	}{
		{name: "unavailable maps to ErrUnavailable", code: codes.Unavailable, wantErr: ErrUnavailable},
		{name: "deadline exceeded maps to ErrTimeout", code: codes.DeadlineExceeded, wantErr: ErrTimeout},
		{name: "invalid argument maps to ErrRedemptionFailed", code: codes.InvalidArgument, wantErr: ErrRedemptionFailed},
		{name: "internal maps to ErrRedemptionFailed", code: codes.Internal, wantErr: ErrRedemptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubDelegationServer{err: status.Error(tt.code, "boom")}
			c := newBufconnClient(t, stub)

			_, err := c.RedeemDelegation(context.Background(), []byte("{}"), validExecutionObject())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("validation rejection means healthy", func(t *testing.T) {
		stub := &stubDelegationServer{err: status.Error(codes.InvalidArgument, "signature cannot be empty")}
		c := newBufconnClient(t, stub)

		assert.NoError(t, c.HealthCheck(context.Background()))
	})

	t.Run("typed failure response means healthy", func(t *testing.T) {
		stub := &stubDelegationServer{
			response: &proto.RedeemDelegationResponse{Success: false, ErrorMessage: "validation failed"},
		}
		c := newBufconnClient(t, stub)

		assert.NoError(t, c.HealthCheck(context.Background()))
	})

	t.Run("unreachable server means unhealthy", func(t *testing.T) {
		stub := &stubDelegationServer{err: status.Error(codes.Unavailable, "connection refused")}
		c := newBufconnClient(t, stub)

		err := c.HealthCheck(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
