package execution

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cyphera/delegation-server/internal/delegation"
)

var (
	// ErrDelegateMismatch means the delegation is scoped to a different
	// redeemer than ours. This is the authorization check that stops one
	// merchant's redeemer from spending a delegation granted to another;
	// it must stay a hard failure.
	ErrDelegateMismatch = errors.New("delegation delegate does not match redeemer account")

	// ErrInvalidInput covers malformed builder arguments.
	ErrInvalidInput = errors.New("invalid execution input")
)

// delegationManagerAddress is the on-chain contract that verifies a
// delegation's authority chain and caveats before executing on the
// delegator's behalf.
var delegationManagerAddress = common.HexToAddress("0x739309deED0Ae184E66a427ACa432aE1D91d022e")

// singleExecutionMode is the mode code for one call executed through the
// delegation (no batching).
var singleExecutionMode [32]byte

const erc20ABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

const delegationManagerABI = `[{"inputs":[{"name":"_permissionContexts","type":"bytes[]"},{"name":"_modes","type":"bytes32[]"},{"name":"_executionCallDatas","type":"bytes[]"}],"name":"redeemDelegations","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

// Payload is the chain-specific call a redemption submits: the redeemer
// account invoking the delegation manager with the customer's delegation and
// the single authorized token transfer.
type Payload struct {
	Sender            common.Address
	DelegationManager common.Address
	CallData          []byte

	// TokenContract and Amount are carried for logging and tests; CallData
	// is the binding encoding.
	TokenContract common.Address
	Amount        *big.Int
}

// Builder turns a validated delegation plus transfer parameters into an
// execution payload.
type Builder struct {
	erc20   abi.ABI
	manager abi.ABI
}

// NewBuilder parses the embedded ABIs once.
func NewBuilder() (*Builder, error) {
	erc20, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}
	manager, err := abi.JSON(strings.NewReader(delegationManagerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse delegation manager ABI: %w", err)
	}
	return &Builder{erc20: erc20, manager: manager}, nil
}

// Build encodes the token transfer and wraps it as the single action
// executed through the delegation's authority chain. The delegation bytes
// are passed through exactly as signed, caveats included; this service never
// rewrites what the customer authorized.
//
// tokenAmount is in the token's smallest unit. The builder does not rescale
// by tokenDecimals; callers that hold human-denominated amounts must convert
// before calling (rescaling here would double-scale smallest-unit callers).
func (b *Builder) Build(
	del *delegation.Delegation,
	signedDelegation []byte,
	merchantAddress string,
	tokenContractAddress string,
	tokenAmount int64,
	tokenDecimals int32,
	redeemerAddress common.Address,
) (*Payload, error) {
	if del == nil {
		return nil, fmt.Errorf("%w: delegation is required", ErrInvalidInput)
	}
	if !delegation.IsValidAddress(merchantAddress) {
		return nil, fmt.Errorf("%w: merchant address %q", ErrInvalidInput, merchantAddress)
	}
	if !delegation.IsValidAddress(tokenContractAddress) {
		return nil, fmt.Errorf("%w: token contract address %q", ErrInvalidInput, tokenContractAddress)
	}
	if tokenAmount <= 0 {
		return nil, fmt.Errorf("%w: token amount must be positive", ErrInvalidInput)
	}
	if tokenDecimals < 0 {
		return nil, fmt.Errorf("%w: token decimals cannot be negative", ErrInvalidInput)
	}

	if !strings.EqualFold(del.Delegate, redeemerAddress.Hex()) {
		return nil, fmt.Errorf("%w: delegation delegate %s, redeemer %s",
			ErrDelegateMismatch, del.Delegate, redeemerAddress.Hex())
	}

	amount := new(big.Int).SetInt64(tokenAmount)
	transferData, err := b.erc20.Pack("transfer", common.HexToAddress(merchantAddress), amount)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer call: %w", err)
	}

	execution := encodeSingleExecution(common.HexToAddress(tokenContractAddress), big.NewInt(0), transferData)

	callData, err := b.manager.Pack("redeemDelegations",
		[][]byte{signedDelegation},
		[][32]byte{singleExecutionMode},
		[][]byte{execution},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode redeemDelegations call: %w", err)
	}

	return &Payload{
		Sender:            redeemerAddress,
		DelegationManager: delegationManagerAddress,
		CallData:          callData,
		TokenContract:     common.HexToAddress(tokenContractAddress),
		Amount:            amount,
	}, nil
}

// encodeSingleExecution packs (target, value, callData) in the single
// execution layout: 20-byte target, 32-byte value, then the raw calldata.
func encodeSingleExecution(target common.Address, value *big.Int, callData []byte) []byte {
	packed := make([]byte, 0, 20+32+len(callData))
	packed = append(packed, target.Bytes()...)
	packed = append(packed, common.LeftPadBytes(value.Bytes(), 32)...)
	packed = append(packed, callData...)
	return packed
}
