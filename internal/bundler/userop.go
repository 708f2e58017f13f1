package bundler

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// entryPointAddress is the canonical v0.6 EntryPoint shared by bundlers.
var entryPointAddress = common.HexToAddress("0x5FF137D4b0FDCD49DcA30c7CF57E578a026d2789")

// UserOperation is the EIP-4337 payload relayed through the bundler.
// Numeric fields travel as 0x-hex strings on the wire.
type UserOperation struct {
	Sender               common.Address `json:"sender"`
	Nonce                string         `json:"nonce"`
	InitCode             string         `json:"initCode"`
	CallData             string         `json:"callData"`
	CallGasLimit         string         `json:"callGasLimit"`
	VerificationGasLimit string         `json:"verificationGasLimit"`
	PreVerificationGas   string         `json:"preVerificationGas"`
	MaxFeePerGas         string         `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string         `json:"maxPriorityFeePerGas"`
	PaymasterAndData     string         `json:"paymasterAndData"`
	Signature            string         `json:"signature"`
}

// signUserOperation computes the v0.6 userOpHash and signs it with the
// account owner key, EIP-191 wrapped as the light account expects.
func signUserOperation(op *UserOperation, chainID uint32, key *ecdsa.PrivateKey) error {
	opHash, err := hashUserOperation(op, chainID)
	if err != nil {
		return err
	}

	digest := crypto.Keccak256(
		[]byte("\x19Ethereum Signed Message:\n32"),
		opHash,
	)

	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return fmt.Errorf("failed to sign user operation: %w", err)
	}
	// Recovery id in Ethereum convention.
	sig[64] += 27

	op.Signature = hexutil.Encode(sig)
	return nil
}

// hashUserOperation implements the v0.6 EntryPoint hash:
// keccak256(abi.encode(keccak256(packed op), entryPoint, chainId)).
func hashUserOperation(op *UserOperation, chainID uint32) ([]byte, error) {
	uint256Ty, err := abi.NewType("uint256", "", nil)
	if err != nil {
		return nil, err
	}
	bytes32Ty, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		return nil, err
	}
	addressTy, err := abi.NewType("address", "", nil)
	if err != nil {
		return nil, err
	}

	packedArgs := abi.Arguments{
		{Type: addressTy}, {Type: uint256Ty}, {Type: bytes32Ty}, {Type: bytes32Ty},
		{Type: uint256Ty}, {Type: uint256Ty}, {Type: uint256Ty},
		{Type: uint256Ty}, {Type: uint256Ty}, {Type: bytes32Ty},
	}

	nonce, err := parseHexBig(op.Nonce)
	if err != nil {
		return nil, fmt.Errorf("invalid nonce: %w", err)
	}
	callGas, err := parseHexBig(op.CallGasLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid callGasLimit: %w", err)
	}
	verificationGas, err := parseHexBig(op.VerificationGasLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid verificationGasLimit: %w", err)
	}
	preVerificationGas, err := parseHexBig(op.PreVerificationGas)
	if err != nil {
		return nil, fmt.Errorf("invalid preVerificationGas: %w", err)
	}
	maxFee, err := parseHexBig(op.MaxFeePerGas)
	if err != nil {
		return nil, fmt.Errorf("invalid maxFeePerGas: %w", err)
	}
	maxPriorityFee, err := parseHexBig(op.MaxPriorityFeePerGas)
	if err != nil {
		return nil, fmt.Errorf("invalid maxPriorityFeePerGas: %w", err)
	}

	packed, err := packedArgs.Pack(
		op.Sender,
		nonce,
		toBytes32(crypto.Keccak256(mustHexBytes(op.InitCode))),
		toBytes32(crypto.Keccak256(mustHexBytes(op.CallData))),
		callGas,
		verificationGas,
		preVerificationGas,
		maxFee,
		maxPriorityFee,
		toBytes32(crypto.Keccak256(mustHexBytes(op.PaymasterAndData))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack user operation: %w", err)
	}

	outerArgs := abi.Arguments{{Type: bytes32Ty}, {Type: addressTy}, {Type: uint256Ty}}
	outer, err := outerArgs.Pack(
		toBytes32(crypto.Keccak256(packed)),
		entryPointAddress,
		new(big.Int).SetUint64(uint64(chainID)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack user operation hash: %w", err)
	}

	return crypto.Keccak256(outer), nil
}

func toBytes32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

func mustHexBytes(s string) []byte {
	if s == "" || s == "0x" {
		return []byte{}
	}
	return common.FromHex(s)
}

func parseHexBig(s string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("not a hex quantity: %q", s)
	}
	return v, nil
}
