package account

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Light account factory v2.0.0 and its implementation. The redeemer smart
// account is a minimal proxy (EIP-1167) over the implementation, deployed
// through the factory with CREATE2 so its address is known before deployment.
var (
	factoryAddress        = common.HexToAddress("0x0000000000400CdFef5E2714E63d8040b700BC24")
	implementationAddress = common.HexToAddress("0x8E8e658E22B12ada97B402fF0b044D6A325013C7")
)

// createAccount(address owner, uint256 salt)
const createAccountSelector = "5fbfb9cf"

// Handle identifies the service-operated smart account that exercises
// delegations on chain. Construction is pure: no transaction is broadcast,
// deployment happens on first use via InitCode.
type Handle struct {
	Address common.Address
	Owner   common.Address
	Salt    [32]byte
	owner   *ecdsa.PrivateKey
}

// Resolver derives the redeemer smart account from the configured signing
// key and a fixed deployment salt.
type Resolver struct {
	salt [32]byte
}

// NewResolver creates an account resolver with the given deployment salt.
func NewResolver(salt [32]byte) *Resolver {
	return &Resolver{salt: salt}
}

// Resolve derives the smart account handle for the given signer key.
// Idempotent: the same key and salt always yield the same address.
func (r *Resolver) Resolve(signerKey *ecdsa.PrivateKey) (*Handle, error) {
	if signerKey == nil {
		return nil, fmt.Errorf("signer key is required")
	}

	publicKey, ok := signerKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("signer key has no ECDSA public key")
	}
	owner := crypto.PubkeyToAddress(*publicKey)

	return &Handle{
		Address: computeAccountAddress(r.salt),
		Owner:   owner,
		Salt:    r.salt,
		owner:   signerKey,
	}, nil
}

// SignerKey returns the key controlling the account.
func (h *Handle) SignerKey() *ecdsa.PrivateKey {
	return h.owner
}

// InitCode returns the factory call that deploys the account, for inclusion
// in the first user operation sent from an undeployed account.
func (h *Handle) InitCode() []byte {
	initCode := make([]byte, 0, 20+4+32+32)
	initCode = append(initCode, factoryAddress.Bytes()...)
	initCode = append(initCode, common.Hex2Bytes(createAccountSelector)...)
	initCode = append(initCode, common.LeftPadBytes(h.Owner.Bytes(), 32)...)
	initCode = append(initCode, h.Salt[:]...)
	return initCode
}

// computeAccountAddress computes the CREATE2 address of the minimal proxy:
// keccak256(0xff ++ factory ++ salt ++ keccak256(initCode))[12:].
func computeAccountAddress(salt [32]byte) common.Address {
	proxyPrefix := common.Hex2Bytes("3d602d80600a3d3981f3363d3d373d3d3d363d73")
	proxySuffix := common.Hex2Bytes("5af43d82803e903d91602b57fd5bf3")

	initCode := append(proxyPrefix, implementationAddress.Bytes()...)
	initCode = append(initCode, proxySuffix...)
	initCodeHash := crypto.Keccak256(initCode)

	data := make([]byte, 0, 1+20+32+32)
	data = append(data, 0xff)
	data = append(data, factoryAddress.Bytes()...)
	data = append(data, salt[:]...)
	data = append(data, initCodeHash...)

	hash := crypto.Keccak256(data)
	return common.BytesToAddress(hash[12:])
}
