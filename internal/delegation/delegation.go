package delegation

import "regexp"

// Delegation is the signed spending authorization produced by the customer's
// wallet. The structure matches the MetaMask delegation toolkit format used
// by the billing backend; it is transmitted once per billing event and
// treated as logically single-use (uniqueness via Salt is the caller's
// responsibility).
type Delegation struct {
	Delegate  string    `json:"delegate"`
	Delegator string    `json:"delegator"`
	Authority Authority `json:"authority"`
	Caveats   []Caveat  `json:"caveats"`
	Salt      string    `json:"salt"`
	Expiry    int64     `json:"expiry,omitempty"` // unix seconds; 0 = never expires
	Signature string    `json:"signature"`
}

// Authority identifies how the delegation chain is rooted.
type Authority struct {
	Scheme    string `json:"scheme"`
	Signature string `json:"signature"`
	Signer    string `json:"signer"`
}

// Caveat is a single restriction attached to a delegation, enforced by a
// designated on-chain enforcer contract.
type Caveat struct {
	Enforcer string `json:"enforcer"` // address of the caveat enforcer contract
	Terms    string `json:"terms"`    // encoded restriction parameters (hex string)
}

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s is a well-formed 20-byte hex address.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}
