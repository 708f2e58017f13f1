package delegation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrValidation covers structurally invalid delegations.
	ErrValidation = errors.New("delegation validation error")

	// ErrExpiredDelegation is returned when the delegation's expiry has
	// passed. Authorization-critical: never downgraded to a warning.
	ErrExpiredDelegation = errors.New("delegation has expired")

	// ErrDelegatorNotDeployed is returned only when the resolver is
	// configured to require deployed delegator accounts.
	ErrDelegatorNotDeployed = errors.New("delegator account has no bytecode on chain")
)

// BytecodeFetcher is the chain capability the validator needs. Satisfied by
// chain.Client; faked in tests.
type BytecodeFetcher interface {
	GetBytecode(ctx context.Context, address string) ([]byte, error)
}

// Validator runs the pre-redemption checks on a parsed delegation.
type Validator struct {
	logger *zap.Logger

	// requireDeployed turns the advisory deployment check into a hard
	// failure for account types that cannot deploy lazily.
	requireDeployed bool

	now func() time.Time
}

// NewValidator creates a delegation validator.
func NewValidator(logger *zap.Logger, requireDeployed bool) *Validator {
	return &Validator{
		logger:          logger,
		requireDeployed: requireDeployed,
		now:             time.Now,
	}
}

// Validate runs the check sequence in order, first failure wins:
// field presence, address formats, expiry, then the on-chain delegator
// deployment check. The pure local checks come first so no network or
// signing cost is spent on obviously bad input. The deployment check is
// advisory by default because some smart accounts deploy on first use.
func (v *Validator) Validate(ctx context.Context, d *Delegation, chainClient BytecodeFetcher) error {
	if d == nil {
		return fmt.Errorf("%w: delegation is nil", ErrValidation)
	}
	if d.Delegator == "" {
		return fmt.Errorf("%w: delegator is required", ErrValidation)
	}
	if d.Delegate == "" {
		return fmt.Errorf("%w: delegate is required", ErrValidation)
	}
	if d.Signature == "" {
		return fmt.Errorf("%w: signature is required", ErrValidation)
	}

	if !IsValidAddress(d.Delegator) {
		return fmt.Errorf("%w: delegator %q is not a valid address", ErrValidation, d.Delegator)
	}
	if !IsValidAddress(d.Delegate) {
		return fmt.Errorf("%w: delegate %q is not a valid address", ErrValidation, d.Delegate)
	}

	if d.Expiry > 0 && d.Expiry < v.now().Unix() {
		return fmt.Errorf("%w: expired at %d", ErrExpiredDelegation, d.Expiry)
	}

	if chainClient == nil {
		return nil
	}

	return v.CheckDeployment(ctx, d, chainClient)
}

// CheckDeployment verifies the delegator account has bytecode on chain.
// Runs separately from the local checks because it needs a resolved network.
// Advisory by default: lazily deployed accounts have no bytecode until first
// use, so a miss is logged, not rejected, unless configured otherwise.
func (v *Validator) CheckDeployment(ctx context.Context, d *Delegation, chainClient BytecodeFetcher) error {
	code, err := chainClient.GetBytecode(ctx, d.Delegator)
	if err != nil || len(code) == 0 {
		if v.requireDeployed {
			return fmt.Errorf("%w: %s", ErrDelegatorNotDeployed, d.Delegator)
		}
		v.logger.Warn("Delegator account not yet deployed on chain",
			zap.String("delegator", d.Delegator),
			zap.Error(err),
		)
	}
	return nil
}
