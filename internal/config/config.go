package config

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

// ErrSignerConfiguration indicates the redeemer signing key is missing or
// malformed. This is fatal at startup so a bad key can never reach live
// traffic.
var ErrSignerConfiguration = errors.New("signer key configuration invalid")

// Config carries everything the delegation server needs, constructed once in
// main and passed into each component. Business logic never reads the
// environment directly.
type Config struct {
	Stage    string
	GRPCAddr string
	HTTPAddr string

	// SignerKey controls the redeemer smart account. Validated at startup.
	SignerKey *ecdsa.PrivateKey

	// DeploymentSalt fixes the CREATE2 salt for the redeemer account so the
	// derived address is stable across restarts.
	DeploymentSalt [32]byte

	// Secrets Manager ARN env var names with their literal-env fallbacks.
	RPCKeySecretARNEnv     string
	RPCKeyFallbackEnv      string
	BundlerKeySecretARNEnv string
	BundlerKeyFallbackEnv  string

	// RequireDelegatorDeployed turns the advisory delegator bytecode check
	// into a hard validation failure, for account types that do not deploy
	// lazily.
	RequireDelegatorDeployed bool

	// NetworkConfigTTL bounds how long a resolved network config may be
	// served from cache.
	NetworkConfigTTL time.Duration
}

// Load builds the Config from the environment. The signer key is parsed
// here so misconfiguration fails the process before it serves a request.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:                  getEnvWithDefault("STAGE", "development"),
		GRPCAddr:               getEnvWithDefault("GRPC_ADDR", ":50051"),
		HTTPAddr:               getEnvWithDefault("HTTP_ADDR", ":8080"),
		RPCKeySecretARNEnv:     "RPC_API_KEY_SECRET_ARN",
		RPCKeyFallbackEnv:      "RPC_API_KEY",
		BundlerKeySecretARNEnv: "BUNDLER_API_KEY_SECRET_ARN",
		BundlerKeyFallbackEnv:  "BUNDLER_API_KEY",
		NetworkConfigTTL:       5 * time.Minute,
	}

	key, err := parseSignerKey(os.Getenv("SIGNER_PRIVATE_KEY"))
	if err != nil {
		return nil, err
	}
	cfg.SignerKey = key

	salt, err := parseDeploymentSalt(os.Getenv("REDEEMER_DEPLOYMENT_SALT"))
	if err != nil {
		return nil, err
	}
	cfg.DeploymentSalt = salt

	cfg.RequireDelegatorDeployed = strings.EqualFold(os.Getenv("REQUIRE_DELEGATOR_DEPLOYED"), "true")

	return cfg, nil
}

func parseSignerKey(raw string) (*ecdsa.PrivateKey, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: SIGNER_PRIVATE_KEY is required", ErrSignerConfiguration)
	}
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(trimmed) != 64 {
		return nil, fmt.Errorf("%w: expected 32-byte hex key, got %d characters", ErrSignerConfiguration, len(trimmed))
	}
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignerConfiguration, err)
	}
	return key, nil
}

func parseDeploymentSalt(raw string) ([32]byte, error) {
	var salt [32]byte
	if raw == "" {
		return salt, nil
	}
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return salt, fmt.Errorf("%w: REDEEMER_DEPLOYMENT_SALT is not hex: %v", ErrSignerConfiguration, err)
	}
	if len(decoded) > 32 {
		return salt, fmt.Errorf("%w: REDEEMER_DEPLOYMENT_SALT exceeds 32 bytes", ErrSignerConfiguration)
	}
	copy(salt[32-len(decoded):], decoded)
	return salt, nil
}

func getEnvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
