package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for relay operations
var (
	// ErrSignerUnavailable is returned when a mutating operation runs without a configured signer
	ErrSignerUnavailable = errors.New("signer is needed to interact with this endpoint")

	// ErrAccountAlreadyDeployed is returned when deploying a Safe that already exists
	ErrAccountAlreadyDeployed = errors.New("safe already deployed")

	// ErrAccountNotDeployed is returned when submitting through a Safe that does not exist yet
	ErrAccountNotDeployed = errors.New("safe not deployed")

	// ErrInvalidSignatureFormat is returned when a raw signature cannot be packed
	ErrInvalidSignatureFormat = errors.New("invalid signature")

	// ErrUnsupportedNetwork is returned for chain IDs without a contract configuration
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrEmptyBatch is returned when aggregating zero calls
	ErrEmptyBatch = errors.New("no transactions to aggregate")

	// ErrRelayerNotConfigured is returned when a relayer call is made without a relayer URL
	ErrRelayerNotConfigured = errors.New("relayer URL is not configured (set RELAYER_URL or --relayer-url)")

	// ErrNoGasEstimator is returned by signers that have no RPC endpoint configured
	ErrNoGasEstimator = errors.New("gas estimation requires an RPC endpoint")
)

// UnsupportedNetworkErr carries the chain ID that has no contract configuration
type UnsupportedNetworkErr struct {
	ChainID uint64
}

func (e UnsupportedNetworkErr) Error() string {
	return fmt.Sprintf("unsupported network: chain ID %d", e.ChainID)
}

// Unwrap lets errors.Is match ErrUnsupportedNetwork
func (e UnsupportedNetworkErr) Unwrap() error {
	return ErrUnsupportedNetwork
}

// InvalidSignatureErr reports the recovery byte that could not be normalized
type InvalidSignatureErr struct {
	V      byte
	Length int
}

func (e InvalidSignatureErr) Error() string {
	if e.Length != 65 {
		return fmt.Sprintf("invalid signature: expected 65 bytes, got %d", e.Length)
	}
	return fmt.Sprintf("invalid signature: unexpected recovery byte %d", e.V)
}

// Unwrap lets errors.Is match ErrInvalidSignatureFormat
func (e InvalidSignatureErr) Unwrap() error {
	return ErrInvalidSignatureFormat
}
