package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrMissingConfiguration is matched by MissingConfigurationError
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrFactoryResolution is matched by FactoryResolutionError
	ErrFactoryResolution = errors.New("contract factory resolution failed")

	// ErrNetwork is matched by NetworkError
	ErrNetwork = errors.New("network error")

	// ErrTransactionReverted is matched by TransactionRevertedError
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrUnknownSender is returned when the requested sender is not held by the configured wallet
	ErrUnknownSender = errors.New("sender not managed by wallet")

	// ErrChainIDMismatch is returned when the RPC endpoint serves a different chain than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrAborted is returned when the user declines to broadcast
	ErrAborted = errors.New("aborted by user")
)

// MissingConfigurationError lists the required values that were absent or empty.
type MissingConfigurationError struct {
	Keys []string
}

func (e *MissingConfigurationError) Error() string {
	if len(e.Keys) == 1 {
		return fmt.Sprintf("missing required configuration: %s is not set", e.Keys[0])
	}
	return fmt.Sprintf("missing required configuration: %s are not set", strings.Join(e.Keys, ", "))
}

func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

// FactoryResolutionError is returned when a contract's interface descriptor
// cannot be located or parsed.
type FactoryResolutionError struct {
	Contract    string
	Path        string
	Suggestions []string
	Err         error
}

func (e *FactoryResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot resolve contract factory for %s", e.Contract)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " - did you mean %s?", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *FactoryResolutionError) Unwrap() error { return e.Err }

func (e *FactoryResolutionError) Is(target error) bool {
	return target == ErrFactoryResolution
}

// NetworkError wraps failures talking to the RPC endpoint.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// TransactionRevertedError is returned when a transaction was included with
// a failed status or was rejected during submission by the EVM.
type TransactionRevertedError struct {
	Hash    common.Hash
	Receipt *types.Receipt
	Reason  string
	Err     error
}

func (e *TransactionRevertedError) Error() string {
	msg := "transaction reverted"
	if e.Hash != (common.Hash{}) {
		msg = fmt.Sprintf("transaction %s reverted", e.Hash.Hex())
	}
	if e.Receipt != nil && e.Receipt.BlockNumber != nil {
		msg = fmt.Sprintf("%s in block %s", msg, e.Receipt.BlockNumber)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

func (e *TransactionRevertedError) Unwrap() error { return e.Err }

func (e *TransactionRevertedError) Is(target error) bool {
	return target == ErrTransactionReverted
}

// SignerError is returned when signer material is present but unusable.
type SignerError struct {
	Source string
	Err    error
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Source, e.Err)
}

func (e *SignerError) Unwrap() error { return e.Err }
