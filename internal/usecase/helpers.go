package usecase

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

// WalletAccounts is how many accounts are derived from a mnemonic
const WalletAccounts = 10

// loadNetworkWallet builds the signer for a network profile: explicit private
// keys first, then the profile's mnemonic. Neither is a configuration error
// naming PRIVATE_KEY.
func loadNetworkWallet(loader WalletLoader, network *config.Network) (Wallet, error) {
	if len(network.Accounts) > 0 {
		return loader.FromPrivateKeys(network.Accounts)
	}
	if network.Mnemonic != "" {
		return loader.FromMnemonic(network.Mnemonic, WalletAccounts)
	}
	return nil, &domain.MissingConfigurationError{Keys: []string{cfgpkg.EnvPrivateKey}}
}

// confirmBroadcast asks before sending to networks flagged for confirmation
func confirmBroadcast(ctx context.Context, confirmer Confirmer, network *config.Network, message string) error {
	if !network.Confirm {
		return nil
	}
	ok, err := confirmer.Confirm(ctx, message)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}

// withTimeout bounds ctx by the configured timeout, if any
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// policyFor applies an optional threshold override
func policyFor(policy domain.ConfirmationPolicy, override *uint64) domain.ConfirmationPolicy {
	if override != nil {
		policy.Threshold = *override
	}
	return policy
}

// waitError turns a context expiry while waiting into a network error
func waitError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &domain.NetworkError{Op: op, Err: err}
	}
	return err
}
