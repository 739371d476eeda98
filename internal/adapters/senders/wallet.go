package senders

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/go-bip39"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// DefaultAccountCount is how many accounts are derived from a mnemonic
const DefaultAccountCount = 10

// ethCoinType is the SLIP-44 coin type for Ether
const ethCoinType = 60

type key struct {
	account models.Account
	private *ecdsa.PrivateKey
}

// Wallet holds in-memory signing keys
type Wallet struct {
	keys []key
}

// Loader builds wallets from raw keys or a BIP-39 mnemonic
type Loader struct{}

// NewLoader creates a new wallet loader
func NewLoader() *Loader {
	return &Loader{}
}

// FromPrivateKeys builds a wallet from hex-encoded private keys
func (l *Loader) FromPrivateKeys(keys []string) (usecase.Wallet, error) {
	w, err := NewPrivateKeyWallet(keys)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// FromMnemonic derives count accounts from phrase
func (l *Loader) FromMnemonic(phrase string, count int) (usecase.Wallet, error) {
	w, err := NewMnemonicWallet(phrase, count)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// NewPrivateKeyWallet builds a wallet from hex-encoded private keys, with
// or without the 0x prefix.
func NewPrivateKeyWallet(keys []string) (*Wallet, error) {
	if len(keys) == 0 {
		return nil, &domain.MissingConfigurationError{Keys: []string{"PRIVATE_KEY"}}
	}

	w := &Wallet{}
	for i, raw := range keys {
		priv, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
		if err != nil {
			return nil, &domain.SignerError{Source: "private key", Err: err}
		}
		w.keys = append(w.keys, key{
			account: models.Account{
				Address: crypto.PubkeyToAddress(priv.PublicKey),
				Index:   i,
				Source:  models.AccountSourcePrivateKey,
			},
			private: priv,
		})
	}
	return w, nil
}

// NewMnemonicWallet derives accounts m/44'/60'/0'/0/0 .. m/44'/60'/0'/0/count-1
func NewMnemonicWallet(phrase string, count int) (*Wallet, error) {
	phrase = strings.Join(strings.Fields(phrase), " ")
	if phrase == "" {
		return nil, &domain.MissingConfigurationError{Keys: []string{"MNEMONIC_PHRASE"}}
	}
	if !bip39.IsMnemonicValid(phrase) {
		return nil, &domain.SignerError{Source: "mnemonic", Err: fmt.Errorf("not a valid BIP-39 phrase")}
	}
	if count <= 0 {
		count = DefaultAccountCount
	}

	derive := hd.Secp256k1.Derive()
	w := &Wallet{}
	for i := 0; i < count; i++ {
		path := hd.NewFundraiserParams(0, ethCoinType, uint32(i)).String()
		raw, err := derive(phrase, "", path)
		if err != nil {
			return nil, &domain.SignerError{Source: "mnemonic", Err: err}
		}
		priv, err := crypto.ToECDSA(raw)
		if err != nil {
			return nil, &domain.SignerError{Source: "mnemonic", Err: err}
		}
		w.keys = append(w.keys, key{
			account: models.Account{
				Address: crypto.PubkeyToAddress(priv.PublicKey),
				Index:   i,
				Path:    path,
				Source:  models.AccountSourceMnemonic,
			},
			private: priv,
		})
	}
	return w, nil
}

// Accounts lists the wallet's accounts in derivation order
func (w *Wallet) Accounts() []models.Account {
	out := make([]models.Account, len(w.keys))
	for i, k := range w.keys {
		out[i] = k.account
	}
	return out
}

// Account returns the account for address
func (w *Wallet) Account(address common.Address) (models.Account, error) {
	k, err := w.find(address)
	if err != nil {
		return models.Account{}, err
	}
	return k.account, nil
}

func (w *Wallet) find(address common.Address) (*key, error) {
	for i := range w.keys {
		if w.keys[i].account.Address == address {
			return &w.keys[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSender, address.Hex())
}

// TransactOpts returns signing options for from on chainID
func (w *Wallet) TransactOpts(ctx context.Context, from common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	k, err := w.find(from)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(k.private, chainID)
	if err != nil {
		return nil, &domain.SignerError{Source: "transactor", Err: err}
	}
	opts.Context = ctx
	return opts, nil
}

var (
	_ usecase.Wallet       = (*Wallet)(nil)
	_ usecase.WalletLoader = (*Loader)(nil)
)
