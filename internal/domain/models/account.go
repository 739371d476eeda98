package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AccountSource describes where a signing key came from
type AccountSource string

const (
	AccountSourcePrivateKey AccountSource = "private-key"
	AccountSourceMnemonic   AccountSource = "mnemonic"
)

// Account is an address the configured wallet can sign for
type Account struct {
	Address common.Address `json:"address"`
	Index   int            `json:"index"`
	Path    string         `json:"path,omitempty"` // HD derivation path, empty for raw keys
	Source  AccountSource  `json:"source"`
	Balance *big.Int       `json:"balance,omitempty"`
}
