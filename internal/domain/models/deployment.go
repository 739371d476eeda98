package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusPending    VerificationStatus = "PENDING"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
)

// Deployment represents a saved contract deployment record
type Deployment struct {
	// Core identification
	ID           string `json:"id"`    // e.g., "rinkeby/StlmNFT"
	RunID        string `json:"runId"` // groups records written by one invocation
	Network      string `json:"network"`
	ChainID      uint64 `json:"chainId"`
	ContractName string `json:"contractName"`
	Label        string `json:"label,omitempty"`
	Address      string `json:"address"`

	// Transaction
	TransactionHash string `json:"transactionHash"`
	BlockNumber     uint64 `json:"blockNumber"`
	Deployer        string `json:"deployer"`
	GasUsed         uint64 `json:"gasUsed"`

	// Constructor input
	Args            []any  `json:"args"`
	ConstructorArgs string `json:"constructorArgs"` // ABI-encoded, hex

	// Contract artifact information
	ABI      json.RawMessage `json:"abi"`
	Artifact ArtifactInfo    `json:"artifact"`

	// Verification information
	Verification VerificationInfo `json:"verification"`

	CreatedAt time.Time `json:"createdAt"`
}

// ArtifactInfo contains contract artifact information
type ArtifactInfo struct {
	Path            string `json:"path"`                // e.g., "contracts/StlmNFT.sol:StlmNFT"
	ArtifactFile    string `json:"artifactFile"`        // artifact JSON on disk
	BuildInfoID     string `json:"buildInfo,omitempty"` // hardhat build-info id
	CompilerVersion string `json:"compilerVersion,omitempty"`
	BytecodeHash    string `json:"bytecodeHash"` // keccak256 of creation bytecode
}

// VerificationInfo contains verification details
type VerificationInfo struct {
	Status       VerificationStatus `json:"status"`
	GUID         string             `json:"guid,omitempty"`
	EtherscanURL string             `json:"etherscanUrl,omitempty"`
	VerifiedAt   *time.Time         `json:"verifiedAt,omitempty"`
	Reason       string             `json:"reason,omitempty"`
}

// GetDisplayName returns a human-friendly name for the deployment
func (d *Deployment) GetDisplayName() string {
	if d.Label != "" {
		return fmt.Sprintf("%s:%s", d.ContractName, d.Label)
	}
	return d.ContractName
}

// FileName is the record's file name inside its network directory
func (d *Deployment) FileName() string {
	if d.Label != "" {
		return fmt.Sprintf("%s_%s.json", d.ContractName, d.Label)
	}
	return d.ContractName + ".json"
}
