package models

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ArtifactFormat is the _format marker of a hardhat compilation artifact
const ArtifactFormat = "hh-sol-artifact-1"

// Artifact represents a hardhat compilation artifact
type Artifact struct {
	Format                 string          `json:"_format"`
	ContractName           string          `json:"contractName"`
	SourceName             string          `json:"sourceName"`
	ABI                    json.RawMessage `json:"abi"`
	Bytecode               string          `json:"bytecode"`
	DeployedBytecode       string          `json:"deployedBytecode"`
	LinkReferences         map[string]any  `json:"linkReferences"`
	DeployedLinkReferences map[string]any  `json:"deployedLinkReferences"`
}

// ArtifactDebug is the .dbg.json file hardhat writes next to each artifact
type ArtifactDebug struct {
	Format    string `json:"_format"`
	BuildInfo string `json:"buildInfo"`
}

// BuildInfo represents a hardhat build-info file. Input is kept raw so that
// it can be submitted to a verifier unchanged.
type BuildInfo struct {
	ID              string          `json:"id"`
	SolcVersion     string          `json:"solcVersion"`
	SolcLongVersion string          `json:"solcLongVersion"`
	Input           json.RawMessage `json:"input"`
}

// ContractFactory is a compiled contract ready to be bound to a signer.
// Bytecode is empty for factories built from a bare ABI document; those can
// only be used to call an existing instance.
type ContractFactory struct {
	Name       string
	SourceName string
	Path       string
	ABI        abi.ABI
	RawABI     json.RawMessage
	Bytecode   []byte
}

// FullyQualifiedName returns source:Name, the form verifiers expect
func (f *ContractFactory) FullyQualifiedName() string {
	if f.SourceName == "" {
		return f.Name
	}
	return fmt.Sprintf("%s:%s", f.SourceName, f.Name)
}

// CanDeploy reports whether the factory carries creation bytecode
func (f *ContractFactory) CanDeploy() bool {
	return len(f.Bytecode) > 0
}
