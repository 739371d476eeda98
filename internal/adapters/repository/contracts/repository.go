package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// maxSuggestions bounds the "did you mean" list
const maxSuggestions = 3

// entry is an indexed descriptor file. Files are only parsed on lookup.
type entry struct {
	name       string
	sourceName string
	path       string
	bareABI    bool
}

// Repository discovers hardhat artifacts and standalone ABI documents
type Repository struct {
	paths   config.ArtifactPaths
	log     *slog.Logger
	entries map[string][]*entry // key: contract name
	full    map[string]*entry   // key: "source:Name"
	mu      sync.RWMutex
	indexed bool
}

// NewRepository creates a new contract repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		paths:   cfg.Artifacts,
		log:     log,
		entries: make(map[string][]*entry),
		full:    make(map[string]*entry),
	}
}

// Index walks the artifact and ABI directories. Missing directories are not
// an error: lookups will simply fail with suggestions.
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	if err := r.indexArtifacts(); err != nil {
		return err
	}
	if err := r.indexABIs(); err != nil {
		return err
	}

	r.indexed = true
	return nil
}

func (r *Repository) indexArtifacts() error {
	root := r.paths.ArtifactsDir
	if _, err := os.Stat(root); os.IsNotExist(err) {
		r.log.Debug("artifacts directory not found", "path", root)
		return nil
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path == r.paths.BuildInfoDir || info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		// artifacts/contracts/StlmNFT.sol/StlmNFT.json
		rel, _ := filepath.Rel(root, filepath.Dir(path))
		e := &entry{
			name:       strings.TrimSuffix(info.Name(), ".json"),
			sourceName: filepath.ToSlash(rel),
			path:       path,
		}
		r.add(e)
		return nil
	})
}

func (r *Repository) indexABIs() error {
	dir := r.paths.ABIDir
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read ABI directory: %w", err)
	}

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(f.Name(), ".json")
		// Compiled artifacts win over bare ABIs of the same name.
		if _, exists := r.entries[name]; exists {
			continue
		}
		r.add(&entry{name: name, path: filepath.Join(dir, f.Name()), bareABI: true})
	}
	return nil
}

func (r *Repository) add(e *entry) {
	r.entries[e.name] = append(r.entries[e.name], e)
	if e.sourceName != "" {
		r.full[e.sourceName+":"+e.name] = e
	}
}

// GetFactory resolves a contract by name or "source:Name"
func (r *Repository) GetFactory(ctx context.Context, name string) (*models.ContractFactory, error) {
	if err := r.Index(); err != nil {
		return nil, &domain.FactoryResolutionError{Contract: name, Err: err}
	}

	e, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	factory, err := loadFactory(e)
	if err != nil {
		return nil, &domain.FactoryResolutionError{Contract: name, Path: e.path, Err: err}
	}

	r.log.Debug("resolved contract factory", "contract", factory.FullyQualifiedName(), "path", e.path, "deployable", factory.CanDeploy())
	return factory, nil
}

func (r *Repository) lookup(name string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.full[name]; ok {
		return e, nil
	}

	candidates := r.entries[name]
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, &domain.FactoryResolutionError{
			Contract:    name,
			Err:         domain.ErrNotFound,
			Suggestions: r.suggest(name),
		}
	default:
		return nil, &domain.FactoryResolutionError{
			Contract: name,
			Err:      fmt.Errorf("ambiguous contract name"),
			Suggestions: lo.Map(candidates, func(e *entry, _ int) string {
				return e.sourceName + ":" + e.name
			}),
		}
	}
}

func (r *Repository) suggest(name string) []string {
	names := lo.Keys(r.entries)
	sort.Strings(names)

	matches := fuzzy.Find(strings.ToLower(name), lo.Map(names, func(n string, _ int) string {
		return strings.ToLower(n)
	}))

	var out []string
	for _, m := range matches {
		out = append(out, names[m.Index])
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// ListContracts returns the names of all resolvable contracts
func (r *Repository) ListContracts(ctx context.Context) ([]string, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.entries)
	sort.Strings(names)
	return names, nil
}

// GetBuildInfo loads the hardhat build-info a compiled artifact was produced by
func (r *Repository) GetBuildInfo(ctx context.Context, factory *models.ContractFactory) (*models.BuildInfo, error) {
	if factory.Path == "" || !strings.HasSuffix(factory.Path, ".json") {
		return nil, fmt.Errorf("%s has no artifact file", factory.Name)
	}

	dbgPath := strings.TrimSuffix(factory.Path, ".json") + ".dbg.json"
	data, err := os.ReadFile(dbgPath) //nolint:gosec // artifact path
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(dbgPath), err)
	}

	var dbg models.ArtifactDebug
	if err := json.Unmarshal(data, &dbg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(dbgPath), err)
	}
	if dbg.BuildInfo == "" {
		return nil, fmt.Errorf("%s does not reference a build-info file", filepath.Base(dbgPath))
	}

	// buildInfo is relative to the .dbg.json file
	buildInfoPath := filepath.Join(filepath.Dir(dbgPath), filepath.FromSlash(dbg.BuildInfo))
	data, err = os.ReadFile(buildInfoPath) //nolint:gosec // artifact path
	if err != nil {
		return nil, fmt.Errorf("failed to read build-info: %w", err)
	}

	var info models.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse build-info: %w", err)
	}
	return &info, nil
}

// loadFactory parses a descriptor file. Three shapes are accepted: a hardhat
// artifact, a bare ABI array and an object with only an "abi" key.
func loadFactory(e *entry) (*models.ContractFactory, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, err
	}

	factory := &models.ContractFactory{
		Name:       e.name,
		SourceName: e.sourceName,
		Path:       e.path,
	}

	trimmed := bytes.TrimSpace(data)
	var rawABI []byte
	if len(trimmed) > 0 && trimmed[0] == '[' {
		rawABI = trimmed
	} else {
		var artifact models.Artifact
		if err := json.Unmarshal(trimmed, &artifact); err != nil {
			return nil, fmt.Errorf("malformed descriptor: %w", err)
		}
		if len(artifact.ABI) == 0 {
			return nil, fmt.Errorf("descriptor has no abi")
		}
		rawABI = artifact.ABI
		if artifact.ContractName != "" {
			factory.Name = artifact.ContractName
		}
		if artifact.SourceName != "" {
			factory.SourceName = artifact.SourceName
		}

		if !e.bareABI {
			bytecode, err := decodeBytecode(artifact)
			if err != nil {
				return nil, err
			}
			factory.Bytecode = bytecode
		}
	}

	parsed, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("malformed abi: %w", err)
	}
	factory.ABI = parsed
	factory.RawABI = json.RawMessage(append([]byte(nil), rawABI...))

	return factory, nil
}

func decodeBytecode(artifact models.Artifact) ([]byte, error) {
	if artifact.Bytecode == "" || artifact.Bytecode == "0x" {
		// Interfaces and abstract contracts
		return nil, nil
	}
	if len(artifact.LinkReferences) > 0 {
		return nil, fmt.Errorf("bytecode references unlinked libraries: %s", strings.Join(lo.Keys(artifact.LinkReferences), ", "))
	}
	bytecode, err := hexutil.Decode(artifact.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("malformed bytecode: %w", err)
	}
	return bytecode, nil
}

var _ usecase.ContractRepository = (*Repository)(nil)
