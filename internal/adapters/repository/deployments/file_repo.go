package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// ChainIDFile marks a network directory with its chain ID, as hardhat-deploy does
const ChainIDFile = ".chainId"

// FileRepository stores one JSON file per deployment under
// <root>/<network>/<Contract>.json
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at rootDir
func NewFileRepository(rootDir string) *FileRepository {
	return &FileRepository{rootDir: rootDir}
}

// NewFileRepositoryFromConfig creates a repository in the configured deployments directory
func NewFileRepositoryFromConfig(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepository(cfg.Artifacts.DeploymentsDir)
}

// SaveDeployment writes the record, replacing any previous record for the
// same contract and label on the same network.
func (m *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.Network == "" {
		return fmt.Errorf("deployment has no network")
	}
	if deployment.ID == "" {
		deployment.ID = fmt.Sprintf("%s/%s", deployment.Network, deployment.GetDisplayName())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Join(m.rootDir, deployment.Network)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}

	if deployment.ChainID != 0 {
		chainIDPath := filepath.Join(dir, ChainIDFile)
		if err := os.WriteFile(chainIDPath, []byte(fmt.Sprintf("%d", deployment.ChainID)), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", ChainIDFile, err)
		}
	}

	return saveFile(filepath.Join(dir, deployment.FileName()), deployment)
}

// GetDeployment loads a record by contract name, "Name:label" or file stem
func (m *FileRepository) GetDeployment(ctx context.Context, network, name string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stem := strings.ReplaceAll(name, ":", "_")
	path := filepath.Join(m.rootDir, network, stem+".json")

	var deployment models.Deployment
	if err := loadFile(path, &deployment); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deployment %s on %s: %w", name, network, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load deployment %s: %w", name, err)
	}
	return &deployment, nil
}

// ListDeployments returns every record for network, ordered by creation
// time. An empty network lists all networks.
func (m *FileRepository) ListDeployments(ctx context.Context, network string) ([]*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	networks := []string{network}
	if network == "" {
		entries, err := os.ReadDir(m.rootDir)
		if os.IsNotExist(err) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read deployments directory: %w", err)
		}
		networks = networks[:0]
		for _, e := range entries {
			if e.IsDir() {
				networks = append(networks, e.Name())
			}
		}
	}

	var out []*models.Deployment
	for _, n := range networks {
		files, err := filepath.Glob(filepath.Join(m.rootDir, n, "*.json"))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			var deployment models.Deployment
			if err := loadFile(f, &deployment); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
			out = append(out, &deployment)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func loadFile(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // deployments path
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// saveFile writes through a temp file and renames it into place
func saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentStore = (*FileRepository)(nil)
