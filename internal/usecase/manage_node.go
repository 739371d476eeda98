package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"

	cfgpkg "github.com/trebuchet-org/stlm-deploy/internal/config"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/config"
)

const defaultNodePort = "8545"

// ManageNode starts and stops the local node behind the hardhat profile
type ManageNode struct {
	config  *config.RuntimeConfig
	manager NodeManager
	sink    ProgressSink
	log     *slog.Logger
}

// NewManageNode creates a new ManageNode use case
func NewManageNode(cfg *config.RuntimeConfig, manager NodeManager, sink ProgressSink, log *slog.Logger) *ManageNode {
	return &ManageNode{
		config:  cfg,
		manager: manager,
		sink:    sink,
		log:     log,
	}
}

// Instance derives the node settings from the local network profile
func (uc *ManageNode) Instance() (*domain.NodeInstance, error) {
	network, ok := uc.config.Networks[cfgpkg.DefaultNetwork]
	if !ok {
		return nil, fmt.Errorf("network %s is not configured", cfgpkg.DefaultNetwork)
	}

	port := defaultNodePort
	if network.RPCURL != "" {
		u, err := url.Parse(network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("invalid %s url %q: %w", network.Name, network.RPCURL, err)
		}
		if p := u.Port(); p != "" {
			port = p
		}
	}

	return &domain.NodeInstance{
		Port:     port,
		ChainID:  network.ChainID,
		ForkURL:  network.ForkURL,
		Mnemonic: network.Mnemonic,
		PidFile:  filepath.Join(uc.config.DataDir, "node.pid"),
		LogFile:  filepath.Join(uc.config.DataDir, "node.log"),
	}, nil
}

// Start launches the node and returns its status
func (uc *ManageNode) Start(ctx context.Context) (*domain.NodeStatus, error) {
	instance, err := uc.Instance()
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Starting local node on port %s", instance.Port)
	if instance.ForkURL != "" {
		msg += " (forking)"
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "starting", Message: msg, Spinner: true})

	if err := uc.manager.Start(ctx, instance); err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "failed", Message: "Local node failed to start"})
		return nil, err
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "started", Message: "Local node started"})
	uc.log.Info("local node started", "port", instance.Port, "chainId", instance.ChainID)

	return uc.manager.GetStatus(ctx, instance)
}

// Stop terminates the node
func (uc *ManageNode) Stop(ctx context.Context) error {
	instance, err := uc.Instance()
	if err != nil {
		return err
	}
	return uc.manager.Stop(ctx, instance)
}

// Status reports the node status
func (uc *ManageNode) Status(ctx context.Context) (*domain.NodeStatus, error) {
	instance, err := uc.Instance()
	if err != nil {
		return nil, err
	}
	return uc.manager.GetStatus(ctx, instance)
}

// Logs follows the node log until ctx ends
func (uc *ManageNode) Logs(ctx context.Context, w io.Writer) error {
	instance, err := uc.Instance()
	if err != nil {
		return err
	}
	return uc.manager.StreamLogs(ctx, instance, w)
}
