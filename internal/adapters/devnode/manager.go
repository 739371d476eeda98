package devnode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// DefaultBinary is the node executable. anvil accepts the same mnemonic and
// chain settings as a hardhat node.
const DefaultBinary = "anvil"

// startupGrace is how long Start waits for the RPC endpoint to come up
const startupGrace = 5 * time.Second

// Manager runs the local node as a background process tracked by a PID file
type Manager struct {
	Binary string
	log    *slog.Logger
}

// NewManager creates a new local node manager
func NewManager(log *slog.Logger) *Manager {
	return &Manager{Binary: DefaultBinary, log: log}
}

// Start launches the node and waits until it answers RPC calls
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	if m.isRunning(instance) {
		return fmt.Errorf("local node is already running (PID file exists at %s)", instance.PidFile)
	}

	if err := os.MkdirAll(filepath.Dir(instance.PidFile), 0755); err != nil {
		return fmt.Errorf("failed to create node directory: %w", err)
	}

	args := []string{
		"--port", instance.Port,
		"--chain-id", strconv.FormatUint(instance.ChainID, 10),
	}
	if instance.Mnemonic != "" {
		args = append(args, "--mnemonic", instance.Mnemonic)
	}
	if instance.ForkURL != "" {
		args = append(args, "--fork-url", instance.ForkURL)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.Binary, args...) //nolint:gosec // configured binary
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", m.Binary, err)
	}

	if err := writePidFile(instance.PidFile, cmd.Process.Pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	m.log.Debug("local node started", "pid", cmd.Process.Pid, "port", instance.Port, "fork", instance.ForkURL != "")

	deadline := time.Now().Add(startupGrace)
	for {
		if _, _, err := probe(ctx, rpcURL(instance)); err == nil {
			return nil
		} else if time.Now().After(deadline) {
			return fmt.Errorf("local node did not respond on %s: %w (see %s)", rpcURL(instance), err, instance.LogFile)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// Stop terminates the node. Stopping a node that is not running is not an error.
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	if !m.isRunning(instance) {
		_ = os.Remove(instance.PidFile)
		return nil
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	// The node is not our child after a restart of stlm, so poll for exit.
	deadline := time.Now().Add(5 * time.Second)
	for alive(pid) && time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
	}
	if alive(pid) {
		_ = process.Kill()
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// GetStatus reports whether the node is running and healthy
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	status := &domain.NodeStatus{
		RPCURL:  rpcURL(instance),
		LogFile: instance.LogFile,
	}
	if !m.isRunning(instance) {
		return status, nil
	}

	status.Running = true
	status.PID, _ = readPidFile(instance.PidFile)

	chainID, block, err := probe(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	status.BlockNumber = block
	return status, nil
}

// StreamLogs follows the node log until ctx ends
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	if _, err := os.Stat(instance.LogFile); os.IsNotExist(err) {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}
	cmd := exec.CommandContext(ctx, "tail", "-f", instance.LogFile)
	cmd.Stdout = writer
	cmd.Stderr = writer
	err := cmd.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Manager) isRunning(instance *domain.NodeInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return false
	}
	return alive(pid)
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}

func probe(ctx context.Context, url string) (uint64, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, 0, err
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, 0, err
	}
	block, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, 0, err
	}
	return chainID.Uint64(), block, nil
}

func rpcURL(instance *domain.NodeInstance) string {
	return "http://127.0.0.1:" + instance.Port
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // data dir
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	if pid <= 0 {
		return 0, errors.New("invalid PID")
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

var _ usecase.NodeManager = (*Manager)(nil)
