package devnode

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
)

func newTestInstance(t *testing.T) *domain.NodeInstance {
	dir := t.TempDir()
	return &domain.NodeInstance{
		Port:    "18545",
		ChainID: 1337,
		PidFile: filepath.Join(dir, "node.pid"),
		LogFile: filepath.Join(dir, "node.log"),
	}
}

func newTestManager() *Manager {
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestManager_StatusNotRunning(t *testing.T) {
	m := newTestManager()
	inst := newTestInstance(t)

	status, err := m.GetStatus(context.Background(), inst)
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.False(t, status.RPCHealthy)
	assert.Equal(t, "http://127.0.0.1:18545", status.RPCURL)
	assert.Equal(t, inst.LogFile, status.LogFile)
}

func TestManager_StopNotRunning(t *testing.T) {
	m := newTestManager()
	inst := newTestInstance(t)

	// stale PID file
	require.NoError(t, os.WriteFile(inst.PidFile, []byte("not-a-pid"), 0644))

	require.NoError(t, m.Stop(context.Background(), inst))
	_, err := os.Stat(inst.PidFile)
	assert.True(t, os.IsNotExist(err))
}

func TestManager_StartAlreadyRunning(t *testing.T) {
	m := newTestManager()
	inst := newTestInstance(t)

	require.NoError(t, os.WriteFile(inst.PidFile, []byte(strconv.Itoa(os.Getpid())), 0644))

	err := m.Start(context.Background(), inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestManager_StartMissingBinary(t *testing.T) {
	m := newTestManager()
	m.Binary = filepath.Join(t.TempDir(), "no-such-node")
	inst := newTestInstance(t)

	err := m.Start(context.Background(), inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")

	_, statErr := os.Stat(inst.PidFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestManager_StreamLogsMissingFile(t *testing.T) {
	m := newTestManager()
	inst := newTestInstance(t)

	err := m.StreamLogs(context.Background(), inst, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log file does not exist")
}

func TestReadPidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pid")

	_, err := readPidFile(path)
	assert.Error(t, err)

	require.NoError(t, writePidFile(path, 4242))
	pid, err := readPidFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	require.NoError(t, os.WriteFile(path, []byte("0"), 0644))
	_, err = readPidFile(path)
	assert.Error(t, err)
}
