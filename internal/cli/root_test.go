package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/stlm-deploy/internal/app"
)

func TestNewRootCmd_Flags(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"network", "debug", "non-interactive", "timeout", "confirmations"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "n", root.PersistentFlags().Lookup("network").Shorthand)
}

func TestNewRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"deploy"}, "deploy"},
		{[]string{"deploy", "nft"}, "nft"},
		{[]string{"deploy", "auction"}, "auction"},
		{[]string{"deploy", "sate-auction"}, "sate-auction"},
		{[]string{"mint"}, "mint"},
		{[]string{"verify"}, "verify"},
		{[]string{"accounts"}, "accounts"},
		{[]string{"networks"}, "networks"},
		{[]string{"ls"}, "deployments"},
		{[]string{"config", "set"}, "set"},
		{[]string{"node", "start"}, "start"},
		{[]string{"node", "logs"}, "logs"},
		{[]string{"version"}, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cmd, _, err := root.Find(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Name())
		})
	}
}

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "stlm version dev\n", out.String())
}

func TestConfirmationsOverride(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		root := NewRootCmd()
		require.NoError(t, root.ParseFlags([]string{}))

		n, err := confirmationsOverride(root)
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("zero is an explicit override", func(t *testing.T) {
		root := NewRootCmd()
		require.NoError(t, root.ParseFlags([]string{"--confirmations", "0"}))

		n, err := confirmationsOverride(root)
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.Equal(t, uint64(0), *n)
	})

	t.Run("set", func(t *testing.T) {
		root := NewRootCmd()
		require.NoError(t, root.ParseFlags([]string{"--confirmations", "3"}))

		n, err := confirmationsOverride(root)
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.Equal(t, uint64(3), *n)
	})
}

func TestGetApp(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := getApp(cmd)
	assert.EqualError(t, err, "app not initialized")

	want := &app.App{}
	cmd.SetContext(context.WithValue(context.Background(), appKey, want))
	got, err := getApp(cmd)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestNewProgressSink_NonInteractive(t *testing.T) {
	sink := newProgressSink(true)
	_, isSpinner := sink.(interface{ Stop() })
	assert.False(t, isSpinner)
}
