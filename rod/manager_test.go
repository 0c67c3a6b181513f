package rod_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sift/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_NotLaunchedUntilFirstPage(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()

	assert.False(t, manager.Launched())
	assert.Equal(t, 0, manager.OpenPages())
	assert.Equal(t, 0, manager.LauncherPID())
}

func TestBrowserManager_CloseWithoutLaunch(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
	assert.False(t, manager.Launched())
}

func TestBrowserManager_NewPageCanceledContext(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.NewPage(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, manager.Launched())
}
