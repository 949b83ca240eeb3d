package updatecheck

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"netwatch/status"
)

func TestTickSetsUpdateAvailableWhenVersionDiffers(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.0.0"}`), 0o644))

	st := status.New("1.0.0")
	c := Checker{File: path, Current: "1.0.0", Status: st}
	c.tick()

	snap := st.Snapshot()
	assert.True(snap.UpdateAvailable)
	require.NotNil(t, snap.UpdateVersion)
	assert.Equal("2.0.0", *snap.UpdateVersion)
	assert.NotEmpty(snap.LastUpdateCheckUtc)
}

func TestTickClearsUpdateAvailableWhenVersionsMatch(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0.0"}`), 0o644))

	st := status.New("1.0.0")
	c := Checker{File: path, Current: "1.0.0", Status: st}
	c.tick()

	snap := st.Snapshot()
	assert.False(snap.UpdateAvailable)
	assert.Nil(snap.UpdateVersion)
}

func TestTickUpdatesTimestampEvenWithoutManifestFile(t *testing.T) {
	assert := require.New(t)

	st := status.New("1.0.0")
	c := Checker{File: "", Current: "1.0.0", Status: st}

	assert.Empty(st.Snapshot().LastUpdateCheckUtc)
	c.tick()
	assert.NotEmpty(st.Snapshot().LastUpdateCheckUtc)
	assert.False(st.Snapshot().UpdateAvailable)
}

func TestRunTicksPeriodically(t *testing.T) {
	assert := require.New(t)

	st := status.New("1.0.0")
	c := Checker{File: "", Current: "1.0.0", Interval: 10 * time.Millisecond, Status: st}
	done := make(chan struct{})

	go c.Run(done)
	time.Sleep(35 * time.Millisecond)
	close(done)

	assert.NotEmpty(st.Snapshot().LastUpdateCheckUtc)
}
