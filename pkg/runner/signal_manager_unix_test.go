//go:build unix

package runner

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalManager_SIGTERM(t *testing.T) {
	sm := NewSignalManager()
	defer sm.Stop()

	assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))
	select {
	case <-sm.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("signal was not observed")
	}
}
