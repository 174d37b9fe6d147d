package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/studybuddy/pkg/lifecycle"
)

func TestCoordinator_StartupMarksReady(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Fatal("coordinator ready before startup")
	}

	var ran atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			time.Sleep(5 * time.Millisecond)
			ran.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := ran.Load(); got != 3 {
		t.Errorf("startup hooks run = %d, want 3", got)
	}
	if !lc.Ready() {
		t.Error("coordinator not ready after WaitForStartup")
	}
}

func TestCoordinator_ShutdownCancelsContext(t *testing.T) {
	lc := lifecycle.New()

	var closed atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		closed.Store(true)
	})
	lc.WaitForStartup()

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if lc.Context().Err() == nil {
		t.Error("context not cancelled")
	}
	if !closed.Load() {
		t.Error("shutdown hook did not finish")
	}
	if lc.Ready() {
		t.Error("coordinator still ready after shutdown")
	}
}

func TestCoordinator_ShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() {
		<-release
	})

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("Shutdown() error = nil, want timeout")
	}
}
