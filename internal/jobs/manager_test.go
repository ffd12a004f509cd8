package jobs_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rsanur/libra-go/internal/config"
	"github.com/rsanur/libra-go/internal/jobs"
)

type fakeJobContext struct {
	jobMgr *jobs.JobManager
}

func (f *fakeJobContext) DB() *sql.DB                  { return nil }
func (f *fakeJobContext) Config() *config.Config       { return config.Default() }
func (f *fakeJobContext) JobManager() *jobs.JobManager { return f.jobMgr }

func waitForStatus(t *testing.T, jm *jobs.JobManager, id, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, s := range jm.GetStatus() {
			if s.ID == id && s.Status == want {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %q never reached status %q", id, want)
}

func TestManager_NewManager(t *testing.T) {
	mgr := jobs.NewManager()
	assert.NotNil(t, mgr)
	assert.Empty(t, mgr.GetStatus())
}

func TestManager_RegisterAndGetStatus(t *testing.T) {
	mgr := jobs.NewManager()
	mgr.Register("temp-sweep", "Sweep temporary files", func(ctx jobs.JobContext) {})
	mgr.Register("regen-covers", "Regenerate missing covers", func(ctx jobs.JobContext) {})

	statuses := mgr.GetStatus()
	assert.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.Equal(t, "idle", s.Status)
	}
}

func TestManager_RunJobLifecycle(t *testing.T) {
	mgr := jobs.NewManager()
	ctx := &fakeJobContext{jobMgr: mgr}

	done := make(chan struct{})
	mgr.Register("test-job", "Test Job", func(ctx jobs.JobContext) {
		<-done
	})

	assert.NoError(t, mgr.RunJob("test-job", ctx))
	waitForStatus(t, mgr, "test-job", "running")

	// A second submission while running is rejected.
	assert.Error(t, mgr.RunJob("test-job", ctx))

	close(done)
	waitForStatus(t, mgr, "test-job", "success")

	// After completion the manager accepts jobs again.
	assert.NoError(t, mgr.RunJob("test-job", ctx))
}

func TestManager_RunJobUnknown(t *testing.T) {
	mgr := jobs.NewManager()
	assert.Error(t, mgr.RunJob("missing", &fakeJobContext{jobMgr: mgr}))
}

func TestManager_PanicIsRecovered(t *testing.T) {
	mgr := jobs.NewManager()
	ctx := &fakeJobContext{jobMgr: mgr}
	mgr.Register("panicky", "Panics", func(ctx jobs.JobContext) {
		panic("boom")
	})

	assert.NoError(t, mgr.RunJob("panicky", ctx))
	waitForStatus(t, mgr, "panicky", "failed")

	// The manager is not wedged by the panic. The failed status may become
	// visible moments before the run slot frees up, so poll briefly.
	mgr.Register("ok", "Fine", func(ctx jobs.JobContext) {})
	deadline := time.Now().Add(2 * time.Second)
	for {
		err := mgr.RunJob("ok", ctx)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("RunJob after a panic failed: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestManager_GetStatusReturnsCopies(t *testing.T) {
	mgr := jobs.NewManager()
	mgr.Register("a", "Job A", func(ctx jobs.JobContext) {})

	statuses := mgr.GetStatus()
	assert.Len(t, statuses, 1)
	statuses[0].Status = "mangled"

	assert.Equal(t, "idle", mgr.GetStatus()[0].Status)
}
