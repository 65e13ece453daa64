package tick

import (
	"testing"
	"time"
)

func TestBuildTiccmdsAdvancesMaketicAndStopsAtBackupTics(t *testing.T) {
	s := NewScheduler(35)
	for i := 0; i < BackupTics; i++ {
		if !s.BuildTiccmds([]int{0}, func(int) (Ticcmd, bool) { return i, true }) {
			t.Fatalf("BuildTiccmds should succeed while maketic-gametic < BackupTics, failed at i=%d", i)
		}
	}
	if s.Maketic() != BackupTics {
		t.Fatalf("Maketic() = %d, want %d", s.Maketic(), BackupTics)
	}
	if s.BuildTiccmds([]int{0}, func(int) (Ticcmd, bool) { return 99, true }) {
		t.Fatal("BuildTiccmds should refuse once the buffer is full")
	}
}

func TestGrabTiccmdsAdvancesGameticAndDeliversPayload(t *testing.T) {
	s := NewScheduler(35)
	s.BuildTiccmds([]int{0, 1}, func(p int) (Ticcmd, bool) { return p * 10, true })

	got := map[int]Ticcmd{}
	s.GrabTiccmds(func(p int, cmd Ticcmd) { got[p] = cmd })

	if s.Gametic() != 1 {
		t.Fatalf("Gametic() = %d, want 1", s.Gametic())
	}
	if got[0] != 0 || got[1] != 10 {
		t.Fatalf("delivered commands = %v, want {0:0, 1:10}", got)
	}
}

func TestBuildTiccmdsDropsNonexistentPlayerIndex(t *testing.T) {
	s := NewScheduler(35)
	called := false
	s.BuildTiccmds([]int{99}, func(int) (Ticcmd, bool) { called = true; return nil, true })
	if called {
		t.Fatal("build callback must not run for an out-of-range player index")
	}
}

func TestInvariantMaketicNeverExceedsGameticPlusBackup(t *testing.T) {
	s := NewScheduler(35)
	for i := 0; i < BackupTics*2; i++ {
		s.BuildTiccmds([]int{0}, func(int) (Ticcmd, bool) { return i, true })
		if s.maketic-s.gametic > BackupTics {
			t.Fatalf("maketic-gametic = %d exceeds BackupTics at iteration %d", s.maketic-s.gametic, i)
		}
	}
}

func TestTryRunTicsNeverStarvesQueuedCommands(t *testing.T) {
	s := NewScheduler(35)
	s.BuildTiccmds([]int{0}, func(int) (Ticcmd, bool) { return 1, true })
	n := s.TryRunTics(time.Now(), nil)
	if n != 1 {
		t.Fatalf("TryRunTics = %d, want 1 tic to drain the single queued command", n)
	}
}

func TestTryRunTicsZeroWhenPaused(t *testing.T) {
	s := NewScheduler(35)
	s.BuildTiccmds([]int{0}, func(int) (Ticcmd, bool) { return 1, true })
	s.SetPaused(true)
	if n := s.TryRunTics(time.Now(), nil); n != 0 {
		t.Fatalf("TryRunTics while paused = %d, want 0", n)
	}
}

func TestTryRunTicsCallsPoll(t *testing.T) {
	s := NewScheduler(35)
	polled := false
	s.TryRunTics(time.Now(), func() { polled = true })
	if !polled {
		t.Fatal("TryRunTics must invoke the input poll callback")
	}
}
