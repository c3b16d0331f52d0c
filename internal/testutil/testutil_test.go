// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestMustSetenv_Restores(t *testing.T) {
	const key = "GLRUN_TESTUTIL_VAR"
	restoreOuter := MustUnsetenv(t, key)
	defer restoreOuter()

	restore := MustSetenv(t, key, "one")
	if got := os.Getenv(key); got != "one" {
		t.Fatalf("Getenv = %q, want one", got)
	}
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Error("variable should be unset after restore")
	}
}

func TestMustUnsetenv_Restores(t *testing.T) {
	const key = "GLRUN_TESTUTIL_VAR2"
	defer MustSetenv(t, key, "keep")()

	restore := MustUnsetenv(t, key)
	if _, ok := os.LookupEnv(key); ok {
		t.Fatal("variable should be unset")
	}
	restore()
	if got := os.Getenv(key); got != "keep" {
		t.Errorf("Getenv = %q, want keep", got)
	}
}

func TestMustChdir(t *testing.T) {
	dir := t.TempDir()
	restore := MustChdir(t, dir)
	defer restore()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	gotResolved, _ := filepath.EvalSymlinks(wd)
	if gotResolved != resolved {
		t.Errorf("Getwd = %q, want %q", gotResolved, resolved)
	}
}

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	path := MustWriteFile(t, filepath.Join(t.TempDir(), "a", "b", "script.glrun"), "-echo hi\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "-echo hi\n" {
		t.Errorf("content = %q", data)
	}
}

func TestSetHomeDir(t *testing.T) {
	dir := t.TempDir()
	defer SetHomeDir(t, dir)()

	key := "HOME"
	if runtime.GOOS == "windows" {
		key = "USERPROFILE"
	}
	if got := os.Getenv(key); got != dir {
		t.Errorf("%s = %q, want %q", key, got, dir)
	}
}

func TestFakeClock(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(time.Time{})
	start := c.Now()
	if !start.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default start = %v", start)
	}

	c.Advance(3 * time.Second)
	if got := c.Since(start); got != 3*time.Second {
		t.Errorf("Since = %v, want 3s", got)
	}

	later := start.Add(time.Hour)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("Now = %v, want %v", c.Now(), later)
	}
}

func TestFakeClock_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(time.Time{})
	start := c.Now()

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			c.Advance(time.Millisecond)
			_ = c.Now()
		})
	}
	wg.Wait()

	if got := c.Since(start); got != 10*time.Millisecond {
		t.Errorf("Since = %v, want 10ms", got)
	}
}
