package gpu

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeRunner returns canned results.
type fakeRunner struct {
	lookErr error
	output  []byte
	runErr  error
	ran     []string
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.lookErr != nil {
		return "", f.lookErr
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.ran = append([]string{name}, args...)
	return f.output, f.runErr
}

func loadFixture(t *testing.T) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "nvidia-smi.xml"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return data
}

// TestDevicesFromFile tests decoding a saved report.
func TestDevicesFromFile(t *testing.T) {
	t.Parallel()

	devices, err := DevicesFromFile(filepath.Join("testdata", "nvidia-smi.xml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Device{
		{Index: 0, BusID: "00000000:1A:00.0", Name: "NVIDIA A100-SXM4-80GB", Processes: 1},
		{Index: 1, BusID: "00000000:1B:00.0", Name: "NVIDIA A100-SXM4-80GB", Processes: 0},
		{Index: 2, BusID: "00000000:3D:00.0", Name: "NVIDIA A100-SXM4-80GB", Processes: 2},
		{Index: 3, BusID: "00000000:3E:00.0", Name: "NVIDIA A100-SXM4-80GB", Processes: 0},
	}
	if diff := cmp.Diff(want, devices); diff != "" {
		t.Errorf("devices mismatch (-want +got):\n%s", diff)
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := DevicesFromFile(filepath.Join(t.TempDir(), "none.xml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected ErrNotExist, got %v", err)
		}
	})

	t.Run("invalid XML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.xml")
		if err := os.WriteFile(path, []byte("<nvidia_smi_log><gpu>"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := DevicesFromFile(path); err == nil {
			t.Error("expected error for truncated XML")
		}
	})
}

// TestFreeIDs tests selecting free devices.
func TestFreeIDs(t *testing.T) {
	t.Parallel()

	devices := []Device{
		{Index: 0, Processes: 1},
		{Index: 1},
		{Index: 2, Processes: 2},
		{Index: 3},
	}

	tests := []struct {
		name    string
		n       int
		want    string
		wantErr error
		wantMsg string
	}{
		{name: "one", n: 1, want: "1"},
		{name: "all free", n: 2, want: "1,3"},
		{name: "zero prints nothing", n: 0, want: ""},
		{name: "too many", n: 3, wantErr: ErrNotEnoughGPUs, wantMsg: "Could not find 3 free GPUs."},
		{name: "negative", n: -1, wantErr: ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ids, err := FreeIDs(devices, tt.n)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.wantMsg != "" && err.Error() != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := FormatIDs(ids); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestQuerierDevices tests running the query tool.
func TestQuerierDevices(t *testing.T) {
	t.Parallel()

	t.Run("parses command output", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{output: loadFixture(t)}
		devices, err := NewQuerier(WithRunner(runner)).Devices(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(devices) != 4 {
			t.Errorf("expected 4 devices, got %d", len(devices))
		}
		if diff := cmp.Diff([]string{"/usr/bin/nvidia-smi", "-q", "-x"}, runner.ran); diff != "" {
			t.Errorf("command mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("command not found", func(t *testing.T) {
		t.Parallel()

		runner := &fakeRunner{lookErr: exec.ErrNotFound}
		_, err := NewQuerier(WithRunner(runner)).Devices(context.Background())
		if !errors.Is(err, ErrCommandNotFound) {
			t.Fatalf("expected ErrCommandNotFound, got %v", err)
		}
		if err.Error() != "'nvidia-smi' not found, abort." {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("execution failed", func(t *testing.T) {
		t.Parallel()

		runErr := errors.New("exit status 9")
		runner := &fakeRunner{runErr: runErr}
		_, err := NewQuerier(WithRunner(runner), WithCommand("my-smi")).Devices(context.Background())
		if !errors.Is(err, ErrExecFailed) || !errors.Is(err, runErr) {
			t.Fatalf("expected ErrExecFailed wrapping cause, got %v", err)
		}
		if err.Error() != "'my-smi' execution failed, abort." {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}
