package gpu

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultCommand is the tool queried for the device list.
const DefaultCommand = "nvidia-smi"

// queryArgs makes nvidia-smi print the full query as XML.
var queryArgs = []string{"-q", "-x"}

var (
	// ErrCommandNotFound is returned when the query tool is not on PATH.
	ErrCommandNotFound = errors.New("command not found")

	// ErrExecFailed is returned when the query tool fails.
	ErrExecFailed = errors.New("command execution failed")

	// ErrNotEnoughGPUs is returned when fewer GPUs than requested are free.
	ErrNotEnoughGPUs = errors.New("not enough free GPUs")

	// ErrInvalidCount is returned for a negative GPU count.
	ErrInvalidCount = errors.New("number of GPUs must not be negative")
)

// Error is a failure reported to the user with a fixed message.
type Error struct {
	// Msg is the full message shown to the user.
	Msg string

	// Kind is the sentinel error matched by errors.Is.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// smiLog mirrors the parts of the nvidia-smi XML report that are used.
type smiLog struct {
	XMLName xml.Name `xml:"nvidia_smi_log"`
	GPUs    []smiGPU `xml:"gpu"`
}

type smiGPU struct {
	ID          string        `xml:"id,attr"`
	ProductName string        `xml:"product_name"`
	Processes   *smiProcesses `xml:"processes"`
}

type smiProcesses struct {
	Infos []smiProcessInfo `xml:"process_info"`
}

type smiProcessInfo struct {
	PID         string `xml:"pid"`
	ProcessName string `xml:"process_name"`
}

// Device is one GPU of the report.
type Device struct {
	// Index is the position in the report, as used by CUDA_VISIBLE_DEVICES.
	Index int

	// BusID is the PCI bus id.
	BusID string

	// Name is the product name.
	Name string

	// Processes is the number of processes running on the device.
	Processes int
}

// Free reports whether no process runs on the device.
func (d Device) Free() bool {
	return d.Processes == 0
}

// Parse decodes an nvidia-smi XML report.
func Parse(r io.Reader) ([]Device, error) {
	var log smiLog
	if err := xml.NewDecoder(r).Decode(&log); err != nil {
		return nil, fmt.Errorf("invalid nvidia-smi XML: %w", err)
	}

	devices := make([]Device, len(log.GPUs))
	for i, g := range log.GPUs {
		devices[i] = Device{
			Index: i,
			BusID: g.ID,
			Name:  strings.TrimSpace(g.ProductName),
		}
		if g.Processes != nil {
			devices[i].Processes = len(g.Processes.Infos)
		}
	}
	return devices, nil
}

// FreeIDs returns the indices of the first n free devices.
func FreeIDs(devices []Device, n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	ids := make([]int, 0, n)
	for _, d := range devices {
		if len(ids) == n {
			break
		}
		if d.Free() {
			ids = append(ids, d.Index)
		}
	}

	if len(ids) < n {
		return nil, &Error{
			Msg:  fmt.Sprintf("Could not find %d free GPUs.", n),
			Kind: ErrNotEnoughGPUs,
		}
	}
	return ids, nil
}

// FormatIDs joins ids with commas.
func FormatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Runner runs external commands.
type Runner interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// LookPath searches PATH for file.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output runs the command and returns its standard output.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output() //nolint:gosec // Command name is user configuration
}

// Querier fetches device lists.
type Querier struct {
	command string
	runner  Runner
}

// Option configures a Querier.
type Option func(*Querier)

// WithCommand overrides the query tool.
func WithCommand(command string) Option {
	return func(q *Querier) {
		if command != "" {
			q.command = command
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(q *Querier) {
		q.runner = r
	}
}

// NewQuerier creates a Querier that runs nvidia-smi.
func NewQuerier(opts ...Option) *Querier {
	q := &Querier{
		command: DefaultCommand,
		runner:  ExecRunner{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Devices runs the query tool and parses its report.
func (q *Querier) Devices(ctx context.Context) ([]Device, error) {
	path, err := q.runner.LookPath(q.command)
	if err != nil {
		return nil, &Error{
			Msg:  fmt.Sprintf("'%s' not found, abort.", q.command),
			Kind: ErrCommandNotFound,
			Err:  err,
		}
	}

	out, err := q.runner.Output(ctx, path, queryArgs...)
	if err != nil {
		return nil, &Error{
			Msg:  fmt.Sprintf("'%s' execution failed, abort.", q.command),
			Kind: ErrExecFailed,
			Err:  err,
		}
	}

	return Parse(bytes.NewReader(out))
}

// DevicesFromFile parses a saved XML report.
func DevicesFromFile(name string) ([]Device, error) {
	f, err := os.Open(name) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	return Parse(f)
}
