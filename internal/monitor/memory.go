package monitor

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// MemorySampler reports the resident memory of the process in megabytes.
type MemorySampler interface {
	SampleMB() (float64, error)
}

// ProcessMemory samples the RSS of the current process.
type ProcessMemory struct {
	proc *process.Process
}

// NewProcessMemory returns a sampler for the running process.
func NewProcessMemory() (*ProcessMemory, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process: %w", err)
	}
	return &ProcessMemory{proc: p}, nil
}

// SampleMB implements MemorySampler.
func (m *ProcessMemory) SampleMB() (float64, error) {
	info, err := m.proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("memory info: %w", err)
	}
	return float64(info.RSS) / bytesPerMB, nil
}

// MemoryFunc adapts a function to MemorySampler.
type MemoryFunc func() (float64, error)

// SampleMB implements MemorySampler.
func (f MemoryFunc) SampleMB() (float64, error) { return f() }
