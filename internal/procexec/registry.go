package procexec

import (
	"log"
	"sync"
	"syscall"
)

// Registry tracks the process identifiers of live children at one
// level of the process tree — either the driver's recipe workers or
// one recipe worker's pipeline stages, per §3's "Process registries".
// Every identifier placed here is either removed when reaped or
// killed during teardown; no zombies may outlive the owning process.
type Registry struct {
	mu    sync.Mutex
	pids  map[int]bool
	debug bool
	label string
}

// NewRegistry creates an empty registry. label identifies the
// registry in debug trace lines ("workers" or "stages").
func NewRegistry(label string, debug bool) *Registry {
	return &Registry{pids: make(map[int]bool), label: label, debug: debug}
}

// Add records pid as live.
func (r *Registry) Add(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pids[pid] = true
}

// Remove forgets pid, typically after it has been reaped.
func (r *Registry) Remove(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pids, pid)
}

// Snapshot returns the currently recorded PIDs.
func (r *Registry) Snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.pids))
	for pid := range r.pids {
		out = append(out, pid)
	}
	return out
}

// KillAll sends SIGKILL to every recorded PID. Failures are logged
// and otherwise ignored — a process that already exited is not an
// error here.
func (r *Registry) KillAll() {
	for _, pid := range r.Snapshot() {
		if r.debug {
			log.Printf("[mymake]\tKilling %s PID: %d", r.label, pid)
		}
		if err := syscall.Kill(pid, syscall.SIGKILL); err != nil {
			log.Printf("mymake: kill %s %d: %v", r.label, pid, err)
		}
	}
}
