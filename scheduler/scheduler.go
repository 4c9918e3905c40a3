// Package scheduler runs assembled programs as background jobs, each
// owning its own VM, and lets a caller look up a job's state by ID.
package scheduler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/example/regvm/assembler"
	"github.com/example/regvm/vm"
)

var (
	// ErrJobNotFound is returned when a job ID has no matching entry.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobAlreadyExists is returned on an ID collision, which should
	// only happen if the random ID generator is exhausted or broken.
	ErrJobAlreadyExists = errors.New("job already exists")
)

// Job is a single program run to completion (or still running) on its
// own VM instance.
type Job struct {
	ID        string
	VM        *vm.VM
	CreatedAt time.Time

	mu       sync.RWMutex
	status   vm.Status
	finished bool
	done     chan struct{}
}

// Status reports the job's VM.Run result. It does not block: called
// before the job finishes it returns the zero Status (StatusOK), so
// callers should check Finished first or use Wait.
func (j *Job) Status() vm.Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Finished reports whether the job's VM has stopped running.
func (j *Job) Finished() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.finished
}

// Wait blocks until the job completes and returns its final status.
func (j *Job) Wait() vm.Status {
	<-j.done
	return j.Status()
}

func (j *Job) finish(status vm.Status) {
	j.mu.Lock()
	j.status = status
	j.finished = true
	j.mu.Unlock()
	close(j.done)
}

// Scheduler owns a set of in-flight and completed jobs, keyed by a
// randomly generated ID.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*Job)}
}

// Submit loads img into a fresh VM and runs it to completion on a new
// goroutine, returning a handle the caller can poll or Wait on.
func (s *Scheduler) Submit(img *assembler.Image) (*Job, error) {
	id, err := generateJobID()
	if err != nil {
		return nil, err
	}

	machine := vm.New()
	machine.LoadImage(img)

	job := &Job{
		ID:        id,
		VM:        machine,
		CreatedAt: time.Now(),
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	if _, exists := s.jobs[id]; exists {
		s.mu.Unlock()
		return nil, ErrJobAlreadyExists
	}
	s.jobs[id] = job
	s.mu.Unlock()

	go func() {
		job.finish(machine.Run())
	}()

	return job, nil
}

// Get retrieves a job by ID.
func (s *Scheduler) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// Remove deletes a job from the scheduler's table, for example once its
// caller has collected its result.
func (s *Scheduler) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

// List returns all known job IDs.
func (s *Scheduler) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of jobs the scheduler currently tracks.
func (s *Scheduler) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func generateJobID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
