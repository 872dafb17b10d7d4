// Package tasksync keeps a client-side copy of the task collection consistent
// with the backend.
//
// Every mutation follows the same protocol: issue it through the service,
// and on success mark the cache stale, refetch the whole collection and
// replace the cache with it. Cached entries are never patched in place, so a
// failed mutation leaves the cache exactly as it was. Subscribers are told
// about every settled operation through an Outcome.
package tasksync

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/f4lconet/TodoList/internal/logging"
	"github.com/f4lconet/TodoList/internal/service"
)

// CacheKey is the identity of the single cached collection.
const CacheKey = "tasks"

// Pending identifies one in-flight operation.
type Pending struct {
	Op       Op
	TargetID string
}

// Draft holds the user-editable fields of a task.
type Draft struct {
	Title       string
	Description string
}

// Validate checks the form constraints.
func (d Draft) Validate() error {
	return service.ValidateTitle(d.Title)
}

// Store owns the cached task collection. It is safe for concurrent use.
type Store struct {
	svc service.Service
	log *log.Helper

	mu       sync.Mutex
	tasks    []service.Task
	loaded   bool
	stale    bool
	closed   bool
	fetching int
	pending  map[Pending]int
	subs     map[int]func(Outcome)
	nextSub  int
}

// New creates an empty store over svc.
func New(svc service.Service, logger log.Logger) *Store {
	return &Store{
		svc:     svc,
		log:     logging.Module(logger, "tasksync"),
		pending: make(map[Pending]int),
		subs:    make(map[int]func(Outcome)),
	}
}

// Subscribe registers fn for every settled operation and returns a function
// that removes it. Callbacks run on the settling goroutine, outside the lock.
func (s *Store) Subscribe(fn func(Outcome)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Fetch loads the full collection and replaces the cache with it.
// On failure the cache is kept and an error outcome is emitted.
func (s *Store) Fetch(ctx context.Context) error {
	if err := s.fetch(ctx); err != nil {
		s.settle(Outcome{Op: OpFetch, Err: err, Notice: errorNotice("Failed to load tasks")})
		return err
	}
	return nil
}

// Focus is the refetch trigger for a front end regaining the user's attention.
// Cached data is always considered stale at that point.
func (s *Store) Focus(ctx context.Context) error {
	return s.Fetch(ctx)
}

func (s *Store) fetch(ctx context.Context) error {
	s.mu.Lock()
	s.fetching++
	s.mu.Unlock()

	tasks, err := s.svc.ListTasks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching--

	if err != nil {
		s.log.Errorw("msg", "fetch failed", "key", CacheKey, "err", err)
		return err
	}
	if s.closed {
		return nil
	}
	// Last fetch to resolve wins.
	s.tasks = append([]service.Task(nil), tasks...)
	s.loaded = true
	s.stale = false
	s.log.Debugw("msg", "cache replaced", "key", CacheKey, "count", len(tasks))
	return nil
}

// Create validates d and creates a current task under a tentative id.
// The tentative id is only used to track the request; the cache is refilled
// from the server, whose id wins.
func (s *Store) Create(ctx context.Context, d Draft) (service.Task, error) {
	return s.CreateAs(ctx, service.NewTentativeID(), d)
}

// CreateAs is Create with a tentative id chosen by the caller, so the caller
// can ask IsPending(OpCreate, id) while the request is in flight.
func (s *Store) CreateAs(ctx context.Context, id string, d Draft) (service.Task, error) {
	if err := d.Validate(); err != nil {
		return service.Task{}, err
	}
	if id == "" {
		id = service.NewTentativeID()
	}
	t := service.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Status:      service.StatusCurrent,
	}
	return s.mutate(ctx, OpCreate, t.ID,
		func(ctx context.Context) (service.Task, error) { return s.svc.CreateTask(ctx, t) },
		func(service.Task) Notice { return successNotice("Task created") },
		func(error) Notice { return errorNotice("Failed to create task") },
	)
}

// Update replaces the title and description of task id.
func (s *Store) Update(ctx context.Context, id string, d Draft) (service.Task, error) {
	if err := d.Validate(); err != nil {
		return service.Task{}, err
	}
	p := service.Patch{Title: &d.Title, Description: &d.Description}
	return s.mutate(ctx, OpUpdate, id,
		func(ctx context.Context) (service.Task, error) { return s.svc.UpdateTask(ctx, id, p) },
		func(service.Task) Notice { return successNotice("Task updated") },
		func(error) Notice { return errorNotice("Failed to update task") },
	)
}

// Delete removes task id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, OpDelete, id,
		func(ctx context.Context) (service.Task, error) { return service.Task{}, s.svc.DeleteTask(ctx, id) },
		func(service.Task) Notice { return successNotice("Task deleted") },
		func(error) Notice { return errorNotice("Failed to delete task") },
	)
	return err
}

// SetStatus moves task id into the given partition.
func (s *Store) SetStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	if err := service.ValidateStatus(status); err != nil {
		return service.Task{}, err
	}
	return s.mutate(ctx, OpStatus, id,
		func(ctx context.Context) (service.Task, error) { return s.svc.UpdateStatus(ctx, id, status) },
		statusNotice,
		func(err error) Notice { return errorNotice(err.Error()) },
	)
}

// Toggle flips the status of a cached task.
// An id that is not in the cache fails before any request is sent.
func (s *Store) Toggle(ctx context.Context, id string) (service.Task, error) {
	t, ok := s.Get(id)
	if !ok {
		return service.Task{}, fmt.Errorf("task %s: %w", id, service.ErrNotFound)
	}
	return s.SetStatus(ctx, id, t.Status.Toggle())
}

// mutate runs one mutation through idle -> pending -> settled.
// A refetch failure after a successful mutation is reported after the
// mutation's own outcome and returned.
func (s *Store) mutate(
	ctx context.Context,
	op Op,
	target string,
	call func(context.Context) (service.Task, error),
	onSuccess func(service.Task) Notice,
	onError func(error) Notice,
) (service.Task, error) {
	key := Pending{Op: op, TargetID: target}
	s.begin(key)
	task, err := call(ctx)
	s.end(key)

	if err != nil {
		s.log.Errorw("msg", "mutation failed", "op", op, "target", target, "err", err)
		s.settle(Outcome{Op: op, TargetID: target, Err: err, Notice: onError(err)})
		return service.Task{}, err
	}

	s.invalidate()
	ferr := s.fetch(ctx)
	s.settle(Outcome{Op: op, TargetID: target, Task: task, Notice: onSuccess(task)})

	if ferr != nil {
		s.settle(Outcome{Op: OpFetch, Err: ferr, Notice: errorNotice("Failed to load tasks")})
		return task, fmt.Errorf("refresh %s: %w", CacheKey, ferr)
	}
	return task, nil
}

func (s *Store) begin(key Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key]++
}

func (s *Store) end(key Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[key] <= 1 {
		delete(s.pending, key)
		return
	}
	s.pending[key]--
}

func (s *Store) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

func (s *Store) settle(o Outcome) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Outcome), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(o)
	}
}

// Tasks returns a copy of the cached collection in server order.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.Task(nil), s.tasks...)
}

// Current returns the cached tasks with status current.
func (s *Store) Current() []service.Task {
	current, _ := Partition(s.Tasks())
	return current
}

// Completed returns the cached tasks with status completed.
func (s *Store) Completed() []service.Task {
	_, completed := Partition(s.Tasks())
	return completed
}

// Get returns the cached task with the given id.
func (s *Store) Get(id string) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetching > 0
}

// Loaded reports whether the cache has been populated at least once.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Stale reports whether a mutation succeeded since the last successful fetch.
func (s *Store) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// IsPending reports whether op on id is in flight.
func (s *Store) IsPending(op Op, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[Pending{Op: op, TargetID: id}] > 0
}

// Pending returns how many op operations are in flight, whatever their target.
func (s *Store) Pending(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, c := range s.pending {
		if k.Op == op {
			n += c
		}
	}
	return n
}

// PendingOps returns the operations in flight for id, sorted.
func (s *Store) PendingOps(id string) []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ops []Op
	for k := range s.pending {
		if k.TargetID == id {
			ops = append(ops, k.Op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Close clears the cache and drops all subscribers.
// Fetches that resolve afterwards are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.tasks = nil
	s.loaded = false
	s.stale = false
	s.subs = make(map[int]func(Outcome))
}

// Partition splits tasks into current and completed, keeping order.
func Partition(tasks []service.Task) (current, completed []service.Task) {
	for _, t := range tasks {
		switch t.Status {
		case service.StatusCompleted:
			completed = append(completed, t)
		default:
			current = append(current, t)
		}
	}
	return current, completed
}
