// Package effects bridges request actions to backend calls. Each request
// action produces exactly one backend call and, unless superseded, exactly
// one result action.
package effects

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"todoctl/internal/service"
	"todoctl/internal/state"
)

// Failure is a backend call that failed for a request of Kind.
type Failure struct {
	Kind state.Kind
	Err  error
}

func (f *Failure) Error() string { return fmt.Sprintf("%s: %v", f.Kind, f.Err) }

func (f *Failure) Unwrap() error { return f.Err }

// flight is one in-progress request.
type flight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Effects runs backend calls for request actions. A new request cancels the
// in-flight request of the same kind and that request's answer is dropped;
// requests of different kinds run concurrently.
type Effects struct {
	store  *state.Store
	svc    service.Service
	logger *zap.Logger

	mu       sync.Mutex
	seq      uint64
	inflight map[state.Kind]*flight
	group    *errgroup.Group

	// applyMu serializes the "still current?" check with the result
	// dispatch, so a superseded answer can never land after its successor.
	applyMu sync.Mutex
}

// New returns an effect layer that feeds results into store.
func New(store *state.Store, svc service.Service, logger *zap.Logger) *Effects {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Effects{
		store:    store,
		svc:      svc,
		logger:   logger,
		inflight: make(map[state.Kind]*flight),
		group:    new(errgroup.Group),
	}
}

// Store returns the store results are dispatched into.
func (e *Effects) Store() *state.Store {
	return e.store
}

// Dispatch forwards a to the store and, for request actions, starts the
// matching backend call. It does not block on the call.
func (e *Effects) Dispatch(ctx context.Context, a state.Action) {
	e.store.Dispatch(a)
	if req, ok := a.(state.Request); ok {
		e.launch(ctx, req)
	}
}

// Do dispatches req and waits for every in-flight call to finish.
func (e *Effects) Do(ctx context.Context, req state.Request) error {
	e.Dispatch(ctx, req)
	return e.Wait()
}

// Wait blocks until the calls started so far have finished and returns the
// first failure among them. Superseded calls never count as failures.
func (e *Effects) Wait() error {
	e.mu.Lock()
	g := e.group
	e.group = new(errgroup.Group)
	e.mu.Unlock()
	return g.Wait()
}

func (e *Effects) launch(parent context.Context, req state.Request) {
	kind := req.Kind()
	ctx, cancel := context.WithCancel(parent)

	e.mu.Lock()
	if prev, ok := e.inflight[kind]; ok {
		prev.cancel()
		e.logger.Debug("superseding request", zap.String("kind", string(kind)), zap.Uint64("seq", prev.seq))
	}
	e.seq++
	f := &flight{seq: e.seq, cancel: cancel}
	e.inflight[kind] = f
	g := e.group
	e.mu.Unlock()

	e.logger.Debug("request started", zap.String("kind", string(kind)), zap.Uint64("seq", f.seq))

	g.Go(func() error {
		defer cancel()
		result, err := e.call(ctx, req)

		e.applyMu.Lock()
		defer e.applyMu.Unlock()

		e.mu.Lock()
		current := e.inflight[kind] == f
		if current {
			delete(e.inflight, kind)
		}
		e.mu.Unlock()

		if !current {
			e.logger.Debug("dropping superseded answer", zap.String("kind", string(kind)), zap.Uint64("seq", f.seq))
			return nil
		}
		if err != nil {
			e.logger.Debug("request failed", zap.String("kind", string(kind)), zap.Error(err))
			e.store.Dispatch(state.RequestFailed{Kind: kind, Err: err})
			return &Failure{Kind: kind, Err: err}
		}
		e.logger.Debug("request finished", zap.String("kind", string(kind)), zap.String("result", result.Type()))
		e.store.Dispatch(result)
		return nil
	})
}

// call performs the backend call for req and builds its result action.
func (e *Effects) call(ctx context.Context, req state.Request) (state.Action, error) {
	switch r := req.(type) {
	case state.LoadAll:
		todos, err := e.svc.ListTodos(ctx)
		if err != nil {
			return nil, err
		}
		return state.SetAll{Todos: todos}, nil

	case state.Create:
		created, err := e.svc.CreateTodo(ctx, r.Todo)
		if err != nil {
			return nil, err
		}
		return state.Created{Todo: created}, nil

	case state.Edit:
		patch, err := e.svc.UpdateTodo(ctx, r.Todo)
		if err != nil {
			return nil, err
		}
		patch.ID = r.Todo.ID
		return state.Edited{Patch: patch}, nil

	case state.Delete:
		// The delete answer is not trusted for identity.
		if err := e.svc.DeleteTodo(ctx, r.ID); err != nil {
			return nil, err
		}
		return state.Deleted{ID: r.ID}, nil

	case state.FetchByID:
		t, err := e.svc.GetTodo(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return state.FetchedByID{Todo: t}, nil

	default:
		return nil, fmt.Errorf("unsupported request: %s", req.Type())
	}
}
