// Package tracker owns the operation journal: an ordered log of
// recorded agent actions plus the dependency DAG between them. It is
// the only component that transitions operation status; strategies
// report outcomes and the tracker applies them.
package tracker

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gammazero/toposort"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/strategies"
	"github.com/arthur-debert/rewind/pkg/types"
)

// Options configures a Tracker.
type Options struct {
	// FS is the filesystem strategies mutate.
	FS types.FS

	// BackupDir is where pre-reversal backups are written.
	BackupDir string

	// Backups stores content snapshots. Required.
	Backups types.BackupStore

	// Cascade enables recursive undo/redo across dependency edges.
	// When false an undo with active dependents is refused.
	Cascade bool
}

// Tracker is the operation journal. All mutation of the log and of
// operation status goes through it, serialized by a single mutex.
type Tracker struct {
	mu    sync.Mutex
	log   []*types.Operation
	index map[string]*types.Operation

	strategies *strategies.Registry
	fs         types.FS
	backupDir  string
	backups    types.BackupStore
	cascade    bool
	logger     zerolog.Logger
}

// New creates an empty tracker.
func New(opts Options) *Tracker {
	return &Tracker{
		index:      make(map[string]*types.Operation),
		strategies: strategies.NewRegistry(opts.FS),
		fs:         opts.FS,
		backupDir:  opts.BackupDir,
		backups:    opts.Backups,
		cascade:    opts.Cascade,
		logger:     logging.GetLogger("tracker"),
	}
}

// SetCascade toggles cascading reversal at runtime, e.g. from a
// --cascade flag overriding the configured default.
func (t *Tracker) SetCascade(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cascade = enabled
}

// Record appends an operation to the journal. The operation must carry
// a known kind, a unique id, and dependency edges that point only at
// already-recorded operations; recording order therefore keeps the DAG
// acyclic. Reverse (dependent) edges are maintained here.
func (t *Tracker) Record(op *types.Operation) error {
	if op == nil {
		return errors.New(errors.ErrValidation, "cannot record a nil operation")
	}
	if op.ID == "" {
		return errors.New(errors.ErrValidation, "operation has no id")
	}
	if _, err := t.strategies.Get(op.Kind); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.index[op.ID]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "operation %s is already recorded", op.ID)
	}
	for _, dep := range op.DependsOn {
		if dep == op.ID {
			return errors.Newf(errors.ErrValidation, "operation %s cannot depend on itself", op.ID)
		}
		if _, ok := t.index[dep]; !ok {
			return errors.Newf(errors.ErrDependency, "operation %s depends on unknown operation %s", op.ID, dep)
		}
	}

	if op.Status == "" {
		op.Status = types.StatusActive
	}
	for _, dep := range op.DependsOn {
		t.index[dep].AddDependent(op.ID)
	}
	t.log = append(t.log, op)
	t.index[op.ID] = op

	t.logger.Debug().
		Str("id", op.ID).
		Str("kind", string(op.Kind)).
		Str("status", string(op.Status)).
		Int("deps", len(op.DependsOn)).
		Msg("Operation recorded")
	return nil
}

// Get returns the operation with the given id, or nil.
func (t *Tracker) Get(id string) *types.Operation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index[id]
}

// Dependents returns the operations that directly depend on id, in
// journal order.
func (t *Tracker) Dependents(id string) []*types.Operation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dependentsLocked(id)
}

func (t *Tracker) dependentsLocked(id string) []*types.Operation {
	op := t.index[id]
	if op == nil {
		return nil
	}
	deps := make([]*types.Operation, 0, len(op.Dependents))
	for _, other := range t.log {
		if other.HasDependency(id) {
			deps = append(deps, other)
		}
	}
	return deps
}

// Operations returns the journal in recording order. The slice is a
// copy; the operations are the live records.
func (t *Tracker) Operations() []*types.Operation {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*types.Operation, len(t.log))
	copy(out, t.log)
	return out
}

// Len returns the number of recorded operations.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.log)
}

func (t *Tracker) context() *types.OperationContext {
	return &types.OperationContext{
		FS:        t.fs,
		BackupDir: t.backupDir,
		Backups:   t.backups,
		Tracker:   t,
	}
}

func inEffect(op *types.Operation) bool {
	return op.Status == types.StatusActive || op.Status == types.StatusPartial
}

// Undo reverts the operation with the given id. Without cascade it
// refuses when any dependent is still in effect, listing the blockers
// in AffectedOperations. With cascade it reverts the transitive
// dependents first, dependents before the operations they depend on.
func (t *Tracker) Undo(id string) types.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	op := t.index[id]
	if op == nil {
		return types.Fail(fmt.Sprintf("no operation recorded with id %s", id))
	}
	switch op.Status {
	case types.StatusUndone:
		return types.Fail(fmt.Sprintf("operation %s is already undone", id))
	case types.StatusFailed:
		return types.Fail(fmt.Sprintf("operation %s failed when originally performed; there is nothing to undo", id))
	case types.StatusPending:
		return types.Fail(fmt.Sprintf("operation %s is still pending; its outcome is not settled", id))
	}

	blockers := t.activeDependentsLocked(op)
	if len(blockers) > 0 && !t.cascade {
		names := make([]string, len(blockers))
		for i, b := range blockers {
			names[i] = b.ID
		}
		return types.Result{
			Success:            false,
			Message:            fmt.Sprintf("operation %s has active dependents (%s); undo them first or enable cascade", id, strings.Join(names, ", ")),
			AffectedOperations: blockers,
		}
	}

	order, err := t.cascadeOrderLocked(op, blockers)
	if err != nil {
		return types.FailErr(err)
	}

	var affected []*types.Operation
	for _, target := range order[:len(order)-1] {
		res := t.reverseLocked(target, true)
		if !res.Success {
			res.AffectedOperations = affected
			return res
		}
		affected = append(affected, target)
	}

	res := t.reverseLocked(order[len(order)-1], true)
	res.AffectedOperations = affected
	return res
}

// Redo re-applies an undone operation. The mirror of Undo: a
// dependency that is itself undone blocks, and with cascade enabled
// dependencies are redone first, in recording order.
func (t *Tracker) Redo(id string) types.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	op := t.index[id]
	if op == nil {
		return types.Fail(fmt.Sprintf("no operation recorded with id %s", id))
	}
	switch op.Status {
	case types.StatusFailed:
		return types.Fail(fmt.Sprintf("operation %s failed when originally performed; there is nothing to redo", id))
	case types.StatusPending:
		return types.Fail(fmt.Sprintf("operation %s is still pending; its outcome is not settled", id))
	}
	if inEffect(op) {
		return types.Fail(fmt.Sprintf("operation %s is already in effect", id))
	}

	blockers := t.undoneDependenciesLocked(op)
	if len(blockers) > 0 && !t.cascade {
		names := make([]string, len(blockers))
		for i, b := range blockers {
			names[i] = b.ID
		}
		return types.Result{
			Success:            false,
			Message:            fmt.Sprintf("operation %s depends on undone operations (%s); redo them first or enable cascade", id, strings.Join(names, ", ")),
			AffectedOperations: blockers,
		}
	}

	var affected []*types.Operation
	for _, dep := range blockers {
		res := t.reverseLocked(dep, false)
		if !res.Success {
			res.AffectedOperations = affected
			return res
		}
		affected = append(affected, dep)
	}

	res := t.reverseLocked(op, false)
	res.AffectedOperations = affected
	return res
}

// reverseLocked runs one strategy call and applies the resulting
// status transition. A failed reversal leaves status untouched and
// records the cause on the operation.
func (t *Tracker) reverseLocked(op *types.Operation, undo bool) types.Result {
	strategy, err := t.strategies.Get(op.Kind)
	if err != nil {
		return types.FailErr(err)
	}

	verb := "redo"
	if undo {
		verb = "undo"
	}
	done := logging.LogOperationStart(t.logger, verb+" "+op.ID)
	defer done()

	ctx := t.context()
	var res types.Result
	if undo {
		res = strategy.Undo(op, ctx)
	} else {
		res = strategy.Redo(op, ctx)
	}

	if res.Success {
		switch {
		case res.Partial:
			// Some sub-steps were skipped, so the operation is neither
			// fully in effect nor fully reverted.
			op.Status = types.StatusPartial
		case undo:
			op.Status = types.StatusUndone
		default:
			op.Status = types.StatusActive
		}
		op.Error = ""
	} else {
		op.Error = res.Message
	}

	t.logger.Info().
		Str("id", op.ID).
		Str("kind", string(op.Kind)).
		Bool("success", res.Success).
		Bool("partial", res.Partial).
		Msgf("Operation %s finished", verb)
	return res
}

// activeDependentsLocked returns the transitive dependents of op that
// are still in effect, in recording order.
func (t *Tracker) activeDependentsLocked(op *types.Operation) []*types.Operation {
	seen := map[string]bool{op.ID: true}
	var collect func(id string)
	members := map[string]*types.Operation{}
	collect = func(id string) {
		for _, dep := range t.dependentsLocked(id) {
			if seen[dep.ID] {
				continue
			}
			seen[dep.ID] = true
			if inEffect(dep) {
				members[dep.ID] = dep
			}
			collect(dep.ID)
		}
	}
	collect(op.ID)
	return t.journalOrderLocked(members)
}

// undoneDependenciesLocked returns the transitive dependencies of op
// that are currently undone, in recording order.
func (t *Tracker) undoneDependenciesLocked(op *types.Operation) []*types.Operation {
	seen := map[string]bool{op.ID: true}
	members := map[string]*types.Operation{}
	var collect func(o *types.Operation)
	collect = func(o *types.Operation) {
		for _, depID := range o.DependsOn {
			dep := t.index[depID]
			if dep == nil || seen[dep.ID] {
				continue
			}
			seen[dep.ID] = true
			if dep.Status == types.StatusUndone {
				members[dep.ID] = dep
			}
			collect(dep)
		}
	}
	collect(op)
	return t.journalOrderLocked(members)
}

// journalOrderLocked sorts a member set by recording order.
func (t *Tracker) journalOrderLocked(members map[string]*types.Operation) []*types.Operation {
	pos := make(map[string]int, len(t.log))
	for i, o := range t.log {
		pos[o.ID] = i
	}
	out := make([]*types.Operation, 0, len(members))
	for _, m := range members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return pos[out[i].ID] < pos[out[j].ID] })
	return out
}

// cascadeOrderLocked computes the undo order for op plus its still-
// active transitive dependents: a topological sort of the dependency
// edges so every dependent is undone before anything it depends on,
// with recording order breaking ties. op is always last, so its
// Result is the one Undo reports.
func (t *Tracker) cascadeOrderLocked(op *types.Operation, dependents []*types.Operation) ([]*types.Operation, error) {
	if len(dependents) == 0 {
		return []*types.Operation{op}, nil
	}

	inSet := map[string]*types.Operation{op.ID: op}
	for _, d := range dependents {
		inSet[d.ID] = d
	}

	var edges []toposort.Edge
	for _, member := range inSet {
		for _, depID := range member.DependsOn {
			if _, ok := inSet[depID]; ok {
				// Dependent sorts before what it depends on: undo
				// peels the stack from the top.
				edges = append(edges, toposort.Edge{member.ID, depID})
			}
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDependency, "dependency edges do not form a DAG")
	}

	// op is the dependency of every member, so it always goes last and
	// its Result is the one Undo reports.
	order := make([]*types.Operation, 0, len(inSet))
	placed := map[string]bool{op.ID: true}
	for _, node := range sorted {
		id, ok := node.(string)
		if !ok {
			continue
		}
		if member := inSet[id]; member != nil && !placed[id] {
			order = append(order, member)
			placed[id] = true
		}
	}
	// Members with no edges inside the set come out of the sort empty
	// handed; slot them in reverse recording order before the rest.
	if len(order) < len(inSet)-1 {
		missing := map[string]*types.Operation{}
		for id, member := range inSet {
			if !placed[id] {
				missing[id] = member
			}
		}
		rest := t.journalOrderLocked(missing)
		for i := len(rest) - 1; i >= 0; i-- {
			order = append([]*types.Operation{rest[i]}, order...)
		}
	}
	return append(order, op), nil
}

// PreviewUndo describes what undoing id would do, including the
// dependents a cascading undo would sweep up.
func (t *Tracker) PreviewUndo(id string) (types.Preview, error) {
	return t.preview(id, true)
}

// PreviewRedo describes what redoing id would do.
func (t *Tracker) PreviewRedo(id string) (types.Preview, error) {
	return t.preview(id, false)
}

func (t *Tracker) preview(id string, undo bool) (types.Preview, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	op := t.index[id]
	if op == nil {
		return types.Preview{}, errors.Newf(errors.ErrOpNotFound, "no operation recorded with id %s", id)
	}
	strategy, err := t.strategies.Get(op.Kind)
	if err != nil {
		return types.Preview{}, err
	}

	var p types.Preview
	if undo {
		p = strategy.PreviewUndo(op)
		p.CascadingOperations = t.activeDependentsLocked(op)
		if len(p.CascadingOperations) > 0 && !t.cascade {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%d active dependent operation(s) block this undo unless cascade is enabled", len(p.CascadingOperations)))
		}
	} else {
		p = strategy.PreviewRedo(op)
		p.CascadingOperations = t.undoneDependenciesLocked(op)
		if len(p.CascadingOperations) > 0 && !t.cascade {
			p.Warnings = append(p.Warnings, fmt.Sprintf("%d undone dependency operation(s) block this redo unless cascade is enabled", len(p.CascadingOperations)))
		}
	}
	return p, nil
}
