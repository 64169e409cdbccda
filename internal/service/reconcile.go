package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tilworks/glossary/internal/domain/model"
	"github.com/tilworks/glossary/internal/ports"
)

// Directions of a reconciliation step.
const (
	StepAttach = "attach"
	StepDetach = "detach"
)

// ReconcileStep records one failed attach or detach during reconciliation.
type ReconcileStep struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Err       string `json:"error"`
}

// ReconcileReport summarizes one reconciliation run. Attached and Detached
// list the category names whose links changed; Failed itemizes steps that
// did not complete. A run with failures is partial, not rolled back.
type ReconcileReport struct {
	Attached []string        `json:"attached"`
	Detached []string        `json:"detached"`
	Failed   []ReconcileStep `json:"failed,omitempty"`
}

// Clean returns true when every step completed.
func (r ReconcileReport) Clean() bool {
	return len(r.Failed) == 0
}

// Reconciler converges an acronym's category links toward a desired set of
// names. It never touches links outside the computed difference, so repeated
// runs with the same input settle into no-ops.
type Reconciler struct {
	store ports.CategoryStore

	// MaxConcurrent caps in-flight attach/detach steps. Zero means a
	// modest default.
	MaxConcurrent int
}

// NewReconciler constructs a Reconciler over the given store.
func NewReconciler(store ports.CategoryStore) *Reconciler {
	return &Reconciler{store: store}
}

const defaultReconcileConcurrency = 4

// Reconcile reads the acronym's current categories, diffs them against the
// desired names, and applies the difference. Names are trimmed and
// de-duplicated before diffing. Each failed step is reported by name and
// direction; one failure does not stop the rest of the batch.
func (rc *Reconciler) Reconcile(ctx context.Context, acronymID string, desired []string) (ReconcileReport, error) {
	current, err := rc.store.CurrentCategories(ctx, acronymID)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("read current categories: %w", err)
	}

	toAdd, toRemove := diffCategories(current, desired)

	report := ReconcileReport{
		Attached: make([]string, 0, len(toAdd)),
		Detached: make([]string, 0, len(toRemove)),
	}
	var mu sync.Mutex

	limit := rc.MaxConcurrent
	if limit <= 0 {
		limit = defaultReconcileConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, name := range toAdd {
		g.Go(func() error {
			err := rc.attach(gctx, acronymID, name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, ReconcileStep{
					Name:      name,
					Direction: StepAttach,
					Err:       err.Error(),
				})
				return nil
			}
			report.Attached = append(report.Attached, name)
			return nil
		})
	}
	for _, cat := range toRemove {
		g.Go(func() error {
			err := rc.store.Detach(gctx, acronymID, cat.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, ReconcileStep{
					Name:      cat.Name,
					Direction: StepDetach,
					Err:       err.Error(),
				})
				return nil
			}
			report.Detached = append(report.Detached, cat.Name)
			return nil
		})
	}

	// Step errors are collected into the report, so Wait only fails on
	// context cancellation propagated through the group.
	if waitErr := g.Wait(); waitErr != nil {
		return report, waitErr
	}

	sort.Strings(report.Attached)
	sort.Strings(report.Detached)
	sort.Slice(report.Failed, func(i, j int) bool {
		if report.Failed[i].Name != report.Failed[j].Name {
			return report.Failed[i].Name < report.Failed[j].Name
		}
		return report.Failed[i].Direction < report.Failed[j].Direction
	})
	return report, nil
}

// attach resolves the category name, creating it on first use, then links it.
func (rc *Reconciler) attach(ctx context.Context, acronymID, name string) error {
	cat, err := rc.store.FindOrCreateCategory(ctx, name)
	if err != nil {
		return err
	}
	return rc.store.Attach(ctx, acronymID, cat.ID)
}

// diffCategories computes the attach and detach sets. Desired names are
// trimmed and de-duplicated; empty names are dropped. Links present in both
// sets are left alone.
func diffCategories(current []model.Category, desired []string) (toAdd []string, toRemove []model.Category) {
	want := make(map[string]struct{}, len(desired))
	for _, name := range desired {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		want[name] = struct{}{}
	}

	have := make(map[string]struct{}, len(current))
	for _, cat := range current {
		have[cat.Name] = struct{}{}
		if _, ok := want[cat.Name]; !ok {
			toRemove = append(toRemove, cat)
		}
	}

	for name := range want {
		if _, ok := have[name]; !ok {
			toAdd = append(toAdd, name)
		}
	}
	sort.Strings(toAdd)
	return toAdd, toRemove
}
