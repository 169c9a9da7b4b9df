// Package resolver applies the configured action to duplicate groups.
//
// Each group is ordered by keep policy, the front member survives, and
// every other member is deleted or replaced by a link to the kept file.
// Replacement is remove-then-recreate, two separate steps: if link creation
// fails after the remove, that duplicate's content is already gone. Action
// errors abort the whole run; groups processed before the failure stay
// resolved.
package resolver

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"dupesweep/internal/keeper"
	"dupesweep/internal/platform"
	"dupesweep/internal/types"
)

// Resolver walks duplicate groups and performs the selected action on every
// non-kept member.
//
// The resolver is designed for single-use: create with New(), call Run() once.
type Resolver struct {
	policy types.KeepCriteria
	mode   types.Mode
	dryRun bool
	plat   platform.Platform
	log    logrus.FieldLogger

	resolved   int64
	freedBytes int64
}

// New creates a Resolver. In dry-run mode intended actions are logged and
// the tree is never touched.
func New(policy types.KeepCriteria, mode types.Mode, dryRun bool, plat platform.Platform, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		policy: policy,
		mode:   mode,
		dryRun: dryRun,
		plat:   plat,
		log:    log,
	}
}

// Run processes groups in order. Groups with a single member are not
// duplicates and are skipped. The first action error aborts the run.
func (r *Resolver) Run(groups []types.DuplicateGroup) error {
	r.log.Info("Processing groups...")

	for _, group := range groups {
		if len(group.Records) <= 1 {
			continue
		}

		sorted, err := keeper.Order(group.Records, r.policy)
		if err != nil {
			return err
		}
		keep := sorted[0]
		r.log.Infof("Group %s: Keeping %s", group.Key, keep.RelPath)

		for _, dup := range sorted[1:] {
			if err := r.resolve(keep, dup); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resolved returns the number of duplicates acted on.
func (r *Resolver) Resolved() int64 { return r.resolved }

// FreedBytes returns the total size of the duplicates acted on.
func (r *Resolver) FreedBytes() int64 { return r.freedBytes }

// resolve applies the action to one duplicate.
func (r *Resolver) resolve(keep, dup *types.FileRecord) error {
	if r.dryRun {
		r.log.Infof("  [DRY RUN] %s -> %s", dup.RelPath, r.mode)
		return nil
	}

	switch r.mode {
	case types.ModeDelete:
		if err := os.Remove(dup.Path); err != nil {
			return fmt.Errorf("removing %s: %w", dup.RelPath, err)
		}
		r.log.Infof("  Deleted %s", dup.RelPath)
	case types.ModeSymlink:
		if err := os.Remove(dup.Path); err != nil {
			return fmt.Errorf("removing %s: %w", dup.RelPath, err)
		}
		if err := r.plat.Symlink(keep.Path, dup.Path); err != nil {
			return fmt.Errorf("symlinking %s: %w", dup.RelPath, err)
		}
		r.log.Infof("  Symlinked %s", dup.RelPath)
	case types.ModeHardlink:
		if err := os.Remove(dup.Path); err != nil {
			return fmt.Errorf("removing %s: %w", dup.RelPath, err)
		}
		if err := r.plat.Hardlink(keep.Path, dup.Path); err != nil {
			return fmt.Errorf("hardlinking %s: %w", dup.RelPath, err)
		}
		r.log.Infof("  Hardlinked %s", dup.RelPath)
	default:
		return fmt.Errorf("unknown mode %s", r.mode)
	}

	r.resolved++
	r.freedBytes += dup.Size
	return nil
}
