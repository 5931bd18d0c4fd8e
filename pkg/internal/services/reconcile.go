package services

import (
	"context"
	"errors"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type ReconcileReport struct {
	StaleSnapshots     int64 `json:"stale_snapshots"`
	OrphanPosts        int64 `json:"orphan_posts"`
	OrphanInteractions int64 `json:"orphan_interactions"`
}

// Reconcile repairs what a partially applied operation leaves behind: stale
// author snapshots, posts of deleted accounts and interactions of deleted posts.
func (v *Coordinator) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport

	authors, err := v.set.Posts.ListAuthorIDs(ctx)
	if err != nil {
		return report, err
	}
	for _, authorID := range authors {
		account, err := v.set.Accounts.Get(ctx, authorID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			postIDs, err := v.set.Posts.ListIDsByAuthor(ctx, authorID)
			if err != nil {
				return report, err
			}
			count, err := v.set.Posts.DeleteAllByAuthor(ctx, authorID)
			if err != nil {
				return report, err
			}
			report.OrphanPosts += count
			count, err = v.set.Interactions.DeleteAllByPosts(ctx, postIDs)
			if err != nil {
				return report, err
			}
			report.OrphanInteractions += count
		case err != nil:
			return report, err
		default:
			count, err := v.set.Posts.UpdateAuthorSnapshot(ctx, authorID, account.Snapshot())
			if err != nil {
				return report, err
			}
			report.StaleSnapshots += count
		}
	}

	referenced, err := v.set.Interactions.ListPostIDs(ctx)
	if err != nil {
		return report, err
	}
	if len(referenced) > 0 {
		present, err := v.set.Posts.Exists(ctx, referenced)
		if err != nil {
			return report, err
		}
		count, err := v.set.Interactions.DeleteAllByPosts(ctx, lo.Without(referenced, present...))
		if err != nil {
			return report, err
		}
		report.OrphanInteractions += count
	}

	return report, nil
}

func (v *Coordinator) ReconcileTimedTask() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Debug().Msg("Start reconciling denormalized data...")
	report, err := v.Reconcile(ctx)
	if err != nil {
		log.Error().Err(err).Msg("An error occurred when reconciling denormalized data...")
		return
	}
	log.Info().
		Int64("snapshots", report.StaleSnapshots).
		Int64("posts", report.OrphanPosts).
		Int64("interactions", report.OrphanInteractions).
		Msg("Reconciled denormalized data.")
}
