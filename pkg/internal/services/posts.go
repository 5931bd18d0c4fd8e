package services

import (
	"context"
	"time"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	DefaultPostTake = 20
	MaxPostTake     = 100
)

type PostService struct {
	accounts     *AccountService
	posts        store.PostStore
	interactions store.InteractionStore
	detector     LanguageDetector
	now          func() time.Time
}

type PostQuery struct {
	AuthorID *uint
	Take     int
	Offset   int
}

func (v *PostService) bind(set store.Set) *PostService {
	clone := *v
	clone.accounts = v.accounts.bind(set.Accounts)
	clone.posts = set.Posts
	clone.interactions = set.Interactions
	return &clone
}

func (v *PostService) detectLanguage(content string) string {
	if v.detector == nil {
		return ""
	}
	return v.detector.DetectLanguage(content)
}

// NewPost copies the current author snapshot onto the post.
func (v *PostService) NewPost(ctx context.Context, authorID uint, content string) (models.Post, error) {
	content, err := requireText("content", content)
	if err != nil {
		return models.Post{}, err
	}

	// Read past the cache, a stale entry would be copied onto the post.
	author, err := v.accounts.accounts.Get(ctx, authorID)
	if err != nil {
		return models.Post{}, err
	}

	snapshot := author.Snapshot()
	post := models.Post{
		Content:      content,
		Language:     v.detectLanguage(content),
		AccountID:    author.ID,
		AuthorName:   snapshot.Name,
		AuthorAvatar: snapshot.Avatar,
	}
	if err := v.posts.Create(ctx, &post); err != nil {
		return post, err
	}

	log.Debug().Uint("post", post.ID).Uint("account", author.ID).Msg("Created a new post...")
	return post, nil
}

// ListPost returns posts newest first with their interaction metric attached.
func (v *PostService) ListPost(ctx context.Context, query PostQuery) ([]models.Post, error) {
	take := query.Take
	if take <= 0 {
		take = DefaultPostTake
	}
	take = min(take, MaxPostTake)

	posts, err := v.posts.List(ctx, store.PostQuery{
		AccountID: query.AuthorID,
		Take:      take,
		Offset:    max(query.Offset, 0),
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []models.Post{}, nil
	}

	metrics, err := v.interactions.Metrics(ctx, lo.Map(posts, func(item models.Post, _ int) uint {
		return item.ID
	}))
	if err != nil {
		log.Warn().Err(err).Msg("Unable to load post metrics, listing without them...")
		return posts, nil
	}
	for idx := range posts {
		posts[idx].Metric = metrics[posts[idx].ID]
	}
	return posts, nil
}

func (v *PostService) GetPost(ctx context.Context, id uint) (models.Post, error) {
	post, err := v.posts.Get(ctx, id)
	if err != nil {
		return post, err
	}

	if metrics, err := v.interactions.Metrics(ctx, []uint{id}); err == nil {
		post.Metric = metrics[id]
	} else {
		log.Warn().Err(err).Uint("post", id).Msg("Unable to load post metric...")
	}
	return post, nil
}

// Authorize loads the post and checks that the requester wrote it.
func (v *PostService) Authorize(ctx context.Context, postID, requesterID uint) (models.Post, error) {
	post, err := v.posts.Get(ctx, postID)
	if err != nil {
		return post, err
	}
	if post.AccountID != requesterID {
		return post, ErrForbidden
	}
	return post, nil
}

func (v *PostService) EditPost(ctx context.Context, postID, requesterID uint, content string) (models.Post, error) {
	content, err := requireText("content", content)
	if err != nil {
		return models.Post{}, err
	}
	if _, err := v.Authorize(ctx, postID, requesterID); err != nil {
		return models.Post{}, err
	}

	return v.posts.UpdateContent(ctx, postID, content, v.detectLanguage(content), v.now())
}
