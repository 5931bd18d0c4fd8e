package services

import (
	"context"
	"testing"

	"git.solsynth.dev/hypernet/asirnet/pkg/internal/auth"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/models"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store"
	"git.solsynth.dev/hypernet/asirnet/pkg/internal/store/memstore"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedDetector string

func (v fixedDetector) DetectLanguage(string) string {
	return string(v)
}

func newTestServices(set store.Set) *Services {
	return New(set, Options{
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Detector: fixedDetector("en"),
	})
}

// backends runs the test against one shared backend and against three
// separate ones.
func backends(t *testing.T, fn func(t *testing.T, set store.Set)) {
	t.Run("shared", func(t *testing.T) { fn(t, memstore.New()) })
	t.Run("split", func(t *testing.T) { fn(t, memstore.NewSplit()) })
}

func mustRegister(t *testing.T, svc *Services, name string) models.Account {
	t.Helper()
	account, err := svc.Accounts.Register(context.Background(), Registration{Name: name, Password: "pw-" + name})
	require.NoError(t, err)
	return account
}

func mustPost(t *testing.T, svc *Services, author uint, content string) models.Post {
	t.Helper()
	post, err := svc.Posts.NewPost(context.Background(), author, content)
	require.NoError(t, err)
	return post
}

func ptr[T any](v T) *T {
	return &v
}
