package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Fields()
}

func TestCatalogService_Create(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	g := env.genres(t, "Drama", "Poetry")

	book, err := env.catalog.Create(ctx, admin, bookRequest("Dubliners", 1914, g...))
	require.NoError(t, err)
	require.NotZero(t, book.ID)

	got, err := env.catalog.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dubliners", got.Title)
	assert.Len(t, got.Genres, 2)
}

func TestCatalogService_Create_RequiresAdmin(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	g := env.genres(t, "Drama")

	for _, role := range []domain.Role{domain.RoleModerator, domain.RoleUser} {
		actor := env.user(t, role.String(), "pw", role)
		_, err := env.catalog.Create(ctx, actor, bookRequest("Nope", 2000, g...))
		assert.ErrorIs(t, err, domainerrors.ErrForbidden, role.String())
	}

	_, err := env.catalog.Create(ctx, nil, bookRequest("Nope", 2000, g...))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	n, err := env.store.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCatalogService_Create_YearBounds(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	g := env.genres(t, "Drama")

	tests := []struct {
		year  int
		valid bool
	}{
		{1900, false},
		{1901, true},
		{2155, true},
		{2156, false},
	}

	for _, tt := range tests {
		_, err := env.catalog.Create(ctx, admin, bookRequest("Year", tt.year, g...))
		if tt.valid {
			assert.NoError(t, err, "year %d", tt.year)
			continue
		}
		require.ErrorIs(t, err, domainerrors.ErrValidation, "year %d", tt.year)
		assert.Equal(t, "must be between 1901 and 2155", fieldErrors(t, err)["year"])
	}
}

func TestCatalogService_Create_YearParseError(t *testing.T) {
	env := setupServices(t)
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	g := env.genres(t, "Drama")

	req := bookRequest("Year", 0, g...)
	req.ParseErrors = map[string]string{"year": "must be an integer"}

	_, err := env.catalog.Create(context.Background(), admin, req)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, "must be an integer", fieldErrors(t, err)["year"])
}

func TestCatalogService_Create_RequiresGenre(t *testing.T) {
	env := setupServices(t)
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)

	_, err := env.catalog.Create(context.Background(), admin, bookRequest("Genreless", 2000))
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, "select at least one genre", fieldErrors(t, err)["genre_ids"])
}

func TestCatalogService_Create_RejectsScript(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	g := env.genres(t, "Drama")

	req := bookRequest("Injected", 2000, g...)
	req.Description = "Nice book <script>alert('x')</script>"

	_, err := env.catalog.Create(ctx, admin, req)
	require.ErrorIs(t, err, domainerrors.ErrRejectedContent)
	assert.Equal(t, MsgRejectedMarkup, fieldErrors(t, err)["description"])

	n, err := env.store.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected book must not be stored")
}

func TestCatalogService_Create_UnknownGenreLeavesNothing(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	g := env.genres(t, "Drama")

	_, err := env.catalog.Create(ctx, admin, bookRequest("Partial", 2000, g[0], 4242))
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, fieldErrors(t, err), "genre_ids")

	n, err := env.store.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCatalogService_Update_ReplacesGenres(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	moder := env.user(t, "moder", "pw", domain.RoleModerator)
	g := env.genres(t, "A", "B", "C")

	book, err := env.catalog.Create(ctx, admin, bookRequest("Shifting", 2000, g[0], g[1]))
	require.NoError(t, err)

	_, err = env.catalog.Update(ctx, moder, book.ID, bookRequest("Shifted", 2001, g[1], g[2]))
	require.NoError(t, err)

	got, err := env.catalog.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shifted", got.Title)
	assert.Equal(t, []int64{g[1], g[2]}, got.GenreIDs())
}

func TestCatalogService_Update_Errors(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	reader := env.user(t, "reader", "pw", domain.RoleUser)
	g := env.genres(t, "A")

	book, err := env.catalog.Create(ctx, admin, bookRequest("Stable", 2000, g...))
	require.NoError(t, err)

	_, err = env.catalog.Update(ctx, reader, book.ID, bookRequest("Hijack", 2000, g...))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.catalog.Update(ctx, admin, 999, bookRequest("Ghost", 2000, g...))
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Equal(t, MsgBookNotFound, err.Error())
}

func TestCatalogService_Delete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	moder := env.user(t, "moder", "pw", domain.RoleModerator)
	g := env.genres(t, "A")

	book, err := env.catalog.Create(ctx, admin, bookRequest("Doomed", 2000, g...))
	require.NoError(t, err)

	assert.ErrorIs(t, env.catalog.Delete(ctx, moder, book.ID), domainerrors.ErrForbidden)
	_, err = env.catalog.Get(ctx, book.ID)
	require.NoError(t, err, "moderator delete must leave the book")

	require.NoError(t, env.catalog.Delete(ctx, admin, book.ID))
	_, err = env.catalog.Get(ctx, book.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCatalogService_List(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	g := env.genres(t, "A")

	for _, year := range []int{1990, 2010, 2000, 1980} {
		_, err := env.catalog.Create(ctx, admin, bookRequest("Book", year, g...))
		require.NoError(t, err)
	}

	listing, err := env.catalog.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Page.PageCount)
	require.Len(t, listing.Books, 3)
	assert.Equal(t, 2010, listing.Books[0].Year)
	assert.Equal(t, []int{1, 2}, listing.Page.Window())

	listing, err = env.catalog.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listing.Books, 1)
	assert.Equal(t, 1980, listing.Books[0].Year)

	listing, err = env.catalog.List(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, listing.Books)
}

func TestCatalogService_View(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	admin := env.user(t, "admin", "pw", domain.RoleAdmin)
	reader := env.user(t, "reader", "pw", domain.RoleUser)
	g := env.genres(t, "A")

	book, err := env.catalog.Create(ctx, admin, bookRequest("Viewed", 2000, g...))
	require.NoError(t, err)

	_, err = env.reviews.Create(ctx, reader, book.ID, reviewRequest(4, "Loved *it*"))
	require.NoError(t, err)

	view, err := env.catalog.View(ctx, book.ID, reader)
	require.NoError(t, err)
	assert.Contains(t, string(view.Description), "<strong>fine</strong>")
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "reader", view.Reviews[0].UserLogin)
	assert.True(t, strings.Contains(string(view.Reviews[0].HTML), "<em>it</em>"))
	require.NotNil(t, view.OwnReview)
	assert.Equal(t, 4, view.OwnReview.Rating)

	anon, err := env.catalog.View(ctx, book.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, anon.OwnReview)

	_, err = env.catalog.View(ctx, 999, nil)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
