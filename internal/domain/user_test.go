package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"Administrator", RoleAdmin, false},
		{"moderator", RoleModerator, false},
		{" moder ", RoleModerator, false},
		{"user", RoleUser, false},
		{"member", RoleUser, false},
		{"root", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_StringRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleModerator, RoleUser} {
		parsed, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
		assert.True(t, r.Valid())
	}
}

func TestRole_ZeroValueIsInvalid(t *testing.T) {
	var r Role
	assert.False(t, r.Valid())
	assert.Equal(t, "unknown", r.String())
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"all parts", User{Login: "jd", LastName: "Doe", FirstName: "John", MiddleName: "Q"}, "Doe John Q"},
		{"no middle name", User{Login: "jd", LastName: "Doe", FirstName: "John"}, "Doe John"},
		{"falls back to login", User{Login: "jd"}, "jd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}

func TestUser_RoleHelpers(t *testing.T) {
	var anonymous *User
	assert.False(t, anonymous.IsAdmin())
	assert.False(t, anonymous.IsModerator())

	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleModerator}).IsAdmin())
	assert.True(t, (&User{Role: RoleModerator}).IsModerator())
}

func TestFindByAuthor(t *testing.T) {
	reviews := []*Review{
		{ID: 1, UserID: 10},
		{ID: 2, UserID: 20},
		{ID: 3, UserID: 20},
	}

	got := FindByAuthor(reviews, 20)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID, "first match wins")

	assert.Nil(t, FindByAuthor(reviews, 30))
	assert.Nil(t, FindByAuthor(nil, 10))
}

func TestBook_GenreHelpers(t *testing.T) {
	b := &Book{Genres: []Genre{{ID: 1, Name: "Poetry"}, {ID: 4, Name: "Drama"}}}

	assert.Equal(t, []int64{1, 4}, b.GenreIDs())
	assert.True(t, b.HasGenre(4))
	assert.False(t, b.HasGenre(2))
}
