package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdminAllowlistMode(t *testing.T) {
	c := NewClient("", []string{"admin-1", "admin-2"})

	ok, err := c.IsAdmin(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsAdmin(context.Background(), "merchant-9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAdminEmptyUserID(t *testing.T) {
	c := NewClient("http://directory.invalid", nil)
	ok, err := c.IsAdmin(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAdminFromDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/users/admin-1/role":
			w.Write([]byte(`{"is_admin": true}`))
		case "/api/v1/users/user-2/role":
			w.Write([]byte(`{"is_admin": false}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	ok, err := c.IsAdmin(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsAdmin(context.Background(), "user-2")
	require.NoError(t, err)
	assert.False(t, ok)

	// unknown users are a plain denial, not an error
	ok, err = c.IsAdmin(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAdminDirectoryErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ok, err := c.IsAdmin(context.Background(), "admin-1")
	assert.Error(t, err)
	assert.False(t, ok)

	srv.Close()
	ok, err = c.IsAdmin(context.Background(), "admin-1")
	assert.Error(t, err)
	assert.False(t, ok)
}
