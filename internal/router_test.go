package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) *chiResolver {
	t.Helper()
	return newChiResolver(
		[]*Rule{
			{Pattern: "/", Endpoint: "index", Methods: []string{"GET"}},
			{Pattern: "/user/{id}", Endpoint: "user.show", Methods: []string{"get", "delete"}},
			{Pattern: "/submit", Endpoint: "submit", Methods: []string{"POST"}},
		},
		[]redirectRule{
			{Pattern: "/old", Location: "/new", Code: 301},
		},
	)
}

func TestChiResolver(t *testing.T) {
	t.Parallel()

	t.Run("matches a rule", func(t *testing.T) {
		t.Parallel()

		res := testResolver(t).Resolve("GET", "example.com", "/", "")
		require.NotNil(t, res.Rule)
		require.Equal(t, "index", res.Rule.Endpoint)
		require.Empty(t, res.Args)
		require.Nil(t, res.Redirect)
		require.Nil(t, res.Err)
	})

	t.Run("extracts url parameters", func(t *testing.T) {
		t.Parallel()

		res := testResolver(t).Resolve("GET", "example.com", "/user/42", "tab=posts")
		require.NotNil(t, res.Rule)
		require.Equal(t, "user.show", res.Rule.Endpoint)
		require.Equal(t, ViewArgs{"id": "42"}, res.Args)
	})

	t.Run("method is case-insensitive", func(t *testing.T) {
		t.Parallel()

		res := testResolver(t).Resolve("delete", "example.com", "/user/42", "")
		require.NotNil(t, res.Rule)
	})

	t.Run("unknown path is not found", func(t *testing.T) {
		t.Parallel()

		res := testResolver(t).Resolve("GET", "example.com", "/missing", "")
		require.NotNil(t, res.Err)
		require.Equal(t, 404, res.Err.Code)
	})

	t.Run("wrong method is method not allowed", func(t *testing.T) {
		t.Parallel()

		res := testResolver(t).Resolve("GET", "example.com", "/submit", "")
		require.NotNil(t, res.Err)
		require.Equal(t, 405, res.Err.Code)
	})

	t.Run("redirect rule resolves to a redirect", func(t *testing.T) {
		t.Parallel()

		res := testResolver(t).Resolve("GET", "example.com", "/old", "")
		require.NotNil(t, res.Redirect)
		require.Equal(t, "/new", res.Redirect.Location)
		require.Equal(t, 301, res.Redirect.Code)
	})
}
