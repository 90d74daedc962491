package catalogclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/1":
			w.Write([]byte(`{"id":1,"name":"Widget","description":"shiny","unit_price":"499.99"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	p, err := client.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	require.NotNil(t, p.UnitPrice)
	assert.Equal(t, "499.99", p.UnitPrice.String())

	_, err = client.GetProduct(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductSnapshot(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/1":
			w.Write([]byte(`{"id":1,"name":"Widget","description":"shiny"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	snap := client.ProductSnapshot(ctx, 1)
	assert.Equal(t, "Widget", snap.Name)
	require.NotNil(t, snap.Description)
	assert.Equal(t, "shiny", *snap.Description)
	assert.Equal(t, SourceAuthoritative, snap.Source)

	// a missing product degrades to a placeholder instead of failing checkout
	snap = client.ProductSnapshot(ctx, 404)
	assert.Equal(t, "Product 404", snap.Name)
	assert.Nil(t, snap.Description)
	assert.Equal(t, SourceFallback, snap.Source)
}
