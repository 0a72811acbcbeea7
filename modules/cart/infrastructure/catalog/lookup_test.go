package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodule "github.com/tabison/suppliers/modules/catalog"
)

type sourceFunc func(ctx context.Context, ids []string) (map[string]*catalogmodule.Product, error)

func (f sourceFunc) Products(ctx context.Context, ids []string) (map[string]*catalogmodule.Product, error) {
	return f(ctx, ids)
}

func TestLookup_MapsProducts(t *testing.T) {
	l := NewLookup(sourceFunc(func(ctx context.Context, ids []string) (map[string]*catalogmodule.Product, error) {
		assert.Equal(t, []string{"a", "b"}, ids)
		return map[string]*catalogmodule.Product{
			"a": {ID: "a", Name: "Nails", Price: 120, Currency: "KES", Stock: 9, Images: []string{"n.jpg"}},
		}, nil
	}))

	got, err := l.Lookup(context.Background(), []string{"b", "a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(120), got["a"].Price.Amount())
	assert.Equal(t, "n.jpg", got["a"].Image)
	assert.Equal(t, 9, got["a"].Stock)
}

func TestLookup_CollapsesConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	l := NewLookup(sourceFunc(func(ctx context.Context, ids []string) (map[string]*catalogmodule.Product, error) {
		calls.Add(1)
		<-release
		return map[string]*catalogmodule.Product{}, nil
	}))

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Lookup(context.Background(), []string{"p1"})
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
