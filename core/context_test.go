package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsQuiet(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"background", context.Background(), false},
		{"quiet", WithQuiet(context.Background()), true},
		{"survives cancel wrapping", func() context.Context {
			ctx, cancel := context.WithCancel(WithQuiet(context.Background()))
			t.Cleanup(cancel)
			return ctx
		}(), true},
		{"foreign key type ignored", context.WithValue(context.Background(), struct{}{}, true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuiet(tt.ctx))
		})
	}
}

func TestQuietConcurrentReads(t *testing.T) {
	ctx := WithQuiet(context.Background())

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.True(t, isQuiet(ctx), "reader %d", id)
		}(i)
	}
	wg.Wait()
}
