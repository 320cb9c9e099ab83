package zipdoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_RenderAll(t *testing.T) {
	tmpl := newTestTemplate(t, map[string]string{
		"a.xml": "Dear $name",
		"b.xml": "unchanged",
	}, "a.xml")

	contexts := make([]merge.Context, 20)
	for i := range contexts {
		contexts[i] = merge.Context{"name": fmt.Sprintf("customer %d", i)}
	}

	docs, err := tmpl.RenderAll(context.Background(), contexts, 4)
	require.NoError(t, err)
	require.Len(t, docs, len(contexts))

	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("Dear customer %d", i), entryString(t, doc.Document, "a.xml"))
		assert.Equal(t, "unchanged", entryString(t, doc.Document, "b.xml"))
	}
}

func TestTemplate_RenderAllEmpty(t *testing.T) {
	tmpl := newTestTemplate(t, map[string]string{"a.xml": "x"}, "a.xml")

	docs, err := tmpl.RenderAll(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestTemplate_RenderAllRespectsParallelism(t *testing.T) {
	var running, peak int32
	engine := merge.EngineFunc(func(ctx merge.Context, src io.Reader, dst io.Writer) error {
		n := atomic.AddInt32(&running, 1)
		defer atomic.AddInt32(&running, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		_, err := io.Copy(dst, src)
		return err
	})
	tmpl, err := NewTemplate(newTestDocument(t, map[string]string{"a.xml": "x"}), "a.xml", engine)
	require.NoError(t, err)

	contexts := make([]merge.Context, 12)
	for i := range contexts {
		contexts[i] = merge.Context{}
	}

	_, err = tmpl.RenderAll(context.Background(), contexts, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestTemplate_RenderAllFirstErrorWins(t *testing.T) {
	errBoom := errors.New("boom")
	engine := merge.EngineFunc(func(ctx merge.Context, src io.Reader, dst io.Writer) error {
		if ctx["fail"] == true {
			return errBoom
		}
		_, err := io.Copy(dst, src)
		return err
	})
	tmpl, err := NewTemplate(newTestDocument(t, map[string]string{"a.xml": "x"}), "a.xml", engine)
	require.NoError(t, err)

	contexts := []merge.Context{{}, {"fail": true}, {}}
	docs, err := tmpl.RenderAll(context.Background(), contexts, 1)
	assert.Nil(t, docs)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	var ctxErr *ContextError
	require.True(t, errors.As(err, &ctxErr))
	assert.Equal(t, 1, ctxErr.Context["index"])
}

func TestTemplate_RenderAllCanceled(t *testing.T) {
	tmpl := newTestTemplate(t, map[string]string{"a.xml": "x"}, "a.xml")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tmpl.RenderAll(ctx, []merge.Context{{}, {}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
