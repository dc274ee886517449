// Package cache inspects and clears the on-disk article mirror.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/termblog/pkg/store"
)

// ErrDisabled is returned when no cache directory is configured.
var ErrDisabled = errors.New("cache: disabled, set cache.dir to enable it")

type List struct {
	Mirror *store.Mirror
	Out    io.Writer
}

func (l *List) Do(ctx context.Context) error {
	if l.Mirror == nil {
		return ErrDisabled
	}
	keys := l.Mirror.Keys(ctx)
	if len(keys) == 0 {
		_, err := fmt.Fprintf(l.Out, "no cached articles in %s\n", l.Mirror.BasePath())
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintln(l.Out, k); err != nil {
			return err
		}
	}
	return nil
}

type Purge struct {
	Mirror *store.Mirror
	Out    io.Writer
}

func (p *Purge) Do(ctx context.Context) error {
	if p.Mirror == nil {
		return ErrDisabled
	}
	n := len(p.Mirror.Keys(ctx))
	if err := p.Mirror.Purge(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.Out, "removed %d cached articles from %s\n", n, p.Mirror.BasePath())
	return err
}
