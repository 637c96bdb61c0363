// Package browse implements the address-space discovery pass that runs once
// at startup and produces the bridge's variable index.
package browse

import (
	"context"

	"github.com/c360/uabridge/errors"
	"github.com/c360/uabridge/session"
)

// DiscoverVariables walks the address space depth-first from rootID and
// returns every reachable variable node id in discovery order, each exactly
// once. Containers are recursed into, variables are collected, every other
// node class is skipped. A visited set over container ids guarantees
// termination even when the server exposes a cyclic container graph.
//
// Any browse failure aborts the whole pass; a partial index is never
// returned.
func DiscoverVariables(ctx context.Context, sess session.Session, rootID string) ([]string, error) {
	w := &walker{
		sess:    sess,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		ids:     []string{},
	}
	if err := w.walk(ctx, rootID); err != nil {
		return nil, err
	}
	return w.ids, nil
}

type walker struct {
	sess    session.Session
	visited map[string]bool // containers already browsed
	seen    map[string]bool // variable ids already collected
	ids     []string
}

func (w *walker) walk(ctx context.Context, nodeID string) error {
	if w.visited[nodeID] {
		return nil
	}
	w.visited[nodeID] = true

	refs, err := w.sess.Browse(ctx, nodeID)
	if err != nil {
		return errors.WrapFatal(err, "Walker", "walk", "browse "+nodeID)
	}

	for _, ref := range refs {
		switch ref.Class {
		case session.ClassContainer:
			if err := w.walk(ctx, ref.ID); err != nil {
				return err
			}
		case session.ClassVariable:
			if !w.seen[ref.ID] {
				w.seen[ref.ID] = true
				w.ids = append(w.ids, ref.ID)
			}
		default:
			// methods, types, views: neither traversed nor collected
		}
	}
	return nil
}
