// Package handler implements the user-facing actions over the catalog.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mateconpizza/llyfrau/internal/db"
	"github.com/mateconpizza/llyfrau/internal/sys"
)

var ErrOpenDispatch = errors.New("dispatching link")

// Open loads the link, records the visit and hands the resolved URL to o.
//
// The visit is committed before dispatching and stays recorded when o fails.
func Open(ctx context.Context, r *db.SQLite, id int64, o sys.Opener) (string, error) {
	l, err := r.LinkByID(ctx, id)
	if err != nil {
		return "", err
	}

	u, err := r.ResolveURL(ctx, l)
	if err != nil {
		return "", err
	}

	if err := r.AddVisit(ctx, l.ID); err != nil {
		return "", fmt.Errorf("recording visit: %w", err)
	}

	slog.Info("opening link", "id", l.ID, "url", u)

	if err := o.Open(u); err != nil {
		return u, fmt.Errorf("%w %d: %w", ErrOpenDispatch, l.ID, err)
	}

	return u, nil
}
