package archive

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/wqkoh/reitwatch/internal/core"
)

const (
	indexPath      = "index.html"
	snapshotPrefix = "dashboards"
	snapshotLayout = "2006-01-02"
)

// Publisher writes each run's dashboard twice: the latest page at
// index.html and a dated snapshot under dashboards/. A second run on
// the same day overwrites that day's snapshot.
type Publisher struct {
	store Storage
}

// NewPublisher creates a publisher over the given storage backend.
func NewPublisher(store Storage) *Publisher {
	return &Publisher{store: store}
}

// Publish stores the rendered page and returns the snapshot path.
func (p *Publisher) Publish(ctx context.Context, generatedAt time.Time, html []byte) (string, error) {
	snapshot := snapshotPrefix + "/" + generatedAt.Format(snapshotLayout) + ".html"

	if err := p.store.Write(ctx, snapshot, html); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := p.store.Write(ctx, indexPath, html); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	return snapshot, nil
}

// History returns the dates of stored snapshots, newest first.
func (p *Publisher) History(ctx context.Context) ([]time.Time, error) {
	paths, err := p.store.List(ctx, snapshotPrefix)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	var dates []time.Time
	for _, path := range paths {
		name := strings.TrimSuffix(strings.TrimPrefix(path, snapshotPrefix+"/"), ".html")
		d, err := time.Parse(snapshotLayout, name)
		if err != nil {
			continue // unrelated file in the archive
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}

// Prune deletes snapshots beyond the newest keep entries. keep <= 0
// disables pruning.
func (p *Publisher) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	dates, err := p.History(ctx)
	if err != nil {
		return 0, err
	}
	var removed int
	for _, d := range dates[min(keep, len(dates)):] {
		path := snapshotPrefix + "/" + d.Format(snapshotLayout) + ".html"
		if err := p.store.Delete(ctx, path); err != nil {
			return removed, core.WrapError(core.ErrArchiveFailed, err)
		}
		removed++
	}
	return removed, nil
}
