package service

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kerdl/ktmuscrap-sub000/internal/models"
	"github.com/kerdl/ktmuscrap-sub000/internal/parse"
	"github.com/kerdl/ktmuscrap-sub000/pkg/config"
	"github.com/kerdl/ktmuscrap-sub000/pkg/jobs"
)

const groupsDoc = `<!DOCTYPE html>
<html>
<head><style>.full { background-color: #fce5cd; }</style></head>
<body>
<div class="grid-container">
<table><tbody>
<tr><td>Группа</td><td>Понедельник 01.01.24</td></tr>
<tr><td></td><td>1 8:00-9:30</td></tr>
<tr><td>1кдд69</td><td class="full">Математика Иванова А.А. 14</td></tr>
</tbody></table>
</div>
</body>
</html>`

const groupsDocChanged = `<!DOCTYPE html>
<html>
<head><style>.full { background-color: #fce5cd; }</style></head>
<body>
<div class="grid-container">
<table><tbody>
<tr><td>Группа</td><td>Понедельник 01.01.24</td></tr>
<tr><td></td><td>1 8:00-9:30</td></tr>
<tr><td>1кдд69</td><td class="full">Математика Иванова А.А. 21</td></tr>
</tbody></table>
</div>
</body>
</html>`

// zipFetcher serves an in-memory ZIP per URL.
type zipFetcher struct {
	archives map[string][]byte
}

func (f *zipFetcher) Archive(_ context.Context, url string) ([]byte, error) {
	return f.archives[url], nil
}

func zipWithDoc(t *testing.T, name, doc string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entry, err := w.Create(name)
	require.NoError(t, err)
	_, err = entry.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func newUpdateService(t *testing.T, fetcher Fetcher) (*UpdateService, *SnapshotService) {
	t.Helper()

	return newUpdateServiceWith(t, fetcher, config.SourcesConfig{
		GroupsURL: "mem://groups",
		TempDir:   t.TempDir(),
	}, nil)
}

func newUpdateServiceWith(t *testing.T, fetcher Fetcher, sources config.SourcesConfig, purge *jobs.Queue) (*UpdateService, *SnapshotService) {
	t.Helper()

	classifier := parse.FormatClassifier{
		Fulltime:    models.MustParseColor("#fce5cd"),
		Remote:      models.MustParseColor("#c9daf8"),
		MaxDistance: 50,
	}
	mapper := parse.NewMapper(parse.NewPatterns(), classifier, 0.6, zap.NewNop()).
		WithNow(func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) })

	snapshots := NewSnapshotService(newMemStore(), nil, nil, zap.NewNop())
	hub := NewHubService(time.Minute, 4, nil, zap.NewNop())

	svc := NewUpdateService(sources, time.Hour, fetcher, mapper, snapshots, hub, nil, purge, zap.NewNop())
	return svc, snapshots
}

func TestTriggerParsesAndPublishes(t *testing.T) {
	fetcher := &zipFetcher{archives: map[string][]byte{
		"mem://groups": zipWithDoc(t, "schedule.html", groupsDoc),
	}}
	svc, snapshots := newUpdateService(t, fetcher)

	notify, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)
	require.True(t, notify.HasChanges())
	require.NotNil(t, notify.Groups)
	assert.Nil(t, notify.Teachers)

	page := snapshots.Groups()
	require.NotNil(t, page)
	require.Len(t, page.Formations, 1)
	assert.Equal(t, "1КДД69", page.Formations[0].Name)

	day := page.Formations[0].Days[0]
	require.Len(t, day.Subjects, 1)
	assert.Equal(t, "Математика", day.Subjects[0].Name)
	assert.Equal(t, models.FormatFulltime, day.Subjects[0].Format)

	assert.Same(t, notify, snapshots.LastNotify())
}

func TestTriggerIdempotentWithoutChanges(t *testing.T) {
	fetcher := &zipFetcher{archives: map[string][]byte{
		"mem://groups": zipWithDoc(t, "schedule.html", groupsDoc),
	}}
	svc, snapshots := newUpdateService(t, fetcher)

	first, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)
	require.True(t, first.HasChanges())

	second, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, second.HasChanges())

	// The stored notification still points at the last real change.
	assert.Same(t, first, snapshots.LastNotify())
}

func TestTriggerDetectsCabinetChange(t *testing.T) {
	fetcher := &zipFetcher{archives: map[string][]byte{
		"mem://groups": zipWithDoc(t, "schedule.html", groupsDoc),
	}}
	svc, _ := newUpdateService(t, fetcher)

	_, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)

	fetcher.archives["mem://groups"] = zipWithDoc(t, "schedule.html", groupsDocChanged)

	notify, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)
	require.True(t, notify.HasChanges())
	require.NotNil(t, notify.Groups)
	require.Len(t, notify.Groups.Changed, 1)

	subjDiff := notify.Groups.Changed[0].Changed[0].Changed[0]
	require.NotNil(t, subjDiff.Attenders)
	require.Len(t, subjDiff.Attenders.Changed, 1)
	assert.Equal(t, "21", subjDiff.Attenders.Changed[0].Cabinet.Primary)
}

const olderGroupsDoc = `<!DOCTYPE html><html><body><div class="grid-container"><table><tbody>
<tr><td>Группа</td><td>Понедельник 25.12.23</td></tr>
<tr><td></td><td>1 8:00-9:30</td></tr>
<tr><td>1кдд69</td><td>История</td></tr>
</tbody></table></div></body></html>`

func zipWithDocs(t *testing.T, docs map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, doc := range docs {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(doc))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestTriggerPicksLatestDocument(t *testing.T) {
	fetcher := &zipFetcher{archives: map[string][]byte{
		"mem://groups": zipWithDocs(t, map[string]string{
			"old.html": olderGroupsDoc,
			"new.html": groupsDoc,
		}),
	}}
	svc, snapshots := newUpdateService(t, fetcher)

	_, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)

	page := snapshots.Groups()
	require.NotNil(t, page)
	assert.True(t, page.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTriggerSkipsBrokenSource(t *testing.T) {
	fetcher := &zipFetcher{archives: map[string][]byte{
		"mem://groups":   zipWithDoc(t, "schedule.html", groupsDoc),
		"mem://teachers": []byte("not a zip archive"),
	}}
	svc, snapshots := newUpdateServiceWith(t, fetcher, config.SourcesConfig{
		GroupsURL:   "mem://groups",
		TeachersURL: "mem://teachers",
		TempDir:     t.TempDir(),
	}, nil)

	notify, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, notify.Groups)
	assert.Nil(t, notify.Teachers)

	// The healthy source still lands in the snapshot.
	page := snapshots.Groups()
	require.NotNil(t, page)
	require.Len(t, page.Formations, 1)
	assert.Nil(t, snapshots.Teachers())
}

func TestTriggerPurgesOlderDocuments(t *testing.T) {
	fetcher := &zipFetcher{archives: map[string][]byte{
		"mem://groups": zipWithDocs(t, map[string]string{
			"old.html": olderGroupsDoc,
			"new.html": groupsDoc,
		}),
	}}

	purge := NewPurgeQueue(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	purge.Start(ctx)
	defer purge.Stop()

	tempDir := t.TempDir()
	svc, _ := newUpdateServiceWith(t, fetcher, config.SourcesConfig{
		GroupsURL: "mem://groups",
		TempDir:   tempDir,
	}, purge)

	_, err := svc.Trigger(context.Background(), "")
	require.NoError(t, err)

	dropped := filepath.Join(tempDir, "groups", "old.html")
	require.Eventually(t, func() bool {
		_, err := os.Stat(dropped)
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)

	// The selected document survives until the next unpack.
	_, err = os.Stat(filepath.Join(tempDir, "groups", "new.html"))
	assert.NoError(t, err)
}
