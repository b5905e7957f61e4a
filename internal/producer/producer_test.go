package producer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/hydr0-downloader/internal/ledger"
	"github.com/handiism/hydr0-downloader/internal/logging"
	"github.com/handiism/hydr0-downloader/internal/model"
	"github.com/handiism/hydr0-downloader/internal/operator"
	"github.com/handiism/hydr0-downloader/internal/resolve"
)

// fakeResolver answers from a map keyed by mode and query.
type fakeResolver struct {
	results map[resolve.Mode]map[string][]model.Track
	calls   []string
}

func (r *fakeResolver) Resolve(_ context.Context, query string, mode resolve.Mode) ([]model.Track, error) {
	r.calls = append(r.calls, mode.String()+":"+query)
	tracks, ok := r.results[mode][query]
	if !ok {
		return nil, resolve.ErrNoResults
	}
	return tracks, nil
}

// scriptedOperator returns the answers in order.
type scriptedOperator struct {
	answers []operator.Selection
	queries []string
	err     error
}

func (o *scriptedOperator) Select(_ context.Context, query string, _ []model.Track) (operator.Selection, error) {
	o.queries = append(o.queries, query)
	if o.err != nil {
		return operator.Selection{}, o.err
	}
	sel := o.answers[0]
	o.answers = o.answers[1:]
	return sel, nil
}

type memRecorder struct {
	unresolved []string
	selected   []string
}

func (r *memRecorder) RecordUnresolvedQuery(query string) error {
	r.unresolved = append(r.unresolved, query)
	return nil
}

func (r *memRecorder) RecordSelectedURL(track model.Track) error {
	r.selected = append(r.selected, track.SourceURL)
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collect(t *testing.T, p interface {
	Produce(context.Context, func(model.Track)) error
}) ([]model.Track, error) {
	t.Helper()
	var got []model.Track
	err := p.Produce(context.Background(), func(track model.Track) {
		got = append(got, track)
	})
	return got, err
}

var (
	songOne     = model.NewTrack(0, "Foo", "Song One", "3:00", "http://x/a.mp3")
	songOneLive = model.NewTrack(1, "Foo", "Song One (Live)", "4:12", "http://x/b.mp3")
	artistSong  = model.NewTrack(0, "Bar", "Hit", "2:00", "http://x/c.mp3")
)

func TestQueries_Produce(t *testing.T) {
	resolver := &fakeResolver{results: map[resolve.Mode]map[string][]model.Track{
		resolve.ModeNormal: {
			"Foo - Song One": {songOne, songOneLive},
			"Skipped":        {songOne},
		},
		resolve.ModeAlternate: {
			"Bar": {artistSong},
		},
	}}
	op := &scriptedOperator{answers: []operator.Selection{
		{Indices: []int{1, 0}},
		{Skip: true},
		{Indices: []int{0}},
	}}
	rec := &memRecorder{}
	path := writeFile(t, "Foo - Song One\n\nSkipped\nNowhere\nBar\n")

	got, err := collect(t, NewQueries(path, resolver, op, rec, logging.Discard()))
	require.NoError(t, err)

	assert.Equal(t, []model.Track{songOneLive, songOne, artistSong}, got)
	assert.Equal(t, []string{"Foo - Song One", "Skipped", "Bar"}, op.queries)
	assert.Equal(t, []string{"Skipped", "Nowhere"}, rec.unresolved)
	assert.Equal(t, []string{"http://x/b.mp3", "http://x/a.mp3", "http://x/c.mp3"}, rec.selected)
	assert.Equal(t, []string{
		"normal:Foo - Song One",
		"normal:Skipped",
		"normal:Nowhere", "alternate:Nowhere",
		"normal:Bar", "alternate:Bar",
	}, resolver.calls)
}

func TestQueries_UnresolvedExactlyOnce(t *testing.T) {
	resolver := &fakeResolver{}
	op := &scriptedOperator{}
	rec := &memRecorder{}
	path := writeFile(t, "Nothing Here\n")

	got, err := collect(t, NewQueries(path, resolver, op, rec, logging.Discard()))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, op.queries, "operator must not be asked without candidates")
	assert.Equal(t, []string{"Nothing Here"}, rec.unresolved)
}

func TestQueries_OperatorError(t *testing.T) {
	resolver := &fakeResolver{results: map[resolve.Mode]map[string][]model.Track{
		resolve.ModeNormal: {"q": {songOne}},
	}}
	boom := errors.New("terminal gone")
	path := writeFile(t, "q\nq\n")

	op := &scriptedOperator{err: boom}
	_, err := collect(t, NewQueries(path, resolver, op, &memRecorder{}, logging.Discard()))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, op.queries, 1)
}

func TestQueries_MissingFile(t *testing.T) {
	p := NewQueries(filepath.Join(t.TempDir(), "nope.txt"), &fakeResolver{}, &scriptedOperator{}, &memRecorder{}, logging.Discard())
	_, err := collect(t, p)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestQueries_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewQueries(writeFile(t, "q\n"), &fakeResolver{}, &scriptedOperator{}, &memRecorder{}, logging.Discard())

	err := p.Produce(ctx, func(model.Track) { t.Fatal("emit after cancel") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLedgerFile_Produce(t *testing.T) {
	path := writeFile(t, "Foo - Song One\t3:00\thttp://x/a.mp3\n"+
		"garbage line\n"+
		"\n"+
		"\"Bar - Hit\"\t\"2:00\"\t\"http://x/c.mp3\"\n")

	got, err := collect(t, NewLedgerFile(path, logging.Discard()))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Foo - Song One\t3:00\thttp://x/a.mp3", got[0].LedgerLine())
	assert.Equal(t, "Bar - Hit\t2:00\thttp://x/c.mp3", got[1].LedgerLine())
	assert.Equal(t, 1, got[1].ID)
}

func TestLedgerFile_RefeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	led := ledger.New(dir, ledger.DefaultNames())
	for _, track := range []model.Track{songOne, songOneLive, artistSong} {
		require.NoError(t, led.RecordResolved(track))
	}

	first, err := collect(t, NewLedgerFile(led.Resolved.Path(), logging.Discard()))
	require.NoError(t, err)

	again := ledger.New(t.TempDir(), ledger.DefaultNames())
	for _, track := range first {
		require.NoError(t, again.RecordResolved(track))
	}
	second, err := collect(t, NewLedgerFile(again.Resolved.Path(), logging.Discard()))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	want, err := os.ReadFile(led.Resolved.Path())
	require.NoError(t, err)
	gotBytes, err := os.ReadFile(again.Resolved.Path())
	require.NoError(t, err)
	assert.Equal(t, string(want), string(gotBytes))
}

func TestQueries_UnresolvedQueryKeptVerbatim(t *testing.T) {
	rec := &memRecorder{}
	path := writeFile(t, "  Nothing  Here \r\n   \r\nTabbed\tquery\n")

	_, err := collect(t, NewQueries(path, &fakeResolver{}, &scriptedOperator{}, rec, logging.Discard()))
	require.NoError(t, err)
	assert.Equal(t, []string{"  Nothing  Here ", "Tabbed\tquery"}, rec.unresolved)
}
