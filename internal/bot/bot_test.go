package bot

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/game"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/store"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/thread"
)

const testThread = 42

type sentReply struct {
	text   string
	parent *uint64
}

// fakeThread is an in-memory thread.Client with failure switches.
type fakeThread struct {
	mu         sync.Mutex
	count      uint64
	posts      []thread.Post
	replies    []sentReply
	appreciate map[uint64]int32

	failFetch      bool
	failReply      bool
	failAppreciate bool
	ignoreCursor   bool // FetchSince returns the whole page regardless of after
}

func newFakeThread(posts ...thread.Post) *fakeThread {
	return &fakeThread{posts: posts, appreciate: map[uint64]int32{}}
}

func (f *fakeThread) ReplyCount(ctx context.Context, id uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count, nil
}

func (f *fakeThread) FetchSince(ctx context.Context, id, after uint64, limit int) ([]thread.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch {
		return nil, errors.New("unavailable")
	}
	var out []thread.Post
	for _, p := range f.posts {
		if (f.ignoreCursor || p.Floor > after) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeThread) Reply(ctx context.Context, id uint64, text string, parent *uint64) (thread.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReply {
		return thread.Post{}, errors.New("rate limited")
	}
	f.replies = append(f.replies, sentReply{text: text, parent: parent})
	return thread.Post{ID: 1000 + uint64(len(f.replies))}, nil
}

func (f *fakeThread) Appreciate(ctx context.Context, postID uint64, amount int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppreciate {
		return errors.New("no balance")
	}
	f.appreciate[postID] += amount
	return nil
}

// failingArchive rejects every write.
type failingArchive struct {
	store.Store
	attempts int
}

func (f *failingArchive) Record(ctx context.Context, g store.Game) error {
	f.attempts++
	return errors.New("disk full")
}

type stubDict struct{ target string }

func (d stubDict) IsValidGuess(w string) bool { return w != "zzzzz" }
func (d stubDict) DailyAnswer(seed string) string { return d.target }

func fixedClock() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }

func newTestBot(c thread.Client, opts ...Option) *Bot {
	sess := game.NewSession(stubDict{target: "crane"}, game.WithClock(fixedClock))
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return New(c, sess, Config{ThreadID: testThread, PageSize: 19, Reward: 1}, opts...)
}

func post(floor uint64, author, content string) thread.Post {
	return thread.Post{ID: 500 + floor, Floor: floor, Author: author, Content: content}
}

func TestInitStartsAtReplyCount(t *testing.T) {
	c := newFakeThread(post(3, "alice", "/start"), post(4, "bob", "/start"))
	c.count = 3
	b := newTestBot(c)

	require.NoError(t, b.Init(context.Background()))
	assert.Equal(t, uint64(3), b.Cursor())

	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, uint64(4), b.Cursor())
	require.Len(t, c.replies, 1, "the post at the initial floor is history")
	assert.Equal(t, game.InProgress, b.Snapshot().Game.State)
}

func TestWinningGame(t *testing.T) {
	c := newFakeThread(
		post(1, "alice", "/start"),
		post(2, "bob", "hello there"),
		post(3, "bob", "/guess crate"),
		post(4, "carol", "/guess CRANE"),
	)
	arch := store.NewMemoryStore()
	m := NewMetrics(nil)
	b := newTestBot(c, WithArchive(arch), WithMetrics(m))

	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, uint64(4), b.Cursor())

	require.Len(t, c.replies, 3, "chatter gets no reply")
	assert.Contains(t, c.replies[1].text, "🟩🟩🟩⬛🟩")
	assert.Contains(t, c.replies[2].text, "Congratulations @carol")
	assert.Nil(t, c.replies[2].parent)

	assert.Equal(t, map[uint64]int32{504: 1}, c.appreciate)

	snap := b.Snapshot()
	assert.Equal(t, game.Finished, snap.Game.State)
	assert.Equal(t, game.Win, snap.Game.Outcome)
	assert.Equal(t, uint64(4), snap.Cursor)

	games, err := arch.Recent(context.Background(), testThread, 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "carol", games[0].Winner)
	assert.Equal(t, uint64(504), games[0].WinnerPost)
	assert.Equal(t, 2, games[0].Tries)
	assert.Equal(t, "won", games[0].Outcome)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.PostsProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("won")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Replies.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Appreciations.WithLabelValues("ok")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Cursor))
}

func TestLosingGameHasNoAppreciation(t *testing.T) {
	posts := []thread.Post{post(1, "alice", "/start")}
	for i := uint64(2); i <= 7; i++ {
		posts = append(posts, post(i, "bob", "/guess slate"))
	}
	c := newFakeThread(posts...)
	b := newTestBot(c)

	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, game.Lose, b.Snapshot().Game.Outcome)
	assert.Empty(t, c.appreciate)
	assert.Contains(t, c.replies[len(c.replies)-1].text, "Game over")
}

func TestCursorAdvancesWhenReplyFails(t *testing.T) {
	c := newFakeThread(post(1, "alice", "/start"), post(2, "bob", "/guess crate"))
	c.failReply = true
	m := NewMetrics(nil)
	b := newTestBot(c, WithMetrics(m))

	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, uint64(2), b.Cursor())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Replies.WithLabelValues("failed")))
	assert.Equal(t, 1, b.Snapshot().Game.Round)
	assert.Len(t, b.Snapshot().Game.History, 1)

	// Nothing is retried.
	c.failReply = false
	require.NoError(t, b.Tick(context.Background()))
	assert.Empty(t, c.replies)
}

func TestFetchFailureSkipsTick(t *testing.T) {
	c := newFakeThread(post(1, "alice", "/start"))
	c.failFetch = true
	m := NewMetrics(nil)
	b := newTestBot(c, WithMetrics(m))

	require.Error(t, b.Tick(context.Background()))
	assert.Equal(t, uint64(0), b.Cursor())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))

	c.failFetch = false
	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, uint64(1), b.Cursor())
	assert.Len(t, c.replies, 1)
}

func TestRedeliveredPostsAreIgnored(t *testing.T) {
	c := newFakeThread(post(1, "alice", "/start"), post(2, "bob", "/guess crate"))
	c.ignoreCursor = true
	b := newTestBot(c)

	require.NoError(t, b.Tick(context.Background()))
	require.NoError(t, b.Tick(context.Background()))
	assert.Len(t, c.replies, 2)
	assert.Len(t, b.Snapshot().Game.History, 1)
}

func TestReplayIsDeterministic(t *testing.T) {
	page := []thread.Post{
		post(1, "alice", "/start"),
		post(2, "bob", "/guess crate"),
		post(3, "bob", "/guess zzzzz"),
		post(4, "carol", "/start"),
		post(5, "dave", "/guess slate"),
	}
	run := func() (uint64, game.View, []sentReply) {
		c := newFakeThread(page...)
		b := newTestBot(c)
		require.NoError(t, b.Tick(context.Background()))
		v := b.Snapshot().Game
		v.ID = ""
		return b.Cursor(), v, c.replies
	}
	cur1, v1, r1 := run()
	cur2, v2, r2 := run()
	assert.Equal(t, cur1, cur2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, r1, r2)
}

func TestMissingPostModelIsSkipped(t *testing.T) {
	c := newFakeThread(
		thread.Post{Floor: 1, Content: "/start"},
		post(2, "bob", "/start"),
	)
	b := newTestBot(c)

	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, uint64(2), b.Cursor())
	require.Len(t, c.replies, 1)
}

func TestParseErrorsAreReported(t *testing.T) {
	c := newFakeThread(
		post(1, "alice", "/guess"),
		post(2, "alice", "/guess abc"),
		post(3, "alice", "/stop"),
	)
	m := NewMetrics(nil)
	b := newTestBot(c, WithMetrics(m))

	require.NoError(t, b.Tick(context.Background()))
	assert.Len(t, c.replies, 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ParseErrors))
	assert.Equal(t, game.NotStarted, b.Snapshot().Game.State)
}

func TestQuoteTrigger(t *testing.T) {
	c := newFakeThread(post(1, "alice", "/start"))
	sess := game.NewSession(stubDict{target: "crane"}, game.WithClock(fixedClock))
	b := New(c, sess, Config{ThreadID: testThread, QuoteTrigger: true})

	require.NoError(t, b.Tick(context.Background()))
	require.Len(t, c.replies, 1)
	require.NotNil(t, c.replies[0].parent)
	assert.Equal(t, uint64(501), *c.replies[0].parent)
}

func TestRunStopsOnCancel(t *testing.T) {
	c := newFakeThread(post(1, "alice", "/start"))
	sess := game.NewSession(stubDict{target: "crane"})
	b := New(c, sess, Config{ThreadID: testThread, PollInterval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool { return b.Snapshot().Cursor == 1 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestAppreciateFailureDoesNotBlock(t *testing.T) {
	c := newFakeThread(
		post(1, "alice", "/start"),
		post(2, "bob", "/guess crane"),
		post(3, "carol", "/start"),
	)
	c.failAppreciate = true
	arch := store.NewMemoryStore()
	m := NewMetrics(nil)
	b := newTestBot(c, WithArchive(arch), WithMetrics(m))

	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, uint64(3), b.Cursor())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Appreciations.WithLabelValues("failed")))
	assert.Empty(t, c.appreciate)

	games, err := arch.Recent(context.Background(), testThread, 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "bob", games[0].Winner)

	require.Len(t, c.replies, 3)
	assert.Contains(t, c.replies[1].text, "Congratulations @bob")
	assert.Equal(t, game.InProgress, b.Snapshot().Game.State)
	assert.Equal(t, 2, b.Snapshot().Game.Round)
}

func TestArchiveFailureDoesNotBlock(t *testing.T) {
	c := newFakeThread(
		post(1, "alice", "/start"),
		post(2, "bob", "/guess crane"),
		post(3, "carol", "/start"),
		post(4, "dave", "/guess crate"),
	)
	arch := &failingArchive{Store: store.NewMemoryStore()}
	m := NewMetrics(nil)
	b := newTestBot(c, WithArchive(arch), WithMetrics(m))

	require.NoError(t, b.Tick(context.Background()))
	assert.Equal(t, 1, arch.attempts)
	assert.Equal(t, uint64(4), b.Cursor())
	assert.Equal(t, map[uint64]int32{502: 1}, c.appreciate)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("won")))
	assert.Len(t, c.replies, 4)
	assert.Len(t, b.Snapshot().Game.History, 1)
}

func TestFetchFailureIsLoggedAtWarn(t *testing.T) {
	c := newFakeThread()
	c.failFetch = true
	var buf bytes.Buffer
	b := newTestBot(c, WithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)))

	require.Error(t, b.Tick(context.Background()))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"message":"fetch posts"`)
	assert.Contains(t, buf.String(), "unavailable")
}
