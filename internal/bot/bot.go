// internal/bot/bot.go
//
// The polling loop that drives the thread game.
//
// Each tick:
//   1. Wait the poll interval.
//   2. Fetch posts after the cursor; on failure skip the tick.
//   3. For each post in floor order: advance the cursor first, then parse,
//      apply to the session, and reply. Replies, the winner's appreciation
//      and archiving are best-effort: failures are logged and never retried.
//
// The Bot is the session's only mutator. Other goroutines read the
// published Snapshot.

package bot

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/command"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/game"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/reply"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/store"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/thread"
)

// Config holds the loop parameters.
type Config struct {
	ThreadID     uint64
	PollInterval time.Duration // default 2s
	PageSize     int           // default 19
	Reward       int32         // appreciation for a win; 0 disables
	QuoteTrigger bool          // reply to the triggering post instead of the thread
}

// State is everything the loop carries between ticks.
type State struct {
	Cursor  uint64 // highest floor processed; never decreases
	Session *game.Session
}

// Snapshot is a read-only copy of the loop state for other goroutines.
type Snapshot struct {
	ThreadID  uint64    `json:"threadId"`
	Cursor    uint64    `json:"cursor"`
	Game      game.View `json:"game"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Bot polls one thread and plays one session on it.
type Bot struct {
	client  thread.Client
	cfg     Config
	state   State
	archive store.Store
	metrics *Metrics
	logger  zerolog.Logger
	clock   func() time.Time

	snapshot atomic.Pointer[Snapshot]
}

// Option configures a Bot.
type Option func(*Bot)

// WithArchive records finished games in s.
func WithArchive(s store.Store) Option { return func(b *Bot) { b.archive = s } }

// WithMetrics replaces the default unregistered metrics.
func WithMetrics(m *Metrics) Option { return func(b *Bot) { b.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(b *Bot) { b.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(b *Bot) { b.clock = now } }

// New returns a Bot with the cursor at zero. Call Init before Run.
func New(client thread.Client, session *game.Session, cfg Config, opts ...Option) *Bot {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 19
	}
	b := &Bot{
		client: client,
		cfg:    cfg,
		state:  State{Session: session},
		logger: zerolog.Nop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.metrics == nil {
		b.metrics = NewMetrics(nil)
	}
	b.publish()
	return b
}

// Init moves the cursor to the thread's current reply count so only replies
// posted from now on are played.
func (b *Bot) Init(ctx context.Context) error {
	count, err := b.client.ReplyCount(ctx, b.cfg.ThreadID)
	if err != nil {
		return err
	}
	b.advance(count)
	b.logger.Info().Uint64("thread", b.cfg.ThreadID).Uint64("floor", count).Msg("thread floor")
	b.publish()
	return nil
}

// Run polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info().Dur("interval", b.cfg.PollInterval).Msg("start loop")
	timer := time.NewTimer(b.cfg.PollInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		_ = b.Tick(ctx)
		timer.Reset(b.cfg.PollInterval)
	}
}

// Tick fetches one page and processes it. A fetch error leaves the cursor
// untouched and is returned after logging.
func (b *Bot) Tick(ctx context.Context) error {
	posts, err := b.client.FetchSince(ctx, b.cfg.ThreadID, b.state.Cursor, b.cfg.PageSize)
	if err != nil {
		b.metrics.FetchFailures.Inc()
		b.logger.Warn().Err(err).Uint64("floor", b.state.Cursor).Msg("fetch posts")
		return err
	}
	for _, p := range posts {
		b.Handle(ctx, p)
	}
	if len(posts) > 0 {
		b.publish()
	}
	return nil
}

// Handle processes a single post. Posts at or below the cursor are ignored.
func (b *Bot) Handle(ctx context.Context, p thread.Post) {
	if p.Floor <= b.state.Cursor {
		return
	}
	// Advance before any reply: a post is never processed twice, even if
	// replying to it fails.
	b.advance(p.Floor)
	b.metrics.PostsProcessed.Inc()

	if p.ID == 0 {
		b.logger.Warn().Uint64("floor", p.Floor).Msg("post model is missing")
		return
	}

	action, err := command.Parse(p.Content)
	if err != nil {
		b.metrics.ParseErrors.Inc()
		b.logger.Info().Err(err).Uint64("floor", p.Floor).Msg("failed to parse action")
		b.send(ctx, p, reply.ParseError(err))
		return
	}
	if action.Kind == command.Nop {
		return
	}
	b.metrics.Actions.WithLabelValues(action.Kind.String()).Inc()
	b.logger.Info().Uint64("floor", p.Floor).Uint64("post", p.ID).Stringer("action", action).Msg("apply")

	sess := b.state.Session
	ev, err := sess.Apply(action, p.Author)
	view := sess.View()
	if ev.Started {
		b.logger.Info().Str("game", view.ID).Msg("game started")
		b.logger.Debug().Str("game", view.ID).Str("answer", view.Target).Msg("answer drawn")
	}
	if err != nil {
		b.logger.Info().Err(err).Uint64("floor", p.Floor).Msg("action rejected")
	}

	if text := reply.Response(view, p.Author, ev, err); text != "" {
		b.send(ctx, p, text)
	}

	if ev.Finished() {
		b.finish(ctx, p, view, ev.Outcome)
	}
}

// finish runs the end-of-game side effects.
func (b *Bot) finish(ctx context.Context, p thread.Post, view game.View, outcome game.Outcome) {
	b.metrics.GamesFinished.WithLabelValues(outcome.String()).Inc()
	b.logger.Info().Str("game", view.ID).Str("outcome", outcome.String()).Int("tries", view.Tries()).Msg("game ends")

	rec := store.Game{
		ThreadID:   b.cfg.ThreadID,
		Date:       view.Day,
		Answer:     view.Target,
		Outcome:    outcome.String(),
		Tries:      view.Tries(),
		FinishedAt: b.clock(),
	}

	if outcome == game.Win {
		rec.Winner, rec.WinnerPost = p.Author, p.ID
		if b.cfg.Reward > 0 {
			err := b.client.Appreciate(ctx, p.ID, b.cfg.Reward)
			b.metrics.Appreciations.WithLabelValues(result(err)).Inc()
			if err != nil {
				b.logger.Warn().Err(err).Uint64("post", p.ID).Msg("appreciate winner")
			}
		}
	}

	if b.archive != nil {
		if err := b.archive.Record(ctx, rec); err != nil {
			b.logger.Warn().Err(err).Str("game", view.ID).Msg("archive game")
		}
	}
}

// send posts text best-effort.
func (b *Bot) send(ctx context.Context, p thread.Post, text string) {
	var parent *uint64
	if b.cfg.QuoteTrigger {
		id := p.ID
		parent = &id
	}
	_, err := b.client.Reply(ctx, b.cfg.ThreadID, text, parent)
	b.metrics.Replies.WithLabelValues(result(err)).Inc()
	if err != nil {
		b.logger.Warn().Err(err).Uint64("floor", p.Floor).Msg("reply failed")
	}
}

func (b *Bot) advance(floor uint64) {
	if floor > b.state.Cursor {
		b.state.Cursor = floor
		b.metrics.Cursor.Set(float64(floor))
	}
}

func (b *Bot) publish() {
	b.snapshot.Store(&Snapshot{
		ThreadID:  b.cfg.ThreadID,
		Cursor:    b.state.Cursor,
		Game:      b.state.Session.View(),
		UpdatedAt: b.clock(),
	})
}

// Snapshot returns the latest published state. Safe for concurrent use.
func (b *Bot) Snapshot() Snapshot {
	return *b.snapshot.Load()
}

// Cursor returns the highest processed floor. Only call from the loop's
// goroutine or after Run returned.
func (b *Bot) Cursor() uint64 { return b.state.Cursor }
