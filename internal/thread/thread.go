// Package thread defines the forum data the bot reads and the client
// contract it drives.
package thread

import (
	"context"
	"time"
)

// Post is one reply in a thread. Floor is its position in the thread and
// increases monotonically. ID is zero when the server omitted the post model.
type Post struct {
	ID        uint64
	Floor     uint64
	Content   string
	Author    string
	CreatedAt time.Time
}

// Client is the forum API the bot needs.
type Client interface {
	// ReplyCount returns the current number of replies in a thread.
	ReplyCount(ctx context.Context, threadID uint64) (uint64, error)
	// FetchSince returns up to limit posts with floor > after, ascending.
	FetchSince(ctx context.Context, threadID, after uint64, limit int) ([]Post, error)
	// Reply posts text to the thread, optionally in reply to parentID.
	Reply(ctx context.Context, threadID uint64, text string, parentID *uint64) (Post, error)
	// Appreciate rewards a post.
	Appreciate(ctx context.Context, postID uint64, amount int32) error
}
