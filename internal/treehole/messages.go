package treehole

import "time"

// Wire messages of the TreeHole service. Field names follow the service's
// snake_case schema.

type emptyMessage struct{}

type model struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type threadQuery struct {
	ID uint64 `json:"id"`
}

type threadMessage struct {
	Model      *model `json:"model,omitempty"`
	Title      string `json:"title,omitempty"`
	ReplyCount uint64 `json:"reply_count"`
}

type postsQuery struct {
	ThreadID uint64 `json:"thread_id"`
	Last     uint64 `json:"last"`
	Size     uint32 `json:"size"`
}

type postMessage struct {
	Model         *model  `json:"model,omitempty"`
	ThreadID      uint64  `json:"thread_id"`
	ReplyToPostID *uint64 `json:"reply_to_post_id,omitempty"`
	Floor         uint64  `json:"floor"`
	Content       string  `json:"content"`
	IdentityCode  string  `json:"identity_code"`
}

type postsResponse struct {
	Posts []postMessage `json:"posts"`
}

type appreciateRequest struct {
	ID     uint64 `json:"id"`
	Amount int32  `json:"amount"`
}
