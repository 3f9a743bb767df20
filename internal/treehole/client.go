// internal/treehole/client.go
//
// gRPC client for the TreeHole forum API.
// Responsibilities:
//   - Connect to API_URL (https → TLS, http/bare target → plaintext).
//   - Attach the account token as "authorization" metadata on every call.
//   - Ping on connect; a failed ping means the credentials or endpoint are
//     unusable.
//   - Implement thread.Client: reply count, paged posts, replies, appreciation.
//
// Transport-level concerns stay here: the bot never sees gRPC types.

package treehole

import (
	"cmp"
	"context"
	"crypto/tls"
	"fmt"
	"slices"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/thread"
)

const (
	serviceName = "model.TreeHole"

	methodPing           = "/" + serviceName + "/Ping"
	methodGetThread      = "/" + serviceName + "/GetThread"
	methodGetThreadPosts = "/" + serviceName + "/GetThreadPosts"
	methodPutPost        = "/" + serviceName + "/PutPost"
	methodAppreciatePost = "/" + serviceName + "/AppreciatePost"
)

// Options configures Dial.
type Options struct {
	APIURL   string
	Token    string
	Identity string        // identity code replies are posted under
	Timeout  time.Duration // per-call deadline; 0 means 10s

	// DialOptions are appended after the defaults (tests inject a dialer).
	DialOptions []grpc.DialOption
}

// Client talks to TreeHole. It is safe for concurrent use.
type Client struct {
	conn     *grpc.ClientConn
	identity string
	timeout  time.Duration
}

var _ thread.Client = (*Client)(nil)

// Dial connects and pings the server.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	target, creds := parseTarget(opts.APIURL)

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithUnaryInterceptor(authInterceptor(opts.Token)),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
	dialOpts = append(dialOpts, opts.DialOptions...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create TreeHole client: %w", err)
	}

	c := &Client{conn: conn, identity: opts.Identity, timeout: opts.Timeout}
	if err := c.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// parseTarget turns API_URL into a gRPC target and matching credentials.
func parseTarget(apiURL string) (string, credentials.TransportCredentials) {
	switch {
	case strings.HasPrefix(apiURL, "https://"):
		host := strings.TrimSuffix(strings.TrimPrefix(apiURL, "https://"), "/")
		if !strings.Contains(host, ":") {
			host += ":443"
		}
		return host, credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	case strings.HasPrefix(apiURL, "http://"):
		host := strings.TrimSuffix(strings.TrimPrefix(apiURL, "http://"), "/")
		if !strings.Contains(host, ":") {
			host += ":80"
		}
		return host, insecure.NewCredentials()
	default:
		return apiURL, insecure.NewCredentials()
	}
}

func authInterceptor(token string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if token != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, "authorization", token)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.conn.Invoke(ctx, method, req, resp); err != nil {
		return fmt.Errorf("%s: %w", strings.TrimPrefix(method, "/"+serviceName+"/"), err)
	}
	return nil
}

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	return c.invoke(ctx, methodPing, &emptyMessage{}, &emptyMessage{})
}

// ReplyCount returns the number of replies in a thread.
func (c *Client) ReplyCount(ctx context.Context, threadID uint64) (uint64, error) {
	var t threadMessage
	if err := c.invoke(ctx, methodGetThread, &threadQuery{ID: threadID}, &t); err != nil {
		return 0, err
	}
	return t.ReplyCount, nil
}

// FetchSince returns up to limit posts after floor, in floor order. Posts at
// or below the floor are dropped even if the server returns them.
func (c *Client) FetchSince(ctx context.Context, threadID, after uint64, limit int) ([]thread.Post, error) {
	var resp postsResponse
	req := &postsQuery{ThreadID: threadID, Last: after, Size: uint32(limit)}
	if err := c.invoke(ctx, methodGetThreadPosts, req, &resp); err != nil {
		return nil, err
	}

	out := make([]thread.Post, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		if p.Floor <= after {
			continue
		}
		out = append(out, toPost(p))
	}
	slices.SortStableFunc(out, func(a, b thread.Post) int { return cmp.Compare(a.Floor, b.Floor) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Reply posts text to a thread under the client's identity.
func (c *Client) Reply(ctx context.Context, threadID uint64, text string, parentID *uint64) (thread.Post, error) {
	req := &postMessage{
		ThreadID:      threadID,
		ReplyToPostID: parentID,
		Content:       text,
		IdentityCode:  c.identity,
	}
	var resp postMessage
	if err := c.invoke(ctx, methodPutPost, req, &resp); err != nil {
		return thread.Post{}, err
	}
	return toPost(resp), nil
}

// Appreciate rewards a post with amount.
func (c *Client) Appreciate(ctx context.Context, postID uint64, amount int32) error {
	var resp postMessage
	return c.invoke(ctx, methodAppreciatePost, &appreciateRequest{ID: postID, Amount: amount}, &resp)
}

func toPost(p postMessage) thread.Post {
	out := thread.Post{
		Floor:   p.Floor,
		Content: p.Content,
		Author:  p.IdentityCode,
	}
	if p.Model != nil {
		out.ID = p.Model.ID
		out.CreatedAt = p.Model.CreatedAt
	}
	return out
}
