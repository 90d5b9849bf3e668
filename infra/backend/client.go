package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"

	"meetify/domain"
)

// Collection names in the hosted document database. The boardPosts
// schema is shared with other clients and must not change shape.
const (
	collPosts         = "boardPosts"
	collCircles       = "circles"
	collEvents        = "events"
	collNotifications = "notifications"
)

// Client wraps the Meetify backend: a document database exposed as
// collections of JSON documents with atomic field transforms, plus an
// object storage endpoint for images.
type Client struct {
	http *resty.Client
}

// NewClient creates a backend client with bearer authentication.
func NewClient(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetTimeout(15 * time.Second)

	return &Client{http: c}
}

func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.http.R().WithContext(ctx)
}

// docQuery is a structured query against one collection. The query
// layer supports equality filters and ordering on a single field; it
// cannot express "field is absent", which is why root posts are
// filtered client-side.
type docQuery struct {
	eq         map[string]string
	orderBy    string
	descending bool
	limit      int
	startAfter string // Cursor: id of the last document of the previous page
}

func (c *Client) queryDocs(ctx context.Context, coll string, q docQuery, out any) error {
	req := c.r(ctx).SetResult(out)
	for field, value := range q.eq {
		req.SetQueryParam(field, value)
	}
	if q.orderBy != "" {
		dir := "asc"
		if q.descending {
			dir = "desc"
		}
		req.SetQueryParam("orderBy", q.orderBy).SetQueryParam("dir", dir)
	}
	if q.limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.limit))
	}
	if q.startAfter != "" {
		req.SetQueryParam("startAfter", q.startAfter)
	}

	res, err := req.Get("/v1/collections/" + coll + "/documents")
	return apiError(res, err)
}

func (c *Client) getDoc(ctx context.Context, coll, id string, out any) error {
	res, err := c.r(ctx).SetResult(out).Get("/v1/collections/" + coll + "/documents/" + id)
	return apiError(res, err)
}

func (c *Client) createDoc(ctx context.Context, coll string, doc, out any) error {
	res, err := c.r(ctx).SetBody(doc).SetResult(out).Post("/v1/collections/" + coll + "/documents")
	return apiError(res, err)
}

// patch is a partial document update. Transform maps apply atomically
// on the server: increment adds to a numeric field, arrayUnion and
// arrayRemove mutate a field with set semantics.
type patch struct {
	Set         map[string]any      `json:"set,omitempty"`
	Increment   map[string]int      `json:"increment,omitempty"`
	ArrayUnion  map[string][]string `json:"arrayUnion,omitempty"`
	ArrayRemove map[string][]string `json:"arrayRemove,omitempty"`
}

func (c *Client) patchDoc(ctx context.Context, coll, id string, p patch) error {
	res, err := c.r(ctx).SetBody(p).Patch("/v1/collections/" + coll + "/documents/" + id)
	return apiError(res, err)
}

func (c *Client) deleteDoc(ctx context.Context, coll, id string) error {
	res, err := c.r(ctx).Delete("/v1/collections/" + coll + "/documents/" + id)
	return apiError(res, err)
}

// batchDelete removes every listed document in one atomic batch.
func (c *Client) batchDelete(ctx context.Context, coll string, ids []string) error {
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	res, err := c.r(ctx).SetBody(body).Post("/v1/collections/" + coll + "/documents:batchDelete")
	return apiError(res, err)
}

// uploadObject stores raw bytes in object storage and returns the
// public URL.
func (c *Client) uploadObject(ctx context.Context, name string, data []byte) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	res, err := c.r(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		SetResult(&out).
		Post("/v1/storage/objects?name=" + name)
	if err := apiError(res, err); err != nil {
		return "", err
	}
	return out.URL, nil
}

// apiError maps transport failures and HTTP statuses onto the domain
// error taxonomy so callers can decide what is retryable.
func apiError(res *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	if !res.IsError() {
		return nil
	}
	code := res.StatusCode()
	switch {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.TrimSpace(res.String()))
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: backend returned %d", domain.ErrPermission, code)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: backend returned 404", domain.ErrNotFound)
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: backend returned %d", domain.ErrTransient, code)
	default:
		return fmt.Errorf("backend returned %d: %s", code, strings.TrimSpace(res.String()))
	}
}
