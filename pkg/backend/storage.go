package backend

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object is one entry of a storage listing.
type Object struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	UpdatedAt *time.Time     `json:"updated_at"`
	CreatedAt *time.Time     `json:"created_at"`
	Metadata  map[string]any `json:"metadata"`
}

type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	SortBy struct {
		Column string `json:"column"`
		Order  string `json:"order"`
	} `json:"sortBy"`
}

// ObjectPath joins segments into a bucket-relative key, percent-encoding
// each segment so spaces, '#', '?' and '/' inside a name stay literal.
func ObjectPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// PublicURL is the publicly readable address of an object in the bucket.
func (c *Client) PublicURL(segments ...string) string {
	return strings.TrimRight(c.baseURL, "/") +
		"/storage/v1/object/public/" + url.PathEscape(c.bucket) + "/" + ObjectPath(segments...)
}

// List returns the objects directly under prefix (a '/'-joined unescaped key).
func (c *Client) List(ctx context.Context, accessToken, prefix string) ([]Object, error) {
	body := listRequest{Prefix: prefix, Limit: 100}
	body.SortBy.Column = "name"
	body.SortBy.Order = "asc"

	var objects []Object
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(body).
		SetResult(&objects).
		SetError(&errorBody{}).
		Post("/storage/v1/object/list/" + url.PathEscape(c.bucket))
	if err := c.check("list files", resp, err); err != nil {
		return nil, err
	}
	return objects, nil
}

// Upload stores content under dir with a freshly generated unique name and
// returns that name.
func (c *Client) Upload(ctx context.Context, accessToken string, dir []string, contentType string, content io.Reader) (string, error) {
	name := uuid.NewString()
	key := ObjectPath(append(append([]string(nil), dir...), name)...)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", contentType).
		SetBody(content).
		SetError(&errorBody{}).
		Post("/storage/v1/object/" + url.PathEscape(c.bucket) + "/" + key)
	if err := c.check("upload file", resp, err); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes objects by their unescaped '/'-joined keys.
func (c *Client) Remove(ctx context.Context, accessToken string, keys []string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(map[string][]string{"prefixes": keys}).
		SetError(&errorBody{}).
		Delete("/storage/v1/object/" + url.PathEscape(c.bucket))
	return c.check("delete file", resp, err)
}
