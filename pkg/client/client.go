// Package client exposes the remote manga API as typed calls.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kerbaras/mangas-reader/pkg/config"
	"github.com/kerbaras/mangas-reader/pkg/data"
	"github.com/kerbaras/mangas-reader/pkg/sources"
	"github.com/kerbaras/mangas-reader/pkg/utils"
)

// ErrBadCredentials is returned by Login when the server rejects the pair.
var ErrBadCredentials = errors.New("invalid username or password")

type Client struct {
	api *utils.API
}

// New binds a client to cfg.APIURL. token may be empty for the login call.
func New(cfg *config.Config, token string) *Client {
	api := utils.NewAPI(cfg.APIURL, cfg.RequestTimeout)
	api.SetToken(token)
	return &Client{api: api}
}

// API returns the underlying transport, used for raw image fetches.
func (c *Client) API() *utils.API { return c.api }

func (c *Client) SetToken(token string) { c.api.SetToken(token) }

func (c *Client) ListTitles(ctx context.Context, source string, page int) ([]data.TitleSummary, error) {
	params := url.Values{}
	params.Set("source", sources.OrDefault(source))
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var out []data.TitleSummary
	if err := c.api.Get(ctx, "/manga", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTitle fetches a title with its chapter index. An empty source is omitted
// from the query so the server picks its own default.
func (c *Client) GetTitle(ctx context.Context, id, source string) (*data.Title, error) {
	var params url.Values
	if source != "" {
		params = url.Values{"source": {source}}
	}
	out := &data.Title{}
	if err := c.api.Get(ctx, "/manga/"+pathID(id), params, out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

func (c *Client) GetChapter(ctx context.Context, id string) (*data.Chapter, error) {
	out := &data.Chapter{}
	if err := c.api.Get(ctx, "/chapter/"+pathID(id), nil, out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out, nil
}

func (c *Client) ListHistory(ctx context.Context) ([]data.HistoryEntry, error) {
	var out []data.HistoryEntry
	if err := c.api.Get(ctx, "/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHistory returns the history entry of a title, or nil when it has none.
func (c *Client) GetHistory(ctx context.Context, mangaID, source string) (*data.HistoryEntry, error) {
	var params url.Values
	if source != "" {
		params = url.Values{"source": {source}}
	}
	var out *data.HistoryEntry
	err := c.api.Get(ctx, "/history/"+pathID(mangaID), params, &out)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out != nil && out.ChapterID == "" {
		return nil, nil
	}
	return out, nil
}

func (c *Client) SaveHistory(ctx context.Context, update data.ProgressUpdate) error {
	return c.api.Post(ctx, "/history", update, nil)
}

// Search passes q through to the server. A blank query returns no results
// without a request.
func (c *Client) Search(ctx context.Context, q string) ([]data.TitleSummary, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []data.TitleSummary{}, nil
	}
	var out []data.TitleSummary
	if err := c.api.Get(ctx, "/search", url.Values{"q": {q}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token. The token is also set on
// the client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out tokenResponse
	if err := c.api.Post(ctx, "/token", body, &out); err != nil {
		var httpErr *utils.HTTPError
		if errors.As(err, &httpErr) && (httpErr.Status == 400 || httpErr.Status == 401) {
			if httpErr.Detail != "" {
				return "", fmt.Errorf("%w: %s", ErrBadCredentials, httpErr.Detail)
			}
			return "", ErrBadCredentials
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("login response carried no access token")
	}
	c.api.SetToken(out.AccessToken)
	return out.AccessToken, nil
}

// ImageURL resolves a page or cover URL, proxying it when the source needs it.
func (c *Client) ImageURL(rawURL, source string) string {
	return sources.ImageURL(c.api.BaseURL(), rawURL, source)
}

// pathID escapes id for use as a path segment. Ids that arrive already
// percent-encoded are kept as they are.
func pathID(id string) string {
	if strings.Contains(id, "%") {
		if _, err := url.PathUnescape(id); err == nil {
			return id
		}
	}
	return url.PathEscape(id)
}
