package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/imroc/req/v3"
)

// Last.fm method names used by asciifm.
const (
	MethodUserInfo     = "user.getInfo"
	MethodRecentTracks = "user.getRecentTracks"
	MethodAlbumSearch  = "album.search"
	MethodAlbumInfo    = "album.getInfo"
	MethodTopAlbums    = "artist.getTopAlbums"
)

// Client talks to the Last.fm API 2.0 endpoint. Every request carries the
// API key, format=json and the configured User-Agent.
type Client struct {
	APIKey string
	HTTP   *req.Client
	logger *slog.Logger
}

func NewClient(apiKey, baseURL, userAgent string) *Client {
	c := &Client{
		APIKey: apiKey,
		HTTP:   req.NewClient(),
		logger: slog.New(slog.DiscardHandler),
	}

	c.HTTP.SetBaseURL(baseURL).
		SetUserAgent(userAgent).
		SetCommonHeader("Accept", "application/json").
		SetCommonQueryParam("api_key", apiKey).
		SetCommonQueryParam("format", "json")

	return c
}

func (c *Client) SetProxy(proxyURL string) {
	if proxyURL == "" {
		return
	}
	// req/v3 handles http, https and socks5 schemes
	c.HTTP.SetProxyURL(proxyURL)
}

func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.HTTP.SetTimeout(d)
	}
}

func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger.With(slog.String("component", "lastfm"))
}

// call issues one GET for method and decodes the success body into result.
// Non-2xx responses and 2xx responses with an error body return *Error.
func (c *Client) call(ctx context.Context, method string, params map[string]string, result interface{ apiError() *Error }) error {
	c.logger.Debug("requesting", slog.String("method", method), slog.Any("params", params))

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetQueryParam("method", method).
		SetQueryParams(params).
		SetSuccessResult(result).
		Get("/")

	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if !resp.IsSuccessState() {
		apiErr := &Error{}
		// The body is usually a Last.fm error object; ignore it when it isn't.
		_ = json.Unmarshal(resp.Bytes(), apiErr)
		apiErr.Method = method
		apiErr.StatusCode = resp.StatusCode
		c.logger.Debug("request failed", slog.String("method", method), slog.Int("status", resp.StatusCode), slog.String("message", apiErr.Message))
		return apiErr
	}

	if apiErr := result.apiError(); apiErr != nil {
		apiErr.Method = method
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	return nil
}

// GetUserInfo fetches a user's profile; used to check the user exists.
func (c *Client) GetUserInfo(ctx context.Context, user string) (*UserInfoResponse, error) {
	var result UserInfoResponse
	if err := c.call(ctx, MethodUserInfo, map[string]string{"user": user}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRecentTracks fetches the most recent scrobbles of user, newest first.
func (c *Client) GetRecentTracks(ctx context.Context, user string, limit int) (*RecentTracksResponse, error) {
	var result RecentTracksResponse
	params := map[string]string{
		"user":  user,
		"limit": fmt.Sprint(limit),
	}
	if err := c.call(ctx, MethodRecentTracks, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchAlbum runs a free-text album search.
func (c *Client) SearchAlbum(ctx context.Context, album string, limit int) (*AlbumSearchResponse, error) {
	var result AlbumSearchResponse
	params := map[string]string{
		"album": album,
		"limit": fmt.Sprint(limit),
	}
	if err := c.call(ctx, MethodAlbumSearch, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAlbumInfo looks up one album by album and artist name, with
// autocorrection of misspelled names.
func (c *Client) GetAlbumInfo(ctx context.Context, album, artist string) (*AlbumInfoResponse, error) {
	var result AlbumInfoResponse
	params := map[string]string{
		"album":       album,
		"artist":      artist,
		"autocorrect": "1",
	}
	if err := c.call(ctx, MethodAlbumInfo, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTopAlbums fetches an artist's albums ranked by play count, with
// autocorrection of misspelled names.
func (c *Client) GetTopAlbums(ctx context.Context, artist string, limit int) (*TopAlbumsResponse, error) {
	var result TopAlbumsResponse
	params := map[string]string{
		"artist":      artist,
		"limit":       fmt.Sprint(limit),
		"autocorrect": "1",
	}
	if err := c.call(ctx, MethodTopAlbums, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
