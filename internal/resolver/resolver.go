// Package resolver maps a lookup request onto exactly one piece of
// artwork: a title, an artist name and an image URL.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"asciifm/internal/api"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrNoRecentTracks  = errors.New("no recent tracks")
	ErrAlbumNotFound   = errors.New("album not found")
	ErrArtistNotFound  = errors.New("artist not found")
)

// artworkIndex selects the "medium" variant from Last.fm's image list
// (small, medium, large, extralarge).
const artworkIndex = 1

// Result is a resolved piece of artwork.
type Result struct {
	Title    string
	Artist   string
	ImageURL string
}

// Lookup is the subset of the Last.fm API the resolver needs.
type Lookup interface {
	GetUserInfo(ctx context.Context, user string) (*api.UserInfoResponse, error)
	GetRecentTracks(ctx context.Context, user string, limit int) (*api.RecentTracksResponse, error)
	SearchAlbum(ctx context.Context, album string, limit int) (*api.AlbumSearchResponse, error)
	GetAlbumInfo(ctx context.Context, album, artist string) (*api.AlbumInfoResponse, error)
	GetTopAlbums(ctx context.Context, artist string, limit int) (*api.TopAlbumsResponse, error)
}

type Resolver struct {
	api    Lookup
	logger *slog.Logger
}

func New(lookup Lookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		api:    lookup,
		logger: logger.With(slog.String("component", "resolver")),
	}
}

// Resolve runs the lookup strategy for req. It returns a complete Result
// or an error; never both and never a partial Result.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	r.logger.Debug("resolving", slog.String("request", req.String()))

	switch req := req.(type) {
	case ByUser:
		return r.recentTrack(ctx, req.Username)
	case ByAlbumAndArtist:
		return r.albumInfo(ctx, req.Album, req.Artist)
	case ByAlbum:
		return r.albumSearch(ctx, req.Album)
	case ByArtist:
		return r.topAlbum(ctx, req.Artist)
	default:
		return nil, fmt.Errorf("unsupported request %T", req)
	}
}

func (r *Resolver) recentTrack(ctx context.Context, user string) (*Result, error) {
	if _, err := r.api.GetUserInfo(ctx, user); err != nil {
		return nil, classify(err, ErrInvalidUsername)
	}

	resp, err := r.api.GetRecentTracks(ctx, user, 1)
	if err != nil {
		return nil, classify(err, ErrNoRecentTracks)
	}

	tracks := resp.RecentTracks.Track
	if len(tracks) == 0 {
		return nil, ErrNoRecentTracks
	}
	track := tracks[0]
	if track.Name == "" || track.Artist == nil {
		return nil, fmt.Errorf("%w: incomplete track", ErrNoRecentTracks)
	}
	image, ok := artworkURL(track.Image)
	if !ok {
		return nil, fmt.Errorf("%w: track has no artwork variants", ErrNoRecentTracks)
	}

	return &Result{Title: track.Name, Artist: track.Artist.Text, ImageURL: image}, nil
}

func (r *Resolver) albumSearch(ctx context.Context, album string) (*Result, error) {
	resp, err := r.api.SearchAlbum(ctx, album, 1)
	if err != nil {
		return nil, classify(err, ErrAlbumNotFound)
	}

	matches := resp.Results.AlbumMatches.Album
	if len(matches) == 0 {
		return nil, ErrAlbumNotFound
	}
	match := matches[0]
	image, ok := artworkURL(match.Image)
	if match.Name == "" || !ok {
		return nil, fmt.Errorf("%w: incomplete search result", ErrAlbumNotFound)
	}

	return &Result{Title: match.Name, Artist: match.Artist, ImageURL: image}, nil
}

func (r *Resolver) albumInfo(ctx context.Context, album, artist string) (*Result, error) {
	resp, err := r.api.GetAlbumInfo(ctx, album, artist)
	if err != nil {
		return nil, classify(err, ErrAlbumNotFound)
	}

	info := resp.Album
	if info == nil || info.Name == "" {
		return nil, ErrAlbumNotFound
	}
	image, ok := artworkURL(info.Image)
	if !ok {
		return nil, fmt.Errorf("%w: album has no artwork variants", ErrAlbumNotFound)
	}

	return &Result{Title: info.Name, Artist: info.Artist, ImageURL: image}, nil
}

func (r *Resolver) topAlbum(ctx context.Context, artist string) (*Result, error) {
	resp, err := r.api.GetTopAlbums(ctx, artist, 1)
	if err != nil {
		return nil, classify(err, ErrArtistNotFound)
	}

	albums := resp.TopAlbums.Album
	if len(albums) == 0 {
		return nil, ErrArtistNotFound
	}
	top := albums[0]
	image, ok := artworkURL(top.Image)
	if top.Name == "" || top.Artist == nil || !ok {
		return nil, fmt.Errorf("%w: malformed top album", ErrArtistNotFound)
	}

	return &Result{Title: top.Name, Artist: top.Artist.Name, ImageURL: image}, nil
}

// artworkURL returns the URL at artworkIndex. The URL itself may be empty;
// Last.fm sends empty strings for albums without artwork.
func artworkURL(images []api.Image) (string, bool) {
	if len(images) <= artworkIndex {
		return "", false
	}
	return images[artworkIndex].URL, true
}

// classify maps a Last.fm error response onto kind. Transport failures
// keep their own identity.
func classify(err error, kind error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", kind, apiErr)
	}
	return err
}
