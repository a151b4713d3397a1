package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Error is a Last.fm error body, e.g. {"error":6,"message":"User not found"}.
type Error struct {
	Code       int    `json:"error"`
	Message    string `json:"message"`
	Method     string `json:"-"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Method, e.StatusCode)
	}
	return fmt.Sprintf("%s: last.fm error %d: %s", e.Method, e.Code, e.Message)
}

// status is embedded in every response so that a 200 carrying an error
// body is still reported as an error.
type status struct {
	ErrorCode    int    `json:"error,omitempty"`
	ErrorMessage string `json:"message,omitempty"`
}

func (s status) apiError() *Error {
	if s.ErrorCode == 0 {
		return nil
	}
	return &Error{Code: s.ErrorCode, Message: s.ErrorMessage}
}

// OneOrMany decodes a JSON array, or a lone object as a one-element list.
// Last.fm collapses single-item arrays into objects for some methods.
type OneOrMany[T any] []T

func (l *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = OneOrMany[T]{v}
		return nil
	}
	var vs []T
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	*l = vs
	return nil
}

// Image is one entry of an image variant list. Variants are ordered by
// size: small, medium, large, extralarge (sometimes mega).
type Image struct {
	Size string `json:"size"`
	URL  string `json:"#text"`
}

// UserInfoResponse is the response from user.getInfo.
type UserInfoResponse struct {
	status
	User struct {
		Name      string `json:"name"`
		RealName  string `json:"realname"`
		URL       string `json:"url"`
		Playcount string `json:"playcount"`
	} `json:"user"`
}

// RecentTracksResponse is the response from user.getRecentTracks.
type RecentTracksResponse struct {
	status
	RecentTracks struct {
		Track OneOrMany[RecentTrack] `json:"track"`
		Attr  struct {
			User  string `json:"user"`
			Total string `json:"total"`
		} `json:"@attr"`
	} `json:"recenttracks"`
}

// RecentTrack is a single scrobble or the now-playing track.
type RecentTrack struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Artist *struct {
		Text string `json:"#text"`
		MBID string `json:"mbid"`
	} `json:"artist"`
	Album struct {
		Text string `json:"#text"`
	} `json:"album"`
	Image OneOrMany[Image] `json:"image"`
	Attr  struct {
		NowPlaying string `json:"nowplaying"`
	} `json:"@attr"`
}

// AlbumSearchResponse is the response from album.search.
type AlbumSearchResponse struct {
	status
	Results struct {
		AlbumMatches struct {
			Album OneOrMany[AlbumMatch] `json:"album"`
		} `json:"albummatches"`
		TotalResults string `json:"opensearch:totalResults"`
	} `json:"results"`
}

// AlbumMatch is one album.search hit. Artist is a plain string here.
type AlbumMatch struct {
	Name   string           `json:"name"`
	Artist string           `json:"artist"`
	URL    string           `json:"url"`
	MBID   string           `json:"mbid"`
	Image  OneOrMany[Image] `json:"image"`
}

// AlbumInfoResponse is the response from album.getInfo.
type AlbumInfoResponse struct {
	status
	Album *AlbumInfo `json:"album"`
}

// AlbumInfo is the album object of album.getInfo.
type AlbumInfo struct {
	Name   string           `json:"name"`
	Artist string           `json:"artist"`
	URL    string           `json:"url"`
	MBID   string           `json:"mbid"`
	Image  OneOrMany[Image] `json:"image"`
}

// TopAlbumsResponse is the response from artist.getTopAlbums.
type TopAlbumsResponse struct {
	status
	TopAlbums struct {
		Album OneOrMany[TopAlbum] `json:"album"`
	} `json:"topalbums"`
}

// TopAlbum is one entry of an artist's top albums, highest ranked first.
type TopAlbum struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Artist *struct {
		Name string `json:"name"`
		MBID string `json:"mbid"`
		URL  string `json:"url"`
	} `json:"artist"`
	Image OneOrMany[Image] `json:"image"`
}
