package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoInput is returned by NewRequest when no username, album or artist
// was given. Callers print usage instead of resolving.
var ErrNoInput = errors.New("no username, album or artist given")

// Request is one of ByUser, ByAlbum, ByAlbumAndArtist or ByArtist.
type Request interface {
	fmt.Stringer
	isRequest()
}

// ByUser resolves the most recently played track of a Last.fm user.
type ByUser struct{ Username string }

// ByAlbum resolves the first result of a free-text album search.
type ByAlbum struct{ Album string }

// ByAlbumAndArtist resolves one album by exact (autocorrected) names.
type ByAlbumAndArtist struct{ Album, Artist string }

// ByArtist resolves an artist's top album.
type ByArtist struct{ Artist string }

func (ByUser) isRequest()           {}
func (ByAlbum) isRequest()          {}
func (ByAlbumAndArtist) isRequest() {}
func (ByArtist) isRequest()         {}

func (r ByUser) String() string  { return fmt.Sprintf("user %q", r.Username) }
func (r ByAlbum) String() string { return fmt.Sprintf("album %q", r.Album) }
func (r ByAlbumAndArtist) String() string {
	return fmt.Sprintf("album %q by %q", r.Album, r.Artist)
}
func (r ByArtist) String() string { return fmt.Sprintf("artist %q", r.Artist) }

// NewRequest picks the lookup for the given inputs. Username wins over
// album, album over artist; an artist given together with an album only
// narrows the album lookup. Multi-word album and artist values are joined
// with single spaces.
func NewRequest(username string, album, artist []string) (Request, error) {
	username = strings.TrimSpace(username)
	albumName := joinWords(album)
	artistName := joinWords(artist)

	switch {
	case username != "":
		return ByUser{Username: username}, nil
	case albumName != "" && artistName != "":
		return ByAlbumAndArtist{Album: albumName, Artist: artistName}, nil
	case albumName != "":
		return ByAlbum{Album: albumName}, nil
	case artistName != "":
		return ByArtist{Artist: artistName}, nil
	default:
		return nil, ErrNoInput
	}
}

func joinWords(words []string) string {
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}
