package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	urlRegex = regexp.MustCompile(`^(?:https?://)?(?:www\.)?last\.fm(?:/[a-z]{2})?/(user|music)/([^/?#]+)(?:/([^/?#]+))?`)
)

// ResourceType represents the type of Last.fm page a URL points at
type ResourceType string

const (
	TypeUser   ResourceType = "user"
	TypeArtist ResourceType = "artist"
	TypeAlbum  ResourceType = "album"
)

// Resource is what a Last.fm URL identifies.
type Resource struct {
	Type   ResourceType
	User   string
	Artist string
	Album  string
}

// ParseURL extracts the user, artist or album from a Last.fm page URL.
//
//	https://www.last.fm/user/rj               -> user "rj"
//	https://www.last.fm/music/Radiohead        -> artist "Radiohead"
//	https://www.last.fm/music/Radiohead/Kid+A  -> album "Kid A" by "Radiohead"
//
// Track pages (/music/<artist>/_/<track>) and artist sub-pages such as
// /music/<artist>/+wiki resolve to the artist.
func ParseURL(input string) (*Resource, error) {
	matches := urlRegex.FindStringSubmatch(strings.TrimSpace(input))
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid Last.fm URL: %q", input)
	}

	first, err := url.QueryUnescape(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid Last.fm URL %q: %w", input, err)
	}

	if matches[1] == "user" {
		return &Resource{Type: TypeUser, User: first}, nil
	}

	second := matches[3]
	if second == "" || second == "_" || strings.HasPrefix(second, "+") {
		return &Resource{Type: TypeArtist, Artist: first}, nil
	}

	album, err := url.QueryUnescape(second)
	if err != nil {
		return nil, fmt.Errorf("invalid Last.fm URL %q: %w", input, err)
	}
	return &Resource{Type: TypeAlbum, Artist: first, Album: album}, nil
}
