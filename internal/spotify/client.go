package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

// ErrMissingCredentials is returned by NewClient when the client id or secret
// is empty.
var ErrMissingCredentials = errors.New("spotify client credentials are not set")

// Client implements Catalog over the Spotify Web API.
type Client struct {
	api *spotify.Client
}

// NewClient authenticates with the client credentials flow and returns a
// Catalog. The token is fetched once up front so bad credentials fail fast;
// later tokens are refreshed automatically.
//
// httpClient, when not nil, carries both the token and the API requests.
func NewClient(ctx context.Context, clientID, clientSecret string, httpClient *http.Client) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	base := context.Background()
	if httpClient != nil {
		base = context.WithValue(base, oauth2.HTTPClient, httpClient)
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	if _, err := cfg.Token(ctx); err != nil {
		return nil, fmt.Errorf("spotify auth: %w", err)
	}

	return &Client{
		api: spotify.New(cfg.Client(base), spotify.WithRetry(true)),
	}, nil
}

// Track fetches a single track with its album data.
func (c *Client) Track(ctx context.Context, id string) (*dto.Track, error) {
	t, err := c.api.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, err
	}
	return dto.FromFullTrack(t), nil
}

// Album fetches album data without its track listing.
func (c *Client) Album(ctx context.Context, id string) (*dto.Album, error) {
	a, err := c.api.GetAlbum(ctx, spotify.ID(id))
	if err != nil {
		return nil, err
	}
	return dto.FromSimpleAlbum(a.SimpleAlbum), nil
}

// AlbumTracks fetches one page of an album's track listing. The cursor is a
// decimal offset.
func (c *Client) AlbumTracks(ctx context.Context, id, cursor string, limit int) (Page, error) {
	offset := parseCursor(cursor)

	page, err := c.api.GetAlbumTracks(ctx, spotify.ID(id), spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return Page{}, err
	}

	items := make([]*dto.Track, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		items = append(items, dto.FromSimpleTrack(t))
	}
	return Page{Items: items, Next: nextCursor(page.Next, offset, len(page.Tracks))}, nil
}

// PlaylistName fetches only the playlist's display name.
func (c *Client) PlaylistName(ctx context.Context, id string) (string, error) {
	p, err := c.api.GetPlaylist(ctx, spotify.ID(id), spotify.Fields("name"))
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// PlaylistTracks fetches one page of a playlist. Episodes and unavailable
// tracks come back as nil items.
func (c *Client) PlaylistTracks(ctx context.Context, id, cursor string, limit int) (Page, error) {
	offset := parseCursor(cursor)

	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(id), spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return Page{}, err
	}

	items := make([]*dto.Track, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, dto.FromFullTrack(item.Track.Track))
	}
	return Page{Items: items, Next: nextCursor(page.Next, offset, len(page.Items))}, nil
}

func parseCursor(cursor string) int {
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func nextCursor(next string, offset, count int) string {
	if next == "" || count == 0 {
		return ""
	}
	return strconv.Itoa(offset + count)
}
