// Package spotify resolves catalog links into ordered lists of raw track
// records.
//
// Supported link shapes:
//
//	https://open.spotify.com/track/<id>
//	https://open.spotify.com/intl-de/album/<id>?si=...
//	spotify:playlist:<id>
//
// Resolver works against the Catalog interface; Client implements it over
// the Spotify Web API using the client credentials flow.
//
//	client, err := spotify.NewClient(ctx, creds, httpClient)
//	resolver := spotify.NewResolver(client)
//	collection, err := resolver.Resolve(ctx, link)
//	if errors.Is(err, spotify.ErrNoTracks) {
//	    // nothing to download
//	}
package spotify
