package download

import (
	"context"
	"log/slog"
	"time"

	"github.com/musicdl/musicdl/internal/audio"
	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/http"
	ioutils "github.com/musicdl/musicdl/internal/io"
	"github.com/musicdl/musicdl/internal/metadata"
	"github.com/musicdl/musicdl/internal/spotify"
	"github.com/musicdl/musicdl/internal/spotify/dto"
	"github.com/musicdl/musicdl/internal/youtube"
)

// HTTPTimeout bounds catalog and artwork requests.
const HTTPTimeout = 30 * time.Second

// NewDependencies wires the production collaborators from settings.
//
// Without complete credentials, catalog links fail at resolution with
// spotify.ErrMissingCredentials while direct video links keep working.
func NewDependencies(ctx context.Context, settings *config.Settings, creds config.Credentials, logger *slog.Logger) (Dependencies, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := http.NewClient(HTTPTimeout)
	runner := youtube.ExecRunner{}

	var catalog LinkResolver = missingCredentials{}
	if creds.Complete() {
		api, err := spotify.NewClient(ctx, creds.ClientID, creds.ClientSecret, client.HTTPClient())
		if err != nil {
			return Dependencies{}, err
		}
		catalog = spotify.NewResolver(api)
	} else {
		logger.Warn("spotify credentials not set, only video links can be downloaded")
	}

	normalizer := metadata.NewNormalizer(client, ioutils.NewImageService(), metadata.Options{
		FetchCoverArt:   settings.SaveCoverArtInTags,
		CoverArtTimeout: settings.CoverArtRequestTimeout(),
		CoverArtMaxSize: settings.CoverArtMaxSize,
		ConvertToJPEG:   settings.ConvertCoverArtToJPG,
	}, logger)

	tagConfig := audio.DefaultTagConfig()
	tagConfig.ModifyTags = settings.ModifyTags
	tagConfig.CoverArt = settings.SaveCoverArtInTags

	return Dependencies{
		Resolver:   NewRouter(youtube.NewVideoResolver(settings.YtDlpPath, runner), catalog),
		Normalizer: normalizer,
		Searcher: youtube.NewSearcher(settings.YtDlpPath,
			youtube.WithCandidates(settings.SearchCandidates),
			youtube.WithSearchRunner(runner)),
		Fetcher:  youtube.NewFetcher(settings.YtDlpPath, settings.FFmpegLocation, runner),
		Tagger:   audio.NewTagger(tagConfig, logger),
		Playlist: audio.NewPlaylistCreator(settings.ToPlaylistFormat(), settings.M3UExtended),
	}, nil
}

// missingCredentials claims catalog links so they fail with a clear error.
type missingCredentials struct{}

func (missingCredentials) Accepts(link string) bool {
	return spotify.IsLink(link)
}

func (missingCredentials) Resolve(context.Context, string) (*dto.Collection, error) {
	return nil, spotify.ErrMissingCredentials
}
