package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

// ErrUnsupportedLink is returned by Router when no resolver accepts a link.
var ErrUnsupportedLink = errors.New("unsupported link")

// LinkResolver is a Resolver that can tell whether it handles a link.
type LinkResolver interface {
	Resolver
	Accepts(link string) bool
}

// Router dispatches a link to the first resolver that accepts it.
type Router struct {
	resolvers []LinkResolver
}

// NewRouter creates a Router trying resolvers in order.
func NewRouter(resolvers ...LinkResolver) *Router {
	return &Router{resolvers: resolvers}
}

// Accepts reports whether any resolver handles link.
func (r *Router) Accepts(link string) bool {
	for _, res := range r.resolvers {
		if res.Accepts(link) {
			return true
		}
	}
	return false
}

// Resolve implements Resolver.
func (r *Router) Resolve(ctx context.Context, link string) (*dto.Collection, error) {
	for _, res := range r.resolvers {
		if res.Accepts(link) {
			return res.Resolve(ctx, link)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedLink, link)
}
