package live

import (
	"context"
	"net/http"
	"strings"
	"time"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/httputil"
)

// HTTPResolver resolves statuses and channels through a JSON service.
//
//	POST {base}/live      {"sources":[{platform,channel,url}...]} -> {"statuses":{id:status}}
//	POST {base}/channels  {"urls":[...]}                         -> {"channels":{url:channel}}
type HTTPResolver struct {
	base   string
	client *httputil.Client
}

var (
	_ Resolver        = (*HTTPResolver)(nil)
	_ ChannelResolver = (*HTTPResolver)(nil)
)

// HTTPOption configures an HTTPResolver.
type HTTPOption func(*HTTPResolver)

// WithClient replaces the HTTP client.
func WithClient(c *httputil.Client) HTTPOption {
	return func(r *HTTPResolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPResolver) {
		if d <= 0 {
			return
		}
		if r.client.HTTP == nil {
			r.client.HTTP = &http.Client{}
		}
		r.client.HTTP.Timeout = d
	}
}

// WithToken sends a bearer token with every request.
func WithToken(token string) HTTPOption {
	return func(r *HTTPResolver) {
		if token != "" {
			if r.client.Header == nil {
				r.client.Header = make(http.Header)
			}
			r.client.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// NewHTTPResolver returns a resolver for the service at baseURL.
func NewHTTPResolver(baseURL string, opts ...HTTPOption) (*HTTPResolver, error) {
	if err := swerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := httputil.NewClient(15 * time.Second)
	c.Header = make(http.Header)
	r := &HTTPResolver{base: strings.TrimRight(baseURL, "/"), client: c}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type liveRequest struct {
	Sources []SourceRef `json:"sources"`
}

type liveResponse struct {
	Statuses map[string]Status `json:"statuses"`
}

type channelsRequest struct {
	URLs []string `json:"urls"`
}

type channelsResponse struct {
	Channels map[string]Channel `json:"channels"`
}

// Resolve implements [Resolver].
func (r *HTTPResolver) Resolve(ctx context.Context, refs []SourceRef) (map[string]Status, error) {
	if len(refs) == 0 {
		return map[string]Status{}, nil
	}
	var resp liveResponse
	if err := r.client.PostJSON(ctx, r.base+"/live", liveRequest{Sources: refs}, &resp); err != nil {
		return nil, swerrors.Wrap(swerrors.ErrCodeNetwork, err, "resolve %d sources", len(refs))
	}
	if resp.Statuses == nil {
		resp.Statuses = map[string]Status{}
	}
	return resp.Statuses, nil
}

// ResolveChannels implements [ChannelResolver].
func (r *HTTPResolver) ResolveChannels(ctx context.Context, urls []string) (map[string]Channel, error) {
	if len(urls) == 0 {
		return map[string]Channel{}, nil
	}
	var resp channelsResponse
	if err := r.client.PostJSON(ctx, r.base+"/channels", channelsRequest{URLs: urls}, &resp); err != nil {
		return nil, swerrors.Wrap(swerrors.ErrCodeNetwork, err, "resolve %d channels", len(urls))
	}
	if resp.Channels == nil {
		resp.Channels = map[string]Channel{}
	}
	return resp.Channels, nil
}
