// Package source parses channel URLs of the supported live platforms into
// normalized source references.
//
// Accepted inputs:
//
//	https://www.youtube.com/@lofigirl          youtube:@lofigirl
//	https://youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow
//	https://www.youtube.com/c/LofiGirl/live    youtube:c:LofiGirl
//	https://www.twitch.tv/Shroud               twitch:shroud
//	kick.com/xqc                               kick:xqc
//
// Scheme and "www." are optional, and trailing tabs such as /live, /videos or
// /streams are dropped.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
)

// Platform identifies a live video platform.
type Platform string

const (
	YouTube Platform = "youtube"
	Twitch  Platform = "twitch"
	Kick    Platform = "kick"
)

// Platforms lists the supported platforms.
var Platforms = []Platform{YouTube, Twitch, Kick}

// Valid reports whether p is supported.
func (p Platform) Valid() bool {
	switch p {
	case YouTube, Twitch, Kick:
		return true
	}
	return false
}

// Ref is a normalized reference to one channel.
type Ref struct {
	Platform Platform `json:"platform" toml:"platform"`
	// Channel is the platform-specific channel key: "@handle", a "UC…"
	// channel ID, "c:name" or "user:name" on YouTube; the lower-case login
	// on Twitch and Kick.
	Channel string `json:"channel" toml:"channel"`
	// URL is the canonical channel URL.
	URL string `json:"url" toml:"url"`
}

// ID returns the stream identifier "platform:channel".
func (r Ref) ID() string { return string(r.Platform) + ":" + r.Channel }

func (r Ref) String() string { return r.ID() }

var (
	youtubeHandle  = regexp.MustCompile(`^@[A-Za-z0-9._-]{3,30}$`)
	youtubeChannel = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	youtubeName    = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
	twitchLogin    = regexp.MustCompile(`^[a-z0-9_]{3,25}$`)
	kickSlug       = regexp.MustCompile(`^[a-z0-9_-]{2,25}$`)
)

// trailing path segments that point at a tab of a channel page.
var channelTabs = map[string]bool{
	"live": true, "videos": true, "streams": true, "featured": true,
	"about": true, "shorts": true, "home": true, "schedule": true,
}

// reserved first path segments that are not channels.
var reserved = map[Platform]map[string]bool{
	Twitch: {"directory": true, "videos": true, "settings": true, "search": true, "downloads": true, "p": true},
	Kick:   {"categories": true, "browse": true, "following": true, "search": true},
}

// ErrUnsupported is returned for URLs of unknown platforms.
var ErrUnsupported = errors.New("unsupported platform")

// Parse normalizes a channel URL or a "platform:channel" string.
func Parse(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, swerrors.New(swerrors.ErrCodeInvalidURL, "empty source")
	}

	if p, ch, ok := splitShorthand(raw); ok {
		ref, err := fromParts(p, ch)
		if err != nil {
			return Ref{}, swerrors.Wrap(swerrors.ErrCodeInvalidURL, err, "parse %q", raw)
		}
		return ref, nil
	}

	ref, err := fromURL(raw)
	if err != nil {
		return Ref{}, swerrors.Wrap(swerrors.ErrCodeInvalidURL, err, "parse %q", raw)
	}
	return ref, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level variables.
func MustParse(raw string) Ref {
	ref, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ref
}

// splitShorthand recognizes "platform:channel".
func splitShorthand(raw string) (Platform, string, bool) {
	if strings.Contains(raw, "://") {
		return "", "", false
	}
	name, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return "", "", false
	}
	p := Platform(strings.ToLower(name))
	if !p.Valid() {
		return "", "", false
	}
	return p, rest, true
}

// fromParts builds a Ref from a platform and a shorthand channel.
func fromParts(p Platform, channel string) (Ref, error) {
	if p == YouTube {
		if kind, name, ok := strings.Cut(channel, ":"); ok {
			return youtubeRef([]string{kind, name})
		}
		return youtubeRef([]string{channel})
	}
	return loginRef(p, channel)
}

func fromURL(raw string) (Ref, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Ref{}, fmt.Errorf("scheme %q not allowed", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}

	segs := pathSegments(u.Path)
	switch host {
	case "youtube.com":
		return youtubeRef(segs)
	case "twitch.tv":
		if len(segs) == 0 {
			return Ref{}, errors.New("missing twitch channel")
		}
		return loginRef(Twitch, segs[0])
	case "kick.com":
		if len(segs) == 0 {
			return Ref{}, errors.New("missing kick channel")
		}
		return loginRef(Kick, segs[0])
	default:
		return Ref{}, fmt.Errorf("%w: %s", ErrUnsupported, host)
	}
}

// youtubeRef normalizes YouTube path segments.
func youtubeRef(segs []string) (Ref, error) {
	if len(segs) == 0 {
		return Ref{}, errors.New("missing youtube channel")
	}
	first := segs[0]
	switch {
	case strings.HasPrefix(first, "@"):
		if !youtubeHandle.MatchString(first) {
			return Ref{}, fmt.Errorf("invalid youtube handle %q", first)
		}
		return Ref{Platform: YouTube, Channel: first, URL: "https://www.youtube.com/" + first}, nil

	case first == "channel" && len(segs) > 1:
		return youtubeRef(segs[1:])

	case youtubeChannel.MatchString(first):
		return Ref{Platform: YouTube, Channel: first, URL: "https://www.youtube.com/channel/" + first}, nil

	case (first == "c" || first == "user") && len(segs) > 1:
		name := segs[1]
		if !youtubeName.MatchString(name) {
			return Ref{}, fmt.Errorf("invalid youtube %s name %q", first, name)
		}
		return Ref{
			Platform: YouTube,
			Channel:  first + ":" + name,
			URL:      "https://www.youtube.com/" + first + "/" + name,
		}, nil
	}
	return Ref{}, fmt.Errorf("not a youtube channel path: /%s", strings.Join(segs, "/"))
}

// loginRef normalizes Twitch and Kick channel logins.
func loginRef(p Platform, login string) (Ref, error) {
	login = strings.ToLower(login)
	if reserved[p][login] {
		return Ref{}, fmt.Errorf("%q is not a %s channel", login, p)
	}
	var host string
	switch p {
	case Twitch:
		if !twitchLogin.MatchString(login) {
			return Ref{}, fmt.Errorf("invalid twitch login %q", login)
		}
		host = "https://www.twitch.tv/"
	case Kick:
		if !kickSlug.MatchString(login) {
			return Ref{}, fmt.Errorf("invalid kick channel %q", login)
		}
		host = "https://kick.com/"
	default:
		return Ref{}, fmt.Errorf("%w: %s", ErrUnsupported, p)
	}
	return Ref{Platform: p, Channel: login, URL: host + login}, nil
}

// pathSegments splits a URL path and drops a trailing channel tab.
func pathSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if n := len(segs); n > 1 && channelTabs[strings.ToLower(segs[n-1])] {
		segs = segs[:n-1]
	}
	return segs
}
