// Package project reads and writes streamwall project files.
//
// A project file is a small TOML document holding the project identity and
// its ordered list of streams:
//
//	id = "5f0b6f2e-8c1d-4a53-9d5c-2f6c1e0b7a11"
//	name = "evening"
//
//	[[streams]]
//	id = "youtube:@lofigirl"
//	platform = "youtube"
//	channel = "@lofigirl"
//	url = "https://www.youtube.com/@lofigirl"
//
//	[[streams]]
//	id = "twitch:shroud"
//	platform = "twitch"
//	channel = "shroud"
//	url = "https://www.twitch.tv/shroud"
//	title = "Shroud"
//
// The stream order is the order tiles are laid out in.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/source"
)

// DefaultFile is the project file name looked up in the working directory.
const DefaultFile = "streamwall.toml"

var (
	// ErrDuplicate is returned by Add for a stream that is already present.
	ErrDuplicate = swerrors.New(swerrors.ErrCodeInvalidStream, "stream already in project")

	// ErrNotFound is returned by Remove for an unknown stream.
	ErrNotFound = swerrors.New(swerrors.ErrCodeNotFound, "stream not in project")
)

// Stream is one entry of a project.
type Stream struct {
	ID       string          `toml:"id" json:"id"`
	Platform source.Platform `toml:"platform" json:"platform"`
	Channel  string          `toml:"channel" json:"channel"`
	URL      string          `toml:"url" json:"url"`
	Title    string          `toml:"title,omitempty" json:"title,omitempty"`
}

// Ref returns the source reference of s.
func (s Stream) Ref() source.Ref {
	return source.Ref{Platform: s.Platform, Channel: s.Channel, URL: s.URL}
}

// Label returns the title, or the stream ID when untitled.
func (s Stream) Label() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// Project is a named, ordered set of streams.
type Project struct {
	ID      string   `toml:"id" json:"id"`
	Name    string   `toml:"name" json:"name"`
	Streams []Stream `toml:"streams" json:"streams"`
}

// New creates an empty project with a fresh ID.
func New(name string) *Project {
	return &Project{ID: uuid.NewString(), Name: name}
}

// Load reads and validates the project file at path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, swerrors.Wrap(swerrors.ErrCodeNotFound, err, "no project file at %s", path)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a project document.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, swerrors.Wrap(swerrors.ErrCodeInvalidProject, err, "decode project")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes p to path, replacing any existing file atomically.
func (p *Project) Save(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".streamwall-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Validate checks the project ID and every stream.
func (p *Project) Validate() error {
	if err := swerrors.ValidateProjectID(p.ID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Streams))
	for _, s := range p.Streams {
		if err := swerrors.ValidateStreamID(s.ID); err != nil {
			return err
		}
		if seen[s.ID] {
			return swerrors.Wrap(swerrors.ErrCodeInvalidProject, ErrDuplicate, "stream %q listed twice", s.ID)
		}
		seen[s.ID] = true
		if s.Platform != "" && !s.Platform.Valid() {
			return swerrors.New(swerrors.ErrCodeInvalidProject, "stream %q: unknown platform %q", s.ID, s.Platform)
		}
	}
	return nil
}

// Add appends a stream for ref. Title may be empty.
func (p *Project) Add(ref source.Ref, title string) (Stream, error) {
	s := Stream{
		ID:       ref.ID(),
		Platform: ref.Platform,
		Channel:  ref.Channel,
		URL:      ref.URL,
		Title:    title,
	}
	if err := swerrors.ValidateStreamID(s.ID); err != nil {
		return Stream{}, err
	}
	if p.Index(s.ID) >= 0 {
		return Stream{}, swerrors.Wrap(swerrors.ErrCodeInvalidStream, ErrDuplicate, "add %q", s.ID)
	}
	p.Streams = append(p.Streams, s)
	return s, nil
}

// Remove deletes the stream with the given ID.
func (p *Project) Remove(id string) error {
	i := p.Index(id)
	if i < 0 {
		return swerrors.Wrap(swerrors.ErrCodeNotFound, ErrNotFound, "remove %q", id)
	}
	p.Streams = slices.Delete(p.Streams, i, i+1)
	return nil
}

// Index returns the position of stream id, or -1.
func (p *Project) Index(id string) int {
	return slices.IndexFunc(p.Streams, func(s Stream) bool { return s.ID == id })
}

// Find returns the stream with the given ID.
func (p *Project) Find(id string) (Stream, bool) {
	if i := p.Index(id); i >= 0 {
		return p.Streams[i], true
	}
	return Stream{}, false
}

// StreamIDs returns the ordered stream IDs.
func (p *Project) StreamIDs() []string {
	ids := make([]string, len(p.Streams))
	for i, s := range p.Streams {
		ids[i] = s.ID
	}
	return ids
}

// Refs returns the source references of all streams with a known platform.
func (p *Project) Refs() []source.Ref {
	var refs []source.Ref
	for _, s := range p.Streams {
		if s.Platform.Valid() {
			refs = append(refs, s.Ref())
		}
	}
	return refs
}
