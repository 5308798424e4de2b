package source

import (
	"errors"
	"testing"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{
			in:   "https://www.youtube.com/@lofigirl",
			want: Ref{Platform: YouTube, Channel: "@lofigirl", URL: "https://www.youtube.com/@lofigirl"},
		},
		{
			in:   "youtube.com/@lofigirl/live",
			want: Ref{Platform: YouTube, Channel: "@lofigirl", URL: "https://www.youtube.com/@lofigirl"},
		},
		{
			in:   "https://m.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow/streams",
			want: Ref{Platform: YouTube, Channel: "UCSJ4gkVC6NrvII8umztf0Ow", URL: "https://www.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow"},
		},
		{
			in:   "https://www.youtube.com/c/LofiGirl/videos",
			want: Ref{Platform: YouTube, Channel: "c:LofiGirl", URL: "https://www.youtube.com/c/LofiGirl"},
		},
		{
			in:   "http://youtube.com/user/someone",
			want: Ref{Platform: YouTube, Channel: "user:someone", URL: "https://www.youtube.com/user/someone"},
		},
		{
			in:   "https://www.twitch.tv/Shroud",
			want: Ref{Platform: Twitch, Channel: "shroud", URL: "https://www.twitch.tv/shroud"},
		},
		{
			in:   "  twitch.tv/shroud/videos  ",
			want: Ref{Platform: Twitch, Channel: "shroud", URL: "https://www.twitch.tv/shroud"},
		},
		{
			in:   "kick.com/xqc",
			want: Ref{Platform: Kick, Channel: "xqc", URL: "https://kick.com/xqc"},
		},
		{
			in:   "twitch:Shroud",
			want: Ref{Platform: Twitch, Channel: "shroud", URL: "https://www.twitch.tv/shroud"},
		},
		{
			in:   "youtube:c:LofiGirl",
			want: Ref{Platform: YouTube, Channel: "c:LofiGirl", URL: "https://www.youtube.com/c/LofiGirl"},
		},
		{
			in:   "youtube:@lofigirl",
			want: Ref{Platform: YouTube, Channel: "@lofigirl", URL: "https://www.youtube.com/@lofigirl"},
		},
		{in: "", wantErr: true},
		{in: "https://youtu.be/dQw4w9WgXcQ", wantErr: true},
		{in: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantErr: true},
		{in: "https://www.twitch.tv/directory", wantErr: true},
		{in: "https://www.twitch.tv/", wantErr: true},
		{in: "twitch.tv/ab", wantErr: true},
		{in: "kick.com/categories", wantErr: true},
		{in: "ftp://twitch.tv/shroud", wantErr: true},
		{in: "https://example.com/shroud", wantErr: true},
		{in: "vimeo:someone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !swerrors.Is(err, swerrors.ErrCodeInvalidURL) {
					t.Errorf("Parse(%q) code = %v, want %v", tt.in, swerrors.GetCode(err), swerrors.ErrCodeInvalidURL)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse("https://vimeo.com/someone")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Parse() error = %v, want ErrUnsupported", err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"https://www.youtube.com/@lofigirl",
		"https://www.youtube.com/c/LofiGirl",
		"https://www.twitch.tv/shroud",
		"https://kick.com/xqc",
	}
	for _, in := range inputs {
		ref := MustParse(in)
		again, err := Parse(ref.URL)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", ref.URL, err)
		}
		if again != ref {
			t.Errorf("Parse(%q) = %+v, want %+v", ref.URL, again, ref)
		}
		byID, err := Parse(ref.ID())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", ref.ID(), err)
		}
		if byID != ref {
			t.Errorf("Parse(%q) = %+v, want %+v", ref.ID(), byID, ref)
		}
	}
}

func TestRefID(t *testing.T) {
	ref := Ref{Platform: Twitch, Channel: "shroud"}
	if got := ref.ID(); got != "twitch:shroud" {
		t.Errorf("ID() = %q, want %q", got, "twitch:shroud")
	}
	if err := swerrors.ValidateStreamID(MustParse("youtube.com/c/LofiGirl").ID()); err != nil {
		t.Errorf("ValidateStreamID() error = %v", err)
	}
}

func TestPlatformValid(t *testing.T) {
	for _, p := range Platforms {
		if !p.Valid() {
			t.Errorf("%s.Valid() = false", p)
		}
	}
	if Platform("vimeo").Valid() {
		t.Error("vimeo.Valid() = true")
	}
}
