package domain

import (
	"fmt"
	"strings"
)

// MediaKind represents the audio vs video branch of an acquisition
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

// AcquisitionPlan is the typed form of a format selection token
type AcquisitionPlan struct {
	Kind    MediaKind
	Quality string // bitrate for audio, max height for video; passed through uninterpreted
}

// ParseSelection parses a compound selection token of the form
// "<kind>-<quality>", e.g. "mp3-192" or "mp4-720".
//
// The kind token "mp3" selects audio; any other kind selects video. The
// permissive video default is deliberate so that quality tokens which are
// not literally "mp4" are still accepted. Quality is not validated here;
// bad values surface as engine failures.
func ParseSelection(selection string) (AcquisitionPlan, error) {
	parts := strings.Split(selection, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return AcquisitionPlan{}, fmt.Errorf("%w: %q", ErrInvalidSelection, selection)
	}

	kind := KindVideo
	if parts[0] == "mp3" {
		kind = KindAudio
	}

	return AcquisitionPlan{Kind: kind, Quality: parts[1]}, nil
}

// PostProcessingStep describes one engine post-processing pass
type PostProcessingStep struct {
	Codec   string
	Quality string
}

// EngineInstructions is the engine-facing configuration derived from an
// AcquisitionPlan. Output paths are relative to the per-request workspace.
type EngineInstructions struct {
	StreamSelector string
	OutputTemplate string
	PostProcessing []PostProcessingStep
	NoPlaylist     bool
}

// Instructions translates the plan into engine instructions. Pure, no
// failure path.
//
// Audio requests take the best audio stream and extract it to mp3 at the
// requested quality. Video requests merge the best video stream not taller
// than the requested height with the best audio stream, keeping the
// engine's native container extension. Playlist expansion is always
// disabled so a playlist URL yields only its primary item.
func (p AcquisitionPlan) Instructions() EngineInstructions {
	if p.Kind == KindAudio {
		return EngineInstructions{
			StreamSelector: "bestaudio/best",
			OutputTemplate: "%(title)s.mp3",
			PostProcessing: []PostProcessingStep{
				{Codec: "mp3", Quality: p.Quality},
			},
			NoPlaylist: true,
		}
	}

	return EngineInstructions{
		StreamSelector: fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best", p.Quality),
		OutputTemplate: "%(title)s.%(ext)s",
		NoPlaylist:     true,
	}
}
