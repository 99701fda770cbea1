package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		wantKind  MediaKind
		wantQual  string
		wantErr   bool
	}{
		{
			name:      "audio selection",
			selection: "mp3-192",
			wantKind:  KindAudio,
			wantQual:  "192",
		},
		{
			name:      "video selection",
			selection: "mp4-720",
			wantKind:  KindVideo,
			wantQual:  "720",
		},
		{
			name:      "unknown kind defaults to video",
			selection: "webm-1080",
			wantKind:  KindVideo,
			wantQual:  "1080",
		},
		{
			name:      "no delimiter",
			selection: "bad",
			wantErr:   true,
		},
		{
			name:      "too many delimiters",
			selection: "mp3-192-extra",
			wantErr:   true,
		},
		{
			name:      "empty kind token",
			selection: "-720",
			wantErr:   true,
		},
		{
			name:      "empty quality token",
			selection: "mp3-",
			wantErr:   true,
		},
		{
			name:      "empty selection",
			selection: "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := ParseSelection(tt.selection)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, plan.Kind)
			assert.Equal(t, tt.wantQual, plan.Quality)
		})
	}
}

func TestInstructions_Audio(t *testing.T) {
	plan := AcquisitionPlan{Kind: KindAudio, Quality: "192"}
	inst := plan.Instructions()

	assert.Equal(t, "bestaudio/best", inst.StreamSelector)
	assert.Equal(t, "%(title)s.mp3", inst.OutputTemplate)
	require.Len(t, inst.PostProcessing, 1)
	assert.Equal(t, "mp3", inst.PostProcessing[0].Codec)
	assert.Equal(t, "192", inst.PostProcessing[0].Quality)
	assert.True(t, inst.NoPlaylist)
}

func TestInstructions_Video(t *testing.T) {
	plan := AcquisitionPlan{Kind: KindVideo, Quality: "720"}
	inst := plan.Instructions()

	assert.Equal(t, "bestvideo[height<=720]+bestaudio/best", inst.StreamSelector)
	assert.Equal(t, "%(title)s.%(ext)s", inst.OutputTemplate)
	assert.Empty(t, inst.PostProcessing)
	assert.True(t, inst.NoPlaylist)
}
