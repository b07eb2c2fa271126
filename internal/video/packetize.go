package video

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// annexBFilters maps each packetizable codec family to its bitstream filter.
var annexBFilters = map[string]string{
	"h264": "h264_mp4toannexb",
	"hevc": "hevc_mp4toannexb",
}

// BitstreamFilter returns the annex-B filter for codec.
func BitstreamFilter(codec string) (string, error) {
	codec = strings.ToLower(strings.TrimSpace(codec))
	filter, ok := annexBFilters[codec]
	if !ok {
		return "", &UnsupportedCodecError{Codec: codec}
	}
	return filter, nil
}

// PacketStreamPath returns the MPEG-TS path ToPacketStream writes for clip.
func PacketStreamPath(clip string) string {
	return strings.TrimSuffix(clip, filepath.Ext(clip)) + ".ts"
}

// PacketizeArgs returns the ffmpeg arguments that rewrap clip as MPEG-TS.
func PacketizeArgs(clip, destination, filter string) []string {
	return []string{"-i", clip, "-codec", "copy", "-bsf:v", filter, "-f", "mpegts", destination}
}

// ToPacketStream rewraps clip as an MPEG-TS file next to it and returns the
// new path. The clip itself is left in place.
func (t Tools) ToPacketStream(ctx context.Context, clip string) (string, error) {
	return t.ToPacketStreamAt(ctx, clip, PacketStreamPath(clip))
}

// ToPacketStreamAt is ToPacketStream with an explicit destination.
func (t Tools) ToPacketStreamAt(ctx context.Context, clip, destination string) (string, error) {
	t = t.withDefaults()
	media, err := t.Probe(ctx, clip)
	if err != nil {
		return "", err
	}
	filter, err := BitstreamFilter(media.Codec)
	if err != nil {
		return "", err
	}
	if err := t.ffmpeg(ctx, PacketizeArgs(clip, destination, filter)...); err != nil {
		return "", fmt.Errorf("packetize %s: %w", clip, err)
	}
	return destination, nil
}
