package video

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grafov/m3u8"

	"bilistage/internal/logging"
	"bilistage/internal/services"
	"bilistage/internal/timeline"
)

// Transcode1080Args returns the fixed x264/AAC 1080p25 profile.
func Transcode1080Args(source, destination string) []string {
	return []string{
		"-i", source,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-maxrate", "17185k",
		"-bufsize", "34370k",
		"-crf", "23",
		"-r", "25",
		"-s", "1920x1080",
		"-c:a", "aac",
		"-b:a", "319k",
		"-ar", "48000",
		"-ac", "2",
		destination,
	}
}

// Transcode1080 re-encodes source to 1920x1080 at 25 fps.
func (t Tools) Transcode1080(ctx context.Context, source, destination string) (string, error) {
	t = t.withDefaults()
	if _, err := statSource(source); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}
	if err := t.ffmpeg(ctx, Transcode1080Args(source, destination)...); err != nil {
		return "", fmt.Errorf("transcode %s: %w", source, err)
	}
	t.logger(ctx, "transcoder").Info("transcoded to 1080p", logging.String("destination", destination))
	return destination, nil
}

// PlaylistInfo summarises a media playlist.
type PlaylistInfo struct {
	Segments        int
	DurationSeconds float64
}

// InspectPlaylist decodes an HLS media playlist. Master playlists are
// rejected because ffmpeg would pick a variant on its own.
func InspectPlaylist(path string) (PlaylistInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PlaylistInfo{}, &SourceNotFoundError{Path: path}
		}
		return PlaylistInfo{}, fmt.Errorf("open playlist: %w", err)
	}
	defer file.Close()

	playlist, listType, err := m3u8.DecodeFrom(bufio.NewReader(file), true)
	if err != nil {
		return PlaylistInfo{}, services.Wrap(services.ErrValidation, "remux", "parse playlist", path, err)
	}
	if listType == m3u8.MASTER {
		return PlaylistInfo{}, services.Wrap(services.ErrValidation, "remux", "parse playlist", path+" is a master playlist; pass a variant playlist", nil)
	}
	media, ok := playlist.(*m3u8.MediaPlaylist)
	if !ok {
		return PlaylistInfo{}, services.Wrap(services.ErrValidation, "remux", "parse playlist", "unexpected playlist type", nil)
	}

	var info PlaylistInfo
	for _, seg := range media.Segments {
		if seg == nil {
			break
		}
		info.Segments++
		info.DurationSeconds += seg.Duration
	}
	if info.Segments == 0 {
		return PlaylistInfo{}, services.Wrap(services.ErrValidation, "remux", "parse playlist", path+" contains no segments", nil)
	}
	return info, nil
}

// RemuxArgs returns the stream-copy remux arguments for source.
func RemuxArgs(source, destination string) []string {
	if strings.EqualFold(filepath.Ext(source), ".m3u8") {
		return []string{"-allowed_extensions", "ALL", "-i", source, "-c", "copy", destination}
	}
	return []string{"-i", source, "-c", "copy", destination}
}

// ToMP4 remuxes source into an MP4 container without re-encoding.
func (t Tools) ToMP4(ctx context.Context, source, destination string) (string, error) {
	t = t.withDefaults()
	if _, err := statSource(source); err != nil {
		return "", err
	}
	logger := t.logger(ctx, "remuxer")
	if strings.EqualFold(filepath.Ext(source), ".m3u8") {
		info, err := InspectPlaylist(source)
		if err != nil {
			return "", err
		}
		logger.Info("playlist inspected",
			logging.String("source", source),
			logging.Int("segments", info.Segments),
			logging.String("duration", timeline.FormatClock(info.DurationSeconds)),
		)
	}
	if err := t.ffmpeg(ctx, RemuxArgs(source, destination)...); err != nil {
		return "", fmt.Errorf("remux %s: %w", source, err)
	}
	logger.Info("remuxed to mp4", logging.String("destination", destination))
	return destination, nil
}

var (
	videoExtensions = map[string]bool{".mp4": true, ".mkv": true, ".flv": true, ".ts": true, ".mov": true, ".m4v": true, ".webm": true, ".m3u8": true}
	audioExtensions = map[string]bool{".m4a": true, ".aac": true, ".flac": true, ".wav": true, ".ogg": true, ".opus": true}
)

// MP3Args returns the libmp3lame arguments for source. Video sources map the
// audio streams only.
func MP3Args(source, destination string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(source))
	switch {
	case videoExtensions[ext]:
		return []string{"-i", source, "-map", "a", "-c:a", "libmp3lame", "-q:a", "0", destination}, nil
	case audioExtensions[ext]:
		return []string{"-i", source, "-c:a", "libmp3lame", "-q:a", "0", destination}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "mp3", "classify source", fmt.Sprintf("unsupported extension %q", ext), nil)
	}
}

// ToMP3 extracts the audio of source as MP3. An .mp3 source is returned as is.
func (t Tools) ToMP3(ctx context.Context, source, destination string) (string, error) {
	t = t.withDefaults()
	if _, err := statSource(source); err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(source), ".mp3") {
		return source, nil
	}
	args, err := MP3Args(source, destination)
	if err != nil {
		return "", err
	}
	if err := t.ffmpeg(ctx, args...); err != nil {
		return "", fmt.Errorf("extract mp3 from %s: %w", source, err)
	}
	t.logger(ctx, "mp3").Info("audio extracted", logging.String("destination", destination))
	return destination, nil
}

// ScreenshotArgs returns the single-frame capture arguments.
func ScreenshotArgs(source, destination string, second float64) []string {
	return []string{"-ss", timeline.FormatClock(second), "-i", source, "-vframes", "1", "-q:v", "1", destination}
}

// Screenshot captures the frame at second into destination.
func (t Tools) Screenshot(ctx context.Context, source, destination string, second float64) (string, error) {
	t = t.withDefaults()
	if _, err := statSource(source); err != nil {
		return "", err
	}
	if err := t.ffmpeg(ctx, ScreenshotArgs(source, destination, second)...); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", source, err)
	}
	return destination, nil
}
