package config

const (
	defaultHome             = "~/.bilistage"
	configFileName          = "config.toml"
	defaultLibraryDir       = "~/Movies"
	defaultFFmpeg           = "ffmpeg"
	defaultFFprobe          = "ffprobe"
	defaultUploader         = "biliup"
	defaultCredential       = "cookies.json"
	defaultUploadLimit      = 4
	defaultUploadTID        = 183
	defaultFillerMaxSeconds = 180
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// defaultEpisodeRegexes recognise "Title.S01E02" style names and release names
// that only carry an episode number ("Title.Alias.2013.E07.4K...").
var defaultEpisodeRegexes = []string{
	`(?i)^(?P<title>[^./]+?)[ ._-]*S(?P<season>\d{1,4})E(?P<episode>\d{1,5})`,
	`(?i)^(?P<title>[^./]+?)\..*?\bE(?P<episode>\d{1,3})\b`,
}

// Default returns a Config populated with repository defaults. Paths that live
// under the configuration home are left empty and filled in by normalize.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
		},
		Toolchain: Toolchain{
			FFmpeg:   defaultFFmpeg,
			FFprobe:  defaultFFprobe,
			Uploader: defaultUploader,
		},
		Upload: Upload{
			Credential: defaultCredential,
			Limit:      defaultUploadLimit,
			TID:        defaultUploadTID,
		},
		Filler: Filler{
			MaxSeconds: defaultFillerMaxSeconds,
		},
		Episode: Episode{
			Regexes: append([]string(nil), defaultEpisodeRegexes...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
