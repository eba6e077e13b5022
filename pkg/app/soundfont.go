package app

import (
	"os"
	"path/filepath"

	"github.com/zurustar/mediastation/pkg/fileutil"
)

// DefaultSoundFontName is the SoundFont looked for when none is configured.
const DefaultSoundFontName = "GeneralUser-GS.sf2"

// findSoundFont returns the SoundFont to use, or "" when there is none. The
// search order is the --soundfont flag, the manifest's [audio] soundfont
// (relative to the title), then DefaultSoundFontName in the current
// directory and in the title directory.
func findSoundFont(flagPath, manifestPath, titleDir string) string {
	if flagPath != "" {
		return flagPath
	}
	if manifestPath != "" && titleDir != "" {
		if p, err := fileutil.NewRealFS(titleDir).Resolve(manifestPath); err == nil {
			return filepath.Join(titleDir, filepath.FromSlash(p))
		}
	}
	if _, err := os.Stat(DefaultSoundFontName); err == nil {
		return DefaultSoundFontName
	}
	if titleDir != "" {
		if p, err := fileutil.FindFileCaseInsensitive(titleDir, DefaultSoundFontName); err == nil {
			return p
		}
	}
	return ""
}
