package playlist

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/llehouerou/eqwaves/internal/player"
)

// CollectFromPaths reads every audio file named by paths. Directories are
// walked recursively and their files added in lexical order; files the
// decoder would not recognize are skipped.
func CollectFromPaths(paths ...string) ([]Track, error) {
	var tracks []Track
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if !player.IsAudioFile(p) {
				continue
			}
			t, err := readTrack(p)
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, t)
			continue
		}

		files, err := audioFilesUnder(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			t, err := readTrack(f)
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

func audioFilesUnder(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && player.IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func readTrack(path string) (Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Track{}, err
	}
	return NewTrack(filepath.Base(path), data), nil
}
