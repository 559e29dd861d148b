package service

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"phonics-audio/internal/appdirs"
)

func (s *Service) outputPaths() appdirs.Paths {
	return appdirs.Paths{OutputDir: s.Conf.App.OutputDir}
}

func (s *Service) jobDir(subdir string) string {
	return appdirs.JobDirFor(s.outputPaths(), subdir)
}

// publicPrefix is the URL path of a job directory, e.g. "/sounds/letters".
func (s *Service) publicPrefix(subdir string) string {
	prefix := s.Conf.App.PublicPrefix
	if prefix == "" {
		prefix = "/"
	}
	return path.Join(prefix, filepath.ToSlash(strings.TrimSpace(subdir)))
}

// ResolveSoundFile maps a request path below /sounds to a file inside the
// sounds root. Paths that escape the root are rejected.
func ResolveSoundFile(outputDir, requestPath string) (string, error) {
	soundsRoot := appdirs.SoundsRootFor(appdirs.Paths{OutputDir: outputDir})
	cleaned := path.Clean("/" + strings.TrimSpace(requestPath))
	if cleaned == "/" {
		return "", fmt.Errorf("sound path %q is not a file path", requestPath)
	}

	full := filepath.Join(soundsRoot, filepath.FromSlash(cleaned))
	relPath, err := filepath.Rel(soundsRoot, full)
	if err != nil {
		return "", err
	}
	if relPath == "." || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("sound path %q is outside %q", requestPath, soundsRoot)
	}
	return full, nil
}
