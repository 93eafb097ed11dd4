package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver resolves document paths given on the command line
type PathResolver struct {
	executableDir string
	workingDir    string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	workingDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not determine working directory: %v", err)
		workingDir = "."
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		workingDir:    workingDir,
	}
	log.Debugf("PathResolver initialized: execDir=%s, workDir=%s", pr.executableDir, pr.workingDir)
	return pr, nil
}

// ResolveDocumentPath finds a document: as given, relative to the working
// dir, then relative to the executable
func (pr *PathResolver) ResolveDocumentPath(path string) (string, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = append(candidates,
			filepath.Join(pr.workingDir, path),
			filepath.Join(pr.executableDir, path))
	}
	for _, c := range candidates {
		if stat, err := os.Stat(c); err == nil && !stat.IsDir() {
			log.Debugf("Resolved document %s to %s", path, c)
			return GetAbsolutePath(c), nil
		}
	}
	return "", &os.PathError{Op: "resolve", Path: path, Err: os.ErrNotExist}
}

// ExecutableDir returns the directory of the running binary
func (pr *PathResolver) ExecutableDir() string {
	return pr.executableDir
}
