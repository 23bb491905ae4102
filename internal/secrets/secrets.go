// Package secrets loads the routing API key from a file or the environment.
package secrets

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	qerrors "quote-calculator/internal/errors"
)

// DefaultFile and DefaultEnvVar are the conventional key locations
const (
	DefaultFile   = "secrets"
	DefaultEnvVar = "ORS_API"
)

// Source yields the API key
type Source interface {
	// Key returns the trimmed key, or a NotConfigured error when there is none
	Key() (string, error)
	// Name describes the source for logs
	Name() string
}

// FileSource reads the key from a file
type FileSource struct {
	Path string
}

// Key implements Source
func (f FileSource) Key() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", qerrors.NotConfigured("secrets file not found").WithContext("path", f.Path)
		}
		return "", qerrors.Wrap(qerrors.TypeNotConfigured, "read secrets file", err).WithContext("path", f.Path)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", qerrors.NotConfigured("secrets file is empty").WithContext("path", f.Path)
	}
	return key, nil
}

// Name implements Source
func (f FileSource) Name() string {
	return "file:" + f.Path
}

// EnvSource reads the key from an environment variable
type EnvSource struct {
	Var string
}

// Key implements Source
func (e EnvSource) Key() (string, error) {
	key := strings.TrimSpace(os.Getenv(e.Var))
	if key == "" {
		return "", qerrors.NotConfigured(e.Var + " is not set")
	}
	return key, nil
}

// Name implements Source
func (e EnvSource) Name() string {
	return "env:" + e.Var
}

// Chain returns the first key any source yields
type Chain []Source

// Key implements Source
func (c Chain) Key() (string, error) {
	var errs []error
	for _, s := range c {
		key, err := s.Key()
		if err == nil {
			return key, nil
		}
		errs = append(errs, err)
	}
	return "", qerrors.Wrap(qerrors.TypeNotConfigured, "API key not found", errors.Join(errs...))
}

// Name implements Source
func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name())
	}
	return strings.Join(names, ",")
}

// Default is the file-then-environment chain
func Default(file, envVar string) Chain {
	if file == "" {
		file = DefaultFile
	}
	if envVar == "" {
		envVar = DefaultEnvVar
	}
	return Chain{FileSource{Path: file}, EnvSource{Var: envVar}}
}
