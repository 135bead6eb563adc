package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Loader resolves a script location to its text
type Loader struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewLoader creates a loader. A nil fetcher disables http(s) locations.
func NewLoader(fetcher *Fetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, logger: logger.Named("source")}
}

// Load reads the script at location, a path, file:// URL or http(s) URL
func (l *Loader) Load(ctx context.Context, location string) (*Script, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: no location given", ErrUnsupportedScheme)
	}

	var (
		data        []byte
		contentType string
		err         error
	)

	if path, ok := LocalPath(location); ok {
		data, err = readFile(path)
	} else {
		u, perr := url.Parse(location)
		switch {
		case perr != nil:
			return nil, fmt.Errorf("invalid script location: %w", perr)
		case u.Scheme != "http" && u.Scheme != "https":
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
		case l.fetcher == nil:
			return nil, fmt.Errorf("%w: remote loading disabled", ErrUnsupportedScheme)
		}
		data, contentType, err = l.fetcher.Fetch(ctx, u)
	}
	if err != nil {
		return nil, err
	}

	body, charsetName := decode(data, contentType)
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyScript
	}

	script := newScript(location, body, charsetName)
	l.logger.Info("Loaded PAC script",
		zap.String("location", redact(location)),
		zap.Int("bytes", len(body)),
		zap.String("charset", charsetName),
		zap.String("checksum", script.Checksum))
	return script, nil
}

// LocalPath returns the filesystem path for a plain path or file:// URL
func LocalPath(location string) (string, bool) {
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", false
		}
		return filepath.FromSlash(u.Path), true
	}

	u, err := url.Parse(location)
	// Single letter schemes are Windows drive letters
	if err == nil && len(u.Scheme) > 1 {
		return "", false
	}
	return location, true
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	if info.Size() > MaxScriptSize {
		return nil, ErrScriptTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return data, nil
}

func redact(location string) string {
	if u, err := url.Parse(location); err == nil && u.User != nil {
		return u.Redacted()
	}
	return location
}
