package credentials

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CornTicker/internal/model"
)

// Keys used in the credential file, written in this order.
const (
	KeyAppKey       = "APP_KEY"
	KeyAppSecret    = "APP_SECRET"
	KeyAccessToken  = "ACCESS_TOKEN"
	KeyRefreshToken = "REFRESH_TOKEN"
)

// ErrMultiline rejects values that cannot be stored on a single line.
var ErrMultiline = errors.New("credential value contains a line break")

// Store loads and persists credentials in a KEY=value file. Values are opaque:
// everything after the first '=' up to the end of the line is the value, with
// no quoting, escaping or comments.
type Store struct {
	path string
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the credential file. Returns empty credentials if the file doesn't exist.
func (s *Store) Load() (*model.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Credentials{}, nil
		}
		return nil, fmt.Errorf("read credentials %s: %w", s.path, err)
	}
	values := parse(data)
	return &model.Credentials{
		AppKey:       values[KeyAppKey],
		AppSecret:    values[KeyAppSecret],
		AccessToken:  values[KeyAccessToken],
		RefreshToken: values[KeyRefreshToken],
	}, nil
}

// parse returns the raw value of the first line starting with each known key.
func parse(data []byte) map[string]string {
	keys := []string{KeyAppKey, KeyAppSecret, KeyAccessToken, KeyRefreshToken}
	values := make(map[string]string, len(keys))
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		for _, k := range keys {
			if _, seen := values[k]; seen {
				continue
			}
			if v, ok := strings.CutPrefix(line, k+"="); ok {
				values[k] = v
				break
			}
		}
	}
	return values
}

// Save rewrites all four fields. The file is replaced by rename so readers
// never observe a half-written token pair.
func (s *Store) Save(c *model.Credentials) error {
	for _, v := range []string{c.AppKey, c.AppSecret, c.AccessToken, c.RefreshToken} {
		if strings.ContainsAny(v, "\r\n") {
			return ErrMultiline
		}
	}

	var b strings.Builder
	b.WriteString(KeyAppKey + "=" + c.AppKey + "\n")
	b.WriteString(KeyAppSecret + "=" + c.AppSecret + "\n")
	b.WriteString(KeyAccessToken + "=" + c.AccessToken + "\n")
	b.WriteString(KeyRefreshToken + "=" + c.RefreshToken + "\n")

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}
