package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonwraymond/healthprobe/secret"
)

func (c *Config) normalize() error {
	if err := c.expandEnv(); err != nil {
		return err
	}
	if err := c.normalizeRoot(); err != nil {
		return err
	}
	c.normalizePaths()
	if err := c.resolveSecrets(); err != nil {
		return err
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Server.Scheme = strings.ToLower(strings.TrimSpace(c.Server.Scheme))
	if !strings.HasPrefix(c.Server.Path, "/") {
		c.Server.Path = "/" + c.Server.Path
	}
	return nil
}

// expandEnv expands ${VAR} references in every path-like string.
func (c *Config) expandEnv() error {
	fields := []struct {
		name string
		ptr  *string
	}{
		{"root", &c.Root},
		{"server.host", &c.Server.Host},
		{"server.path", &c.Server.Path},
		{"filesystem.logs_dir", &c.Filesystem.LogsDir},
		{"filesystem.probe_file", &c.Filesystem.ProbeFile},
		{"serve.listen", &c.Serve.Listen},
	}
	for _, f := range fields {
		v, err := secret.ExpandEnvStrict(*f.ptr)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.ptr = v
	}

	lists := []struct {
		name string
		ptr  []string
	}{
		{"store.paths", c.Store.Paths},
		{"workspace.dirs", c.Workspace.Dirs},
		{"filesystem.dirs", c.Filesystem.Dirs},
	}
	for _, l := range lists {
		for i, v := range l.ptr {
			expanded, err := secret.ExpandEnvStrict(v)
			if err != nil {
				return fmt.Errorf("%s[%d]: %w", l.name, i, err)
			}
			l.ptr[i] = expanded
		}
	}
	return nil
}

func (c *Config) normalizeRoot() error {
	root := strings.TrimSpace(c.Root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("root: resolve absolute path for %q: %w", root, err)
	}
	c.Root = abs
	return nil
}

// normalizePaths anchors relative paths at Root.
func (c *Config) normalizePaths() {
	for i, p := range c.Store.Paths {
		c.Store.Paths[i] = c.resolve(p)
	}
	for i, p := range c.Workspace.Dirs {
		c.Workspace.Dirs[i] = c.resolve(p)
	}
	for i, p := range c.Filesystem.Dirs {
		c.Filesystem.Dirs[i] = c.resolve(p)
	}
	c.Filesystem.LogsDir = c.resolve(c.Filesystem.LogsDir)
}

func (c *Config) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}

// resolveSecrets resolves server.token_secret, which may be a secretref.
func (c *Config) resolveSecrets() error {
	if c.Server.TokenSecret == "" {
		return nil
	}
	v, err := secret.DefaultResolver().ResolveValue(context.Background(), c.Server.TokenSecret)
	if err != nil {
		return fmt.Errorf("server.token_secret: %w", err)
	}
	c.Server.TokenSecret = v
	return nil
}
