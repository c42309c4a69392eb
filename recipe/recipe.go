// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes where and how to fetch a package's source: one recipe
// file in the mirror holds one Config.
type Config struct {
	Fetcher string   `yaml:"fetcher"`
	Repo    string   `yaml:"repo,omitempty"`
	URL     string   `yaml:"url,omitempty"`
	Branch  string   `yaml:"branch,omitempty"`
	Commit  string   `yaml:"commit,omitempty"`
	Files   []string `yaml:"files,omitempty"`
}

// Request names a package to install. Before resolution Config may be nil;
// after resolution it is nil only when no recipe exists for the name.
type Request struct {
	Name   string
	Config *Config
}

// Remote resolves the fetch config to a clonable URL. Empty means the
// fetcher is not supported.
func (c *Config) Remote() string {
	switch c.Fetcher {
	case "github":
		return fmt.Sprintf("https://github.com/%s.git", c.Repo)
	case "gitlab":
		return fmt.Sprintf("https://gitlab.com/%s.git", c.Repo)
	case "git":
		return c.URL
	default:
		return ""
	}
}

func Load(path string) (cfg Config, err error) {
	raw, err := os.Open(path)
	if err != nil {
		return
	}
	defer raw.Close()
	dec := yaml.NewDecoder(raw)
	err = dec.Decode(&cfg)
	return
}
