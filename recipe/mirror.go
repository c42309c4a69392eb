// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/utils"
	"github.com/go-git/go-git/v5"
	"github.com/ulikunitz/xz"
)

// Mirror is a local directory of recipe files, one per package name. It is
// refreshed from a remote recipe index: either a git repository that gets
// cloned and pulled, or an xz'd tarball served over HTTP.
type Mirror struct {
	Dir    string
	Remote string
}

func NewMirror(dir string, remote string) *Mirror {
	return &Mirror{Dir: dir, Remote: remote}
}

// Bootstrap makes the mirror usable: the directory exists and, when a
// remote is configured, holds a fresh copy of the recipe index.
func (m *Mirror) Bootstrap() (err error) {
	if err = os.MkdirAll(m.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create mirror directory %s: %w", m.Dir, err)
	}

	if m.Remote == "" {
		return
	}

	if utils.PathExists(filepath.Join(m.Dir, ".git")) {
		return m.pull()
	}
	if strings.HasSuffix(m.Remote, ".tar.xz") {
		return m.fetchArchive()
	}
	return m.clone()
}

func (m *Mirror) clone() (err error) {
	waterlog.Infof("Cloning recipe index %s into %s\n", m.Remote, m.Dir)
	_, err = git.PlainClone(m.Dir, false, &git.CloneOptions{
		URL:   m.Remote,
		Depth: 1,
	})
	if err != nil {
		err = fmt.Errorf("failed to clone recipe index %s: %w", m.Remote, err)
	}
	return
}

func (m *Mirror) pull() (err error) {
	repo, err := git.PlainOpen(m.Dir)
	if err != nil {
		return fmt.Errorf("failed to open recipe mirror at %s: %w", m.Dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree of recipe mirror at %s: %w", m.Dir, err)
	}

	err = wt.Pull(&git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		waterlog.Debugf("Recipe mirror %s is already up to date\n", m.Dir)
		err = nil
	} else if err != nil {
		err = fmt.Errorf("failed to pull recipe mirror at %s: %w", m.Dir, err)
	}
	return
}

// fetchArchive downloads an xz'd recipe tarball and unpacks the recipe
// files into the mirror directory.
func (m *Mirror) fetchArchive() (err error) {
	waterlog.Infof("Fetching recipe index from %s\n", m.Remote)
	resp, err := http.Get(m.Remote)
	if err != nil {
		return fmt.Errorf("failed to fetch recipe index from url %s: %w", m.Remote, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch recipe index from url %s: %s", m.Remote, resp.Status)
	}

	r, err := xz.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to create XZ reader for recipe index %s: %w", m.Remote, err)
	}

	tr := tar.NewReader(r)
	for {
		hdr, rerr := tr.Next()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("failed to read recipe index archive %s: %w", m.Remote, rerr)
		}

		if hdr.Typeflag != tar.TypeReg || !isRecipeFile(hdr.Name) {
			continue
		}

		dst := filepath.Join(m.Dir, filepath.Base(hdr.Name))
		out, cerr := os.Create(dst)
		if cerr != nil {
			return cerr
		}
		if _, cerr = io.Copy(out, tr); cerr != nil {
			out.Close()
			return cerr
		}
		if cerr = out.Close(); cerr != nil {
			return cerr
		}
	}

	return
}

// List returns the sorted names of every mirrored recipe.
func (m *Mirror) List() (names []string) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		waterlog.Warnf("Failed to read recipe mirror %s: %s\n", m.Dir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isRecipeFile(entry.Name()) {
			continue
		}
		names = append(names, recipeName(entry.Name()))
	}

	sort.Strings(names)
	return
}

// Read loads the recipe for an exact package name. Absence is not an error.
func (m *Mirror) Read(name string) (*Config, bool) {
	for _, base := range []string{name + ".yaml", name + ".yml"} {
		path := filepath.Join(m.Dir, base)
		if !utils.PathExists(path) {
			continue
		}

		cfg, err := Load(path)
		if err != nil {
			waterlog.Warnf("Failed to load recipe file %s: %s\n", path, err)
			return nil, false
		}
		return &cfg, true
	}

	return nil, false
}

func isRecipeFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

func recipeName(base string) string {
	return strings.TrimSuffix(base, filepath.Ext(base))
}
