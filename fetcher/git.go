// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package fetcher

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/descriptor"
	"github.com/GZGavinZhao/srcget/recipe"
	"github.com/GZGavinZhao/srcget/utils"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitService implements the source build service for git-backed recipes:
// checkout clones or refreshes the package source, packaging assembles the
// final single-file or tar artifact.
type GitService struct{}

// Checkout fetches the recipe's source into dir, reusing an existing
// checkout when one is present, and reports the discovered version: the
// highest reachable version tag, or a date version derived from HEAD when
// the repository carries no usable tags.
func (s *GitService) Checkout(name string, cfg *recipe.Config, dir string) (version string, err error) {
	remote := cfg.Remote()
	if remote == "" {
		err = fmt.Errorf("recipe for %s has unsupported fetcher %q", name, cfg.Fetcher)
		return
	}

	var repo *git.Repository
	if utils.PathExists(filepath.Join(dir, ".git")) {
		if repo, err = s.refresh(name, dir); err != nil {
			return
		}
	} else {
		if repo, err = s.clone(name, cfg, remote, dir); err != nil {
			return
		}
	}

	if cfg.Commit != "" {
		if err = checkoutCommit(repo, cfg.Commit); err != nil {
			err = fmt.Errorf("failed to check out commit %s of %s: %w", cfg.Commit, name, err)
			return
		}
	}

	return discoverVersion(repo)
}

func (s *GitService) clone(name string, cfg *recipe.Config, remote string, dir string) (repo *git.Repository, err error) {
	waterlog.Debugf("Cloning %s from %s\n", name, remote)

	opts := git.CloneOptions{URL: remote}
	if cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(cfg.Branch)
		opts.SingleBranch = true
	}

	if repo, err = git.PlainClone(dir, false, &opts); err != nil {
		err = fmt.Errorf("failed to clone %s from %s: %w", name, remote, err)
	}
	return
}

func (s *GitService) refresh(name string, dir string) (repo *git.Repository, err error) {
	waterlog.Debugf("Reusing existing checkout of %s at %s\n", name, dir)

	if repo, err = git.PlainOpen(dir); err != nil {
		err = fmt.Errorf("failed to open checkout of %s at %s: %w", name, dir, err)
		return
	}

	wt, err := repo.Worktree()
	if err != nil {
		err = fmt.Errorf("failed to get worktree of %s: %w", name, err)
		return
	}

	err = wt.Pull(&git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) || errors.Is(err, plumbing.ErrReferenceNotFound) {
		err = nil
	} else if err != nil {
		err = fmt.Errorf("failed to pull %s: %w", name, err)
	}
	return
}

func checkoutCommit(repo *git.Repository, commit string) error {
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(commit)})
}

func discoverVersion(repo *git.Repository) (version string, err error) {
	tags, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}

	var names []string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return "", err
	}

	if best, ok := pickHighestTag(names); ok {
		return best, nil
	}

	// No version tags: fall back to a MELPA-style date version of HEAD.
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD commit: %w", err)
	}

	return commit.Committer.When.UTC().Format("20060102.1504"), nil
}

// pickHighestTag selects the highest tag that parses as a dotted version.
func pickHighestTag(tags []string) (string, bool) {
	var best descriptor.Version

	for _, tag := range tags {
		version, err := descriptor.ParseVersion(tag)
		if err != nil {
			continue
		}
		if best == nil || version.Compare(best) > 0 {
			best = version
		}
	}

	if best == nil {
		return "", false
	}
	return best.String(), true
}
