package gitinfo

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// GitInfoAdapter implements domain.WorkspaceLocator using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

// Root returns the worktree root of the repository containing startPath.
// When startPath is not inside a repository it is returned as-is, so
// relative artifact URIs still resolve against something sensible.
func (g *GitInfoAdapter) Root(startPath string) (string, error) {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return abs, nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return abs, nil
	}
	return wt.Filesystem.Root(), nil
}

// CommitHash returns the current HEAD hash, recorded on applied-fix
// history entries.
func (g *GitInfoAdapter) CommitHash(projectPath string) (string, error) {
	repo, err := git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
