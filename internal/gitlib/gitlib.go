package gitlib

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

var ErrNoRepository = errors.New("this does not appear to be a git repository")

// Checkout is what the stack perceives about the git working copy it is deployed from.
type Checkout struct {
	Root   string
	Branch string
	Sha    string
	Dirty  bool
}

// FromCwd resolves the checkout enclosing the working directory.
// Outside of a repository it returns ErrNoRepository and an empty Checkout.
func FromCwd() (Checkout, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Checkout{}, err
	}

	return Open(cwd)
}

func Open(dir string) (found Checkout, err error) {
	root, repo, err := FindDotGit(dir)
	if err != nil {
		return Checkout{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return Checkout{}, err
	}

	found.Root = root
	found.Branch = head.Name().Short()
	found.Sha = head.Hash().String()

	if found.Dirty, err = Dirty(repo); err != nil {
		return Checkout{}, err
	}

	return found, nil
}

func FindDotGit(dir string) (root string, repo *git.Repository, err error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			repo, err := git.PlainOpen(dir)
			if err != nil {
				return "", nil, err
			}

			return dir, repo, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, ErrNoRepository
		}
		dir = parent
	}
}

func Dirty(repo *git.Repository) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}

	status, err := wt.Status()
	if err != nil {
		return false, err
	}

	return !status.IsClean(), nil
}
