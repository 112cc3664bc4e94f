package envinfo

import (
	"os/exec"
	"strings"
)

// captureGit probes the working directory's git state. The boolean result
// makes the omit-on-failure contract explicit: all three probes must
// succeed (git installed, inside a checkout, branch known to origin) or no
// git info is reported at all.
func captureGit() (*GitInfo, bool) {
	return captureGitIn("")
}

// captureGitIn probes the repository containing dir; an empty dir means
// the process working directory.
func captureGitIn(dir string) (*GitInfo, bool) {
	branch, err := gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, false
	}

	localCommit, err := gitOutput(dir, "rev-parse", "HEAD")
	if err != nil {
		return nil, false
	}

	originCommit, err := gitOutput(dir, "rev-parse", "origin/"+branch)
	if err != nil {
		return nil, false
	}

	return &GitInfo{
		Branch:       branch,
		LocalCommit:  localCommit,
		OriginCommit: originCommit,
	}, true
}

// gitOutput runs git with stderr discarded and returns trimmed stdout.
func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
