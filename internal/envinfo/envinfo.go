// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

// Package envinfo captures a snapshot of the machine and process
// environment an experiment runs in: Python interpreter and pip versions,
// the active conda environment, uname identity, user, working directory,
// and (when available) git state.
//
// Capture never fails. Tool probes that cannot run simply leave their
// field empty, and the git sub-step is omitted entirely when the process
// is not inside a checkout or the git binary is unavailable.
package envinfo

import (
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// creationTimeLayout matches the run-timestamp format used across run
// directories.
const creationTimeLayout = "060102.15:04:05"

// Snapshot is a flat record of run-time system and process metadata,
// captured once per dump. Field order here fixes the key order of the
// serialized document.
type Snapshot struct {
	PythonVersion    string   `json:"python_version"`
	CondaEnvironment string   `json:"conda_environment"`
	Pip              string   `json:"pip"`
	CreationTime     string   `json:"creation_time"`
	Sysname          string   `json:"sysname"`
	Nodename         string   `json:"nodename"`
	Release          string   `json:"release"`
	Version          string   `json:"version"`
	Architecture     string   `json:"architecture"`
	User             string   `json:"user"`
	Path             string   `json:"path"`
	Git              *GitInfo `json:"git,omitempty"`
}

// GitInfo describes the version-control state of the working directory.
type GitInfo struct {
	Branch       string `json:"branch"`
	LocalCommit  string `json:"local_commit"`
	OriginCommit string `json:"origin_commit"`
}

// Capture collects the environment snapshot. It always returns a usable
// snapshot; best-effort fields are empty or omitted rather than failing
// the capture.
func Capture() *Snapshot {
	var uts unix.Utsname
	_ = unix.Uname(&uts)

	s := &Snapshot{
		PythonVersion:    probeVersion("python3", "python"),
		CondaEnvironment: os.Getenv("CONDA_DEFAULT_ENV"),
		Pip:              pipVersion(),
		CreationTime:     time.Now().Format(creationTimeLayout),
		Sysname:          unix.ByteSliceToString(uts.Sysname[:]),
		Nodename:         unix.ByteSliceToString(uts.Nodename[:]),
		Release:          unix.ByteSliceToString(uts.Release[:]),
		Version:          unix.ByteSliceToString(uts.Version[:]),
		Architecture:     unix.ByteSliceToString(uts.Machine[:]),
		User:             os.Getenv("USER"),
		Path:             workingDir(),
	}

	if git, ok := captureGit(); ok {
		s.Git = git
	}

	return s
}

// probeVersion runs the first available binary with --version and returns
// the trimmed first output line, or "" when no binary responds.
func probeVersion(binaries ...string) string {
	for _, bin := range binaries {
		out, err := exec.Command(bin, "--version").Output()
		if err != nil {
			continue
		}
		if line, _, _ := strings.Cut(string(out), "\n"); line != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// pipVersion extracts the bare version number from "pip X.Y.Z from ...".
func pipVersion() string {
	return versionField(probeVersion("pip3", "pip"))
}

func versionField(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func workingDir() string {
	if pwd := os.Getenv("PWD"); pwd != "" {
		return pwd
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
