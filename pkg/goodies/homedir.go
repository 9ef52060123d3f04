// Package goodies has small process-level helpers shared by the account
// services.
package goodies

import (
	"os"
	"os/user"
	"strconv"
	"sync"
)

// HomeEnv overrides the directory HomeDir returns when set.
const HomeEnv = "IDCODEC_HOME"

var (
	homeDir     string
	homeDirOnce sync.Once
)

// HomeDir returns the home directory of the effective user, not the real one,
// so that a setuid host keeps its lock files in its own tree. The result is
// resolved once per process.
func HomeDir() string {
	homeDirOnce.Do(func() {
		if dir := os.Getenv(HomeEnv); dir != "" {
			homeDir = dir
			return
		}
		u, err := user.LookupId(strconv.Itoa(os.Geteuid()))
		if err != nil {
			panic(err)
		}
		if u.HomeDir == "" {
			panic("user home directory is empty")
		}
		homeDir = u.HomeDir
	})
	return homeDir
}
