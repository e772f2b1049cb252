//go:build !windows

package jdk

import "syscall"

// execProcessImage replaces the current process image, mirroring jvman's
// runExec use of syscall.Exec on POSIX systems.
func execProcessImage(binPath string, args, env []string) error {
	return syscall.Exec(binPath, args, env)
}
