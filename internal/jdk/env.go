package jdk

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// insecureTransport backs the AllowInsecureForTesting escape hatch: it lets
// this package's own tests point the client at an httptest.NewTLSServer
// fixture without shipping a real certificate.
func insecureTransport() *http.Transport {
	return &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}} //nolint:gosec // test-only escape hatch, never reachable from production config
}

// EnvVars is the set of environment variables JavaEnv and Exec establish
// around a resolved JDK: JAVA_HOME plus PATH with the JDK's bin directory
// prepended.
type EnvVars struct {
	JavaHome string
	Path     string
}

func (f *Facade) envFor(javaHome string) EnvVars {
	bin := filepath.Join(javaHome, "bin")
	existing := os.Getenv("PATH")
	return EnvVars{
		JavaHome: javaHome,
		Path:     bin + string(os.PathListSeparator) + existing,
	}
}

// JavaEnv resolves specifier, applies JAVA_HOME/PATH to the current
// process's environment, runs fn, and restores the prior values before
// returning — regardless of whether fn panics or returns an error. It
// mirrors _api.py's java_env context manager and _env_var_set helper.
func (f *Facade) JavaEnv(ctx context.Context, specifier string, fn func(EnvVars) error) error {
	home, err := f.JavaHome(ctx, specifier)
	if err != nil {
		return err
	}
	env := f.envFor(home)

	prevHome, hadHome := os.LookupEnv("JAVA_HOME")
	prevPath, hadPath := os.LookupEnv("PATH")

	if err := os.Setenv("JAVA_HOME", env.JavaHome); err != nil {
		return err
	}
	if err := os.Setenv("PATH", env.Path); err != nil {
		restoreEnv("JAVA_HOME", prevHome, hadHome)
		return err
	}

	defer func() {
		restoreEnv("JAVA_HOME", prevHome, hadHome)
		restoreEnv("PATH", prevPath, hadPath)
	}()

	return fn(env)
}

func restoreEnv(key, value string, had bool) {
	if had {
		os.Setenv(key, value)
	} else {
		os.Unsetenv(key)
	}
}

// Exec resolves specifier and replaces the current process image with args
// run under that JDK's environment, matching the CLI's `exec` command
// (spec.md §6). It never returns on success.
func (f *Facade) Exec(ctx context.Context, specifier string, args []string) error {
	home, err := f.JavaHome(ctx, specifier)
	if err != nil {
		return err
	}
	env := f.envFor(home)

	newEnv := mergeEnv(os.Environ(), map[string]string{
		"JAVA_HOME": env.JavaHome,
		"PATH":      env.Path,
	})

	if len(args) == 0 {
		return nil
	}
	binPath, err := exec.LookPath(args[0])
	if err != nil {
		binPath, err = exec.LookPath(filepath.Join(env.JavaHome, "bin", args[0]))
		if err != nil {
			return err
		}
	}
	return execProcessImage(binPath, args, newEnv)
}

func mergeEnv(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			key = kv[:idx]
		}
		if v, ok := overrides[key]; ok {
			out = append(out, key+"="+v)
			seen[key] = true
			continue
		}
		out = append(out, kv)
	}
	for k, v := range overrides {
		if !seen[k] {
			out = append(out, k+"="+v)
		}
	}
	return out
}
