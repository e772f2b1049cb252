// Command cjdk resolves and installs Java runtime distributions on demand,
// exposing them as a filesystem path, a launched process, or a scoped shell
// environment.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maskedsyntax/cjdk/internal/cjdkconfig"
	"github.com/maskedsyntax/cjdk/internal/cjdkerrors"
	"github.com/maskedsyntax/cjdk/internal/fetchextract"
	"github.com/maskedsyntax/cjdk/internal/jdk"
	"github.com/maskedsyntax/cjdk/internal/jdkindex"
	"github.com/maskedsyntax/cjdk/internal/tui"
)

// commonFlags mirrors _cli.py's shared click options, threaded through every
// subcommand via cobra's persistent flags on the root command.
type commonFlags struct {
	jdk         string
	cacheDir    string
	indexURL    string
	indexTTL    int // seconds, per spec.md §6's indexTTL unit
	osName      string
	arch        string
	progress    bool
	progressSet bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ce cjdkerrors.CjdkError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, "cjdk:", ce.Error())
			os.Exit(ce.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "cjdk:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &commonFlags{}
	root := &cobra.Command{
		Use:           "cjdk",
		Short:         "Cache and launch Java runtime distributions per user",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.jdk, "jdk", "j", "", "JDK specifier, e.g. temurin:17 or adoptium:11.0.2+")
	pf.StringVar(&flags.cacheDir, "cache-dir", "", "override the default cache directory")
	pf.StringVar(&flags.indexURL, "index-url", "", "override the default JDK index URL")
	pf.IntVar(&flags.indexTTL, "index-ttl", 0, "how long a cached index stays fresh, in seconds")
	pf.StringVar(&flags.osName, "os", "", "override OS detection (linux, darwin, windows)")
	pf.StringVar(&flags.arch, "arch", "", "override architecture detection (amd64, arm64, x86)")
	pf.Bool("progress", true, "show a download progress bar")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		flags.progressSet = cmd.Flags().Changed("progress")
		flags.progress, _ = cmd.Flags().GetBool("progress")
	}

	root.AddCommand(
		newJavaHomeCmd(flags),
		newExecCmd(flags),
		newCacheJDKCmd(flags),
		newCacheFileCmd(flags),
		newCachePackageCmd(flags),
		newLsCmd(flags),
		newLsVendorsCmd(flags),
		newClearCacheCmd(flags),
		newBrowseCmd(flags),
	)
	return root
}

func (fl *commonFlags) facade() (*jdk.Facade, error) {
	env, err := cjdkconfig.FromEnviron()
	if err != nil {
		return nil, err
	}
	var progressPtr *bool
	if fl.progressSet {
		progressPtr = &fl.progress
	}
	opts, err := cjdkconfig.Configure(env, fl.jdk, fl.cacheDir, fl.indexURL, fl.osName, fl.arch, fl.indexTTL, progressPtr)
	if err != nil {
		return nil, err
	}
	return jdk.New(opts), nil
}

func (fl *commonFlags) specifier(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if fl.jdk != "" {
		return fl.jdk, nil
	}
	return "", &cjdkerrors.ConfigError{Msg: "no JDK specifier given; pass --jdk or a positional argument"}
}

func newJavaHomeCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "java-home [specifier]",
		Short: "Print the JAVA_HOME directory for a JDK, installing it if needed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			spec, err := flags.specifier(firstArg(args))
			if err != nil {
				return err
			}
			home, err := f.JavaHome(cmd.Context(), spec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), home)
			return nil
		},
	}
}

func newExecCmd(flags *commonFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:                "exec -- <command> [args...]",
		Short:              "Run a command with JAVA_HOME/PATH set to a resolved JDK",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			spec, err := flags.specifier("")
			if err != nil {
				return err
			}
			return f.Exec(cmd.Context(), spec, args)
		},
	}
	return cmd
}

func newCacheJDKCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cache [specifier]",
		Short: "Download and extract a JDK into the cache without printing java-home",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			spec, err := flags.specifier(firstArg(args))
			if err != nil {
				return err
			}
			dir, err := f.CacheJDK(cmd.Context(), spec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func addChecksumFlags(fs *pflag.FlagSet, checksums *fetchextract.Checksums) {
	fs.StringVar(&checksums.MD5, "md5", "", "expected md5 digest of the downloaded file")
	fs.StringVar(&checksums.SHA1, "sha1", "", "expected sha1 digest of the downloaded file")
	fs.StringVar(&checksums.SHA256, "sha256", "", "expected sha256 digest of the downloaded file")
	fs.StringVar(&checksums.SHA512, "sha512", "", "expected sha512 digest of the downloaded file")
}

func newCacheFileCmd(flags *commonFlags) *cobra.Command {
	var checksums fetchextract.Checksums
	c := &cobra.Command{
		Use:   "cache-file <url>",
		Short: "Download and cache a single file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			path, err := f.CacheFile(cmd.Context(), args[0], checksums)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	addChecksumFlags(c.Flags(), &checksums)
	return c
}

func newCachePackageCmd(flags *commonFlags) *cobra.Command {
	var archiveType string
	var checksums fetchextract.Checksums
	c := &cobra.Command{
		Use:   "cache-package <url>",
		Short: "Download and extract an arbitrary archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			dir, err := f.CachePackage(cmd.Context(), args[0], jdkindex.ArchiveType(archiveType), checksums)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	c.Flags().StringVar(&archiveType, "archive-type", "", "archive type of the URL (tgz, tbz2, txz, zip, tar); required, not inferred from the URL")
	addChecksumFlags(c.Flags(), &checksums)
	return c
}

func newLsCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List installed JDKs",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			installed, err := f.ListJDKs(cmd.Context())
			if err != nil {
				return err
			}
			for _, entry := range installed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", entry.Key, entry.Path)
			}
			return nil
		},
	}
}

func newLsVendorsCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls-vendors",
		Short: "List vendors available in the index for this OS/arch",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			vendors, err := f.ListVendors(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range vendors {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newClearCacheCmd(flags *commonFlags) *cobra.Command {
	var scope string
	c := &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove cached installs, index snapshots, or files",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			return f.ClearCache(scope)
		},
	}
	c.Flags().StringVar(&scope, "scope", "all", "one of jdks, index, files, pkgs, all")
	return c
}

func newBrowseCmd(flags *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse and manage cached JDKs",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.facade()
			if err != nil {
				return err
			}
			return tui.Browse(context.Background(), f)
		},
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
