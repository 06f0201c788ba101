package internal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llvm-select/llvm-select/internal/build"
	"github.com/llvm-select/llvm-select/internal/env"
	"github.com/llvm-select/llvm-select/internal/fetch"
	"github.com/llvm-select/llvm-select/internal/toolchain"
)

var (
	installNoCleanup bool
	installVerbose   bool
)

var installCmd = &cobra.Command{
	Use:   "install VERSION [BUILDTYPE]",
	Short: "Install a new library version",
	Long: `Install downloads the source tarballs for an LLVM release, compiles them
with CMake, and installs the result into the versions root. The active
version is not changed.`,
	Args:         cobra.RangeArgs(1, 2),
	SilenceUsage: true,
	RunE:         runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installNoCleanup, "no-cleanup", false, "Don't remove build files after installing")
	installCmd.Flags().BoolVarP(&installVerbose, "verbose", "v", false, "Show toolchain output while building")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	k, err := parseKeyArgs(a, args)
	if err != nil {
		return err
	}

	// Fail before any download if the toolchain is missing.
	if err := toolchain.CheckPrerequisites(); err != nil {
		return fmt.Errorf("%w; please ensure it is installed and available in the system PATH", err)
	}

	scratch, err := env.ScratchDir()
	if err != nil {
		return err
	}

	tc := toolchain.NewLLVM()
	if installVerbose {
		tc.Output(os.Stdout)
	}

	b := build.New(a.store,
		build.WithFetcher(fetch.New(fetch.WithBaseURL(a.cfg.MirrorURL))),
		build.WithCompiler(tc),
		build.WithScratchDir(scratch),
		build.KeepBuildFiles(installNoCleanup),
	)

	entry, err := b.Install(cmd.Context(), k)
	if err != nil {
		return err
	}
	fmt.Printf("Library installed to: %s\n", entry.Dir)
	return nil
}
