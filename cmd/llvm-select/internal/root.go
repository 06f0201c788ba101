package internal

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llvm-select/llvm-select/internal/activate"
	"github.com/llvm-select/llvm-select/internal/version"
)

// Version is the tool's own release version, overridden at link time.
var Version = "0.0.0-dev"

var (
	listFlag   bool
	removeFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "llvm-select [flags] [VERSION [BUILDTYPE]]",
	Short: "llvm-select manages side-by-side LLVM installations",
	Long: `llvm-select manages multiple side-by-side installations of LLVM and Clang
and controls which one the well-known llvm-config command points at.

Invoked with a bare VERSION (and optional BUILDTYPE, default Release) it
activates that installed version.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.Flags().BoolVar(&listFlag, "list", false, "List installed library versions")
	rootCmd.Flags().BoolVar(&removeFlag, "remove", false, "Remove an installed library version")
	rootCmd.Version = Version
}

// Execute runs the root command and translates failures into the exit codes
// documented in exit.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if listFlag {
		return runList(a)
	}

	k, err := parseKeyArgs(a, args)
	if err != nil {
		return err
	}

	if removeFlag {
		dir := a.store.Path(k)
		if err := a.store.Remove(k); err != nil {
			return err
		}
		fmt.Printf("Removed `%s`.\n", dir)
		return nil
	}

	// Bare positional form: activate.
	if err := a.activator.Activate(k); err != nil {
		return err
	}
	fmt.Printf("Set llvm-config to point to `%s`.\n", a.store.QueryExecutable(k))
	return nil
}

func runList(a *app) error {
	entries, err := a.store.List()
	if err != nil {
		return err
	}
	current, state := a.activator.Current()

	if len(entries) == 0 {
		fmt.Println("There are no library versions currently installed.")
	} else {
		fmt.Println("Installed library versions:")
		for _, e := range entries {
			if state == activate.Active && e.Key == current {
				fmt.Printf("%s (active)\n", e.Key)
			} else {
				fmt.Println(e.Key)
			}
		}
	}

	if state == activate.Dangling {
		if current == (version.Key{}) {
			fmt.Println("Warning: llvm-config points at something that is not an installed version.")
		} else {
			fmt.Printf("Warning: the active version %s is no longer installed.\n", current)
		}
	}
	return nil
}

// parseKeyArgs validates the positional VERSION [BUILDTYPE] arguments,
// applying the configured default build type when the second is omitted.
func parseKeyArgs(a *app, args []string) (version.Key, error) {
	if len(args) == 0 {
		return version.Key{}, errors.New("you must specify an LLVM version")
	}
	d, err := version.Parse(args[0])
	if err != nil {
		return version.Key{}, err
	}
	btToken := a.cfg.DefaultBuildType
	if len(args) == 2 {
		btToken = args[1]
	}
	bt, err := version.ParseBuildType(btToken)
	if err != nil {
		return version.Key{}, err
	}
	return version.Key{Version: d.String(), Type: bt}, nil
}
