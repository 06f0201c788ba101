package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llvm-select/llvm-select/internal/updater"
)

var upgradeCmd = &cobra.Command{
	Use:          "upgrade",
	Short:        "Update llvm-select itself to the latest release",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	u, err := updater.New(Version)
	if err != nil {
		return err
	}

	release, err := u.Check(cmd.Context())
	if err != nil {
		return err
	}
	if release == nil {
		fmt.Println("llvm-select is already up to date.")
		return nil
	}

	fmt.Printf("Updating to %s...\n", release.Version())
	if err := u.Apply(cmd.Context(), release); err != nil {
		return err
	}
	fmt.Printf("Updated llvm-select to %s.\n", release.Version())
	return nil
}
