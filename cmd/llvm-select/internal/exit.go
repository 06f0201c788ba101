package internal

import (
	"errors"

	"github.com/llvm-select/llvm-select/internal/activate"
	"github.com/llvm-select/llvm-select/internal/build"
	"github.com/llvm-select/llvm-select/internal/store"
	"github.com/llvm-select/llvm-select/internal/toolchain"
)

// Process exit codes. Each failure category gets its own code so scripts can
// distinguish them; argument errors and anything unclassified exit with 1.
const (
	exitInvalidArgument  = 1
	exitNotInstalled     = 2
	exitAlreadyInstalled = 3
	exitFetchFailure     = 4
	exitBuildFailure     = 5
	exitPermissionDenied = 6
)

func exitCode(err error) int {
	var (
		fetchErr   *build.FetchError
		buildErr   *build.BuildError
		missingCmd *toolchain.MissingCommandError
	)
	switch {
	case errors.Is(err, store.ErrNotInstalled):
		return exitNotInstalled
	case errors.Is(err, build.ErrAlreadyInstalled):
		return exitAlreadyInstalled
	case errors.Is(err, activate.ErrPermission):
		return exitPermissionDenied
	case errors.As(err, &fetchErr):
		return exitFetchFailure
	case errors.As(err, &buildErr), errors.As(err, &missingCmd):
		return exitBuildFailure
	default:
		return exitInvalidArgument
	}
}
