package main

import "github.com/llvm-select/llvm-select/cmd/llvm-select/internal"

func main() {
	internal.Execute()
}
