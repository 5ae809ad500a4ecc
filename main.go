// Copyright © 2024 The scenelint authors

package main

import "github.com/scenelang/scenelint/cmd"

func main() {
	cmd.Execute()
}
