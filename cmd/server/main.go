// Package main implements the entry point for the Lumo API server, a
// social backend for image posts, likes, comments, friendships and
// notifications.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
