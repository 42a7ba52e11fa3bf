// Command noisereduce is the CLI/HTTP front door for the spectral noise
// reduction engine: a "profile" subcommand that analyzes a noise sample
// and persists Statistics to disk, a "reduce" subcommand that applies a
// saved profile to a WAV file, and a "serve" subcommand that exposes the same
// two operations over HTTP (adapted from the teacher's server.go).
package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("noisereduce: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "profile":
		err = runProfile(os.Args[2:])
	case "reduce":
		err = runReduce(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "noisereduce:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: noisereduce <command> [flags]

commands:
  profile   analyze a noise-only WAV file and write a profile
  reduce    apply a saved profile to a WAV file
  serve     run an HTTP server exposing /profile and /reduce
`)
}
