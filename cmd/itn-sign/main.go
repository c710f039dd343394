// Package main computes a PayFast parameter signature for ad-hoc testing.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/warmnest/warmnest/internal/cmd/itnsign"
)

func main() {
	cfg, err := itnsign.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if err := itnsign.Run(cfg, os.Stdout); err != nil {
		log.Fatalf("sign fields: %v", err)
	}
}
