package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"pkt.systems/inkline/internal/version"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "o", "", "path to write the version string to")
	flag.Parse()

	ver := strings.TrimSpace(version.Current())
	if ver == "" {
		ver = "v0.0.0-unknown"
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(ver+"\n"), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	fmt.Fprintln(os.Stdout, ver)
}
