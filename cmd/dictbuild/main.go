package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		cmdConvert(os.Args[2:])
	case "sources":
		cmdSources(os.Args[2:])
	case "check":
		cmdCheck(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Println(version)
	case "-h", "--help", "help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: dictbuild <command> [flags]

Commands:
  convert   Download ECDICT and build the en_zh.dict resource
  sources   List or override the catalogued download URLs
  check     Send a HEAD request to every catalogued source
  serve     Serve a built dictionary over HTTP for preview
  mcp       Serve a built dictionary as MCP tools on stdio
  version   Print the version

Run "dictbuild <command> -h" for the flags of a command.
`)
}

// setup loads the configuration named by -config and builds the logger.
// It exits the process when the configuration cannot be read.
func setup(fs *flag.FlagSet, cfgPath string) (*Config, *slog.Logger) {
	cfg, err := loadConfig(cfgPath, flagSet(fs)["config"])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg, newLogger(cfg.Log, os.Stderr)
}

// flagSet reports which flags were given on the command line.
func flagSet(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// workingRoot returns the project root found from the working directory.
func workingRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return findProjectRoot(wd)
}
