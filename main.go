package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/regvm/assembler"
	"github.com/example/regvm/inspect"
	"github.com/example/regvm/rconfig"
	"github.com/example/regvm/vm"
)

// Version information, can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		verboseMode = flag.Bool("verbose", false, "verbose output")
		inspectMode = flag.Bool("inspect", false, "open the register/memory inspector instead of running to completion")
		maxCycles   = flag.Uint64("max-cycles", 0, "maximum instructions before giving up (0 = use config default)")
		configPath  = flag.String("config", "", "path to a config.toml (default: platform config directory)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("regvm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		return
	}

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	sourcePath := flag.Arg(0)
	source, err := os.ReadFile(sourcePath) // #nosec G304 -- user-supplied source file on the command line
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", sourcePath, err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("assembling %s\n", sourcePath)
	}

	img, err := assembler.New().Assemble(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly failed:\n%v", err)
		os.Exit(1)
	}
	for _, w := range img.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if *verboseMode {
		fmt.Printf("assembled %d code bytes, %d read-only bytes\n", len(img.Code()), len(img.RO))
	}

	machine := vm.New()
	machine.LoadImage(img)

	limit := *maxCycles
	if limit == 0 {
		limit = cfg.Execution.MaxCycles
	}
	machine.MaxCycles = limit

	if *inspectMode {
		runInspector(machine)
		return
	}

	status := machine.Run()
	if *verboseMode {
		fmt.Printf("halted after %d cycles with status %d\n", machine.Cycles, status)
	}
	switch status {
	case vm.StatusOK:
		return
	case vm.StatusCycleLimitExceeded:
		fmt.Fprintf(os.Stderr, "error: exceeded %d-instruction cycle limit\n", limit)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "error: run failed with status %d: %v\n", status, machine.LastError)
		os.Exit(1)
	}
}

func loadConfig(path string) (*rconfig.Config, error) {
	if path == "" {
		return rconfig.Load()
	}
	return rconfig.LoadFrom(path)
}

func runInspector(machine *vm.VM) {
	machine.PC = assembler.HeaderLength
	viewer := inspect.NewViewer(machine)
	if err := viewer.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "inspector error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: regvm [flags] <source.asm>")
	flag.PrintDefaults()
}
