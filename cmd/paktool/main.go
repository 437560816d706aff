// Command paktool packs, unpacks and inspects PACK archives and M32
// textures.
//
// Usage:
//
//	paktool pack <input_dir> <output.pak>
//	paktool unpack <input.pak> <output_dir>
//	paktool unpack-one <input.pak> <output_dir> <pattern>...
//	paktool show <input.pak> <pattern>
//	paktool list [-digest] <input.pak>
//	paktool m32 dump [-pak archive] <texture>
//	paktool m32 png [-pak archive] [-width n -height n] <texture> <output.png>
//	paktool m32 encode [-name name] <input.png> <output.m32>
//
// Global flags (before the command): -v enables debug logging.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// errUsage marks command-line mistakes; main exits with status 2 for them.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "paktool:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `paktool - pack and unpack .pak archives and M32 textures

Usage:
  paktool [-v] pack <input_dir> <output.pak>
  paktool [-v] unpack <input.pak> <output_dir>
  paktool [-v] unpack-one <input.pak> <output_dir> <pattern>...
  paktool [-v] show <input.pak> <pattern>
  paktool [-v] list [-digest] <input.pak>
  paktool [-v] m32 dump [-pak archive] <texture>
  paktool [-v] m32 png [-pak archive] [-width n -height n] <texture> <output.png>
  paktool [-v] m32 encode [-name name] <input.png> <output.m32>
`)
}

// run executes one command. stdout receives command output (file content
// for show), stderr receives logs.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("paktool", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	c := &cli{stdout: stdout, logger: logger}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cmd, rest := rest[0], rest[1:]
	switch cmd {
	case "pack":
		return c.pack(rest)
	case "unpack":
		return c.unpack(rest)
	case "unpack-one":
		return c.unpackOne(rest)
	case "show":
		return c.show(rest)
	case "list":
		return c.list(rest)
	case "m32":
		return c.m32(rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

type cli struct {
	stdout io.Writer
	logger *slog.Logger
}
