package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/meigma/sofpak/pak"
)

func (c *cli) pack(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: pack <input_dir> <output.pak>", errUsage)
	}
	data, err := pak.BuildDir(context.Background(), args[0], pak.BuildWithLogger(c.logger))
	if err != nil {
		return err
	}
	if err := pak.WriteFile(args[1], data); err != nil {
		return fmt.Errorf("write %s: %w", args[1], err)
	}
	c.logger.Info("wrote archive", "path", args[1], "size", len(data))
	return nil
}

func (c *cli) unpack(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: unpack <input.pak> <output_dir>", errUsage)
	}
	return c.extract(args[0], args[1], nil)
}

func (c *cli) unpackOne(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: unpack-one <input.pak> <output_dir> <pattern>...", errUsage)
	}
	return c.extract(args[0], args[1], args[2:])
}

func (c *cli) extract(archive, dest string, patterns []string) error {
	a, err := pak.OpenFile(archive, pak.WithLogger(c.logger))
	if err != nil {
		return err
	}
	stats, err := a.ExtractAll(dest, patterns)
	if err != nil {
		return fmt.Errorf("%d of %d files failed: %w", stats.Failed, stats.Failed+stats.FileCount, err)
	}
	return nil
}

func (c *cli) show(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: show <input.pak> <pattern>", errUsage)
	}
	a, err := pak.OpenFile(args[0], pak.WithLogger(c.logger))
	if err != nil {
		return err
	}
	data, err := a.Find(args[1])
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(data)
	return err
}

func (c *cli) list(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	withDigest := fs.Bool("digest", false, "print the sha256 digest of each entry")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: list [-digest] <input.pak>", errUsage)
	}

	a, err := pak.OpenFile(fs.Arg(0), pak.WithLogger(c.logger))
	if err != nil {
		return err
	}
	entries, err := a.Entries()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "# %d entries, checksum %016x\n", len(entries), a.Checksum())
	for _, e := range entries {
		if !*withDigest {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", e.Path, e.Pos, e.Size)
			continue
		}
		d, err := a.Digest(e)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", e.Path, e.Pos, e.Size, d)
	}
	return tw.Flush()
}
