package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"github.com/meigma/sofpak/m32"
	"github.com/meigma/sofpak/pak"
)

func (c *cli) m32(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: m32 dump|png|encode", errUsage)
	}
	switch args[0] {
	case "dump":
		return c.m32Dump(args[1:])
	case "png":
		return c.m32PNG(args[1:])
	case "encode":
		return c.m32Encode(args[1:])
	default:
		return fmt.Errorf("%w: unknown m32 command %q", errUsage, args[0])
	}
}

// readTexture reads a texture from disk, or from an archive when archive is
// set.
func (c *cli) readTexture(archive, name string) (*m32.Header, error) {
	var data []byte
	if archive != "" {
		a, err := pak.OpenFile(archive, pak.WithLogger(c.logger))
		if err != nil {
			return nil, err
		}
		if data, err = a.Find(name); err != nil {
			return nil, err
		}
	} else {
		var err error
		if data, err = os.ReadFile(name); err != nil { //nolint:gosec // User-provided path is intentional
			return nil, err
		}
	}
	return m32.Decode(data)
}

func (c *cli) m32Dump(args []string) error {
	fs := flag.NewFlagSet("m32 dump", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	archive := fs.String("pak", "", "read the texture from this archive")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: m32 dump [-pak archive] <texture>", errUsage)
	}
	h, err := c.readTexture(*archive, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "dumping contents of %s\n", fs.Arg(0))
	return h.Dump(c.stdout)
}

func (c *cli) m32PNG(args []string) error {
	fs := flag.NewFlagSet("m32 png", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	archive := fs.String("pak", "", "read the texture from this archive")
	width := fs.Int("width", 0, "resize to this width")
	height := fs.Int("height", 0, "resize to this height")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: m32 png [-pak archive] [-width n -height n] <texture> <output.png>", errUsage)
	}
	h, err := c.readTexture(*archive, fs.Arg(0))
	if err != nil {
		return err
	}
	var img image.Image
	if img, err = h.Image(); err != nil {
		return err
	}
	if *width > 0 && *height > 0 {
		img = transform.Resize(img, *width, *height, transform.Linear)
	}
	if err := imgio.Save(fs.Arg(1), img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", fs.Arg(1), err)
	}
	c.logger.Info("wrote image", "path", fs.Arg(1), "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

func (c *cli) m32Encode(args []string) error {
	fs := flag.NewFlagSet("m32 encode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "texture name stored in the header")
	version := fs.Int("version", 0, "header version")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: m32 encode [-name name] [-version n] <input.png> <output.m32>", errUsage)
	}
	img, err := imgio.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	h, err := m32.FromImage(img, m32.Values{"name": *name, "version": *version})
	if err != nil {
		return err
	}
	if err := os.WriteFile(fs.Arg(1), h.Bytes(), 0o644); err != nil { //nolint:gosec // texture files are not secret
		return err
	}
	c.logger.Info("wrote texture", "path", fs.Arg(1), "size", len(h.Bytes()))
	return nil
}
