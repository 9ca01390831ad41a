// textmaker - Render template images with wrapped text.
//
// Usage:
//
//	textmaker [render] [options] <style> [f:flag...] args...
//	textmaker describe [-resources <path>] <style>
//	textmaker check [-resources <path>]
//	textmaker watch [options] <style> args...
//	textmaker init [-resources <dir>]
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/kumquat-ir/textmaker/pkg/engine"
	"github.com/kumquat-ir/textmaker/pkg/generator"
	"github.com/kumquat-ir/textmaker/pkg/grammar"
	"github.com/kumquat-ir/textmaker/pkg/template"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "describe":
		err = runDescribe(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		// Default: render mode (all flags on root).
		err = runRender(os.Args[1:])
	}
	if err != nil {
		fatal(err)
	}
}

// renderOptions are the flags shared by render and watch.
type renderOptions struct {
	resources string
	outDir    string
	output    string
	parts     bool
	debug     bool
	seconds   int
}

func renderFlags(name string) (*flag.FlagSet, *renderOptions) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	opts := &renderOptions{}
	fs.StringVar(&opts.resources, "resources", "resources", "Resources directory or .zip bundle")
	fs.StringVar(&opts.outDir, "out", "out", "Output directory for textbox.png")
	fs.StringVar(&opts.output, "o", "", "Additional output file (.png, .bmp or .avi)")
	fs.BoolVar(&opts.parts, "parts", false, "Also write each frame to <out>/parts")
	fs.BoolVar(&opts.debug, "debug", false, "Log predicate facts for every frame")
	fs.IntVar(&opts.seconds, "seconds", 1, "Seconds per frame (AVI only)")
	fs.Usage = printUsage
	return fs, opts
}

func runRender(args []string) error {
	fs, opts := renderFlags("render")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		printUsage()
		return fmt.Errorf("a style name is required")
	}
	return render(opts, fs.Args())
}

// render runs one invocation. Nothing is written unless every frame renders.
func render(opts *renderOptions, args []string) error {
	store, cleanup, err := template.OpenStore(opts.resources)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := engine.New(engine.Options{Store: store, Debug: opts.debug})
	res, err := eng.Render(args)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cfg := generator.Config{FrameSeconds: opts.seconds}
	stacked := filepath.Join(opts.outDir, generator.PartPrefix+".png")
	if err := generator.Generate(stacked, []image.Image{res.Stacked}, cfg); err != nil {
		return err
	}
	if opts.parts {
		if _, err := generator.WriteParts(filepath.Join(opts.outDir, "parts"), res.Images()); err != nil {
			return err
		}
	}
	if opts.output != "" {
		if err := generator.Generate(opts.output, res.Images(), cfg); err != nil {
			return err
		}
	}

	fmt.Printf("Done: %s (%d frames)\n", stacked, len(res.Frames))
	return nil
}

func runDescribe(args []string) error {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	var resources, file string
	fs.StringVar(&resources, "resources", "resources", "Resources directory or .zip bundle")
	fs.StringVar(&file, "file", "", "Describe a standalone style.json instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if file != "" {
		style, err := template.ParseStyleFile(file)
		if err != nil {
			return err
		}
		fmt.Print(template.FormatStyle(style))
		return nil
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("describe takes exactly one style name")
	}
	store, cleanup, err := template.OpenStore(resources)
	if err != nil {
		return err
	}
	defer cleanup()

	style, err := store.LoadStyle(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Print(template.FormatStyle(style))
	return nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var resources string
	fs.StringVar(&resources, "resources", "resources", "Resources directory or .zip bundle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, cleanup, err := template.OpenStore(resources)
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := store.Styles()
	if err != nil {
		return err
	}

	failed := 0
	for _, name := range names {
		style, err := store.LoadStyle(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", name, err)
			failed++
			continue
		}
		for _, w := range template.ValidateStyle(style) {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", name, w)
		}
		fmt.Printf("ok   %s\n", name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d styles failed to load", failed, len(names))
	}
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var dir string
	fs.StringVar(&dir, "resources", "resources", "Directory to write the sample resources to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for name, content := range template.ExampleFiles() {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	for name, hex := range template.ExamplePanels() {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		c, err := generator.ParseHexColor(hex)
		if err != nil {
			return err
		}
		panel := generator.NewSolidImage(32, 32, c)
		if err := generator.Generate(path, []image.Image{panel}, generator.Config{}); err != nil {
			return err
		}
	}

	fmt.Printf("Created: %s\n", dir)
	fmt.Printf("Run: textmaker -resources %s %s calm Alice Hello there, this text wraps.\n", dir, template.ExampleStyle)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, grammar.ErrGrammar) {
		fmt.Fprintln(os.Stderr, "Run 'textmaker describe <style>' to see the arguments a style takes.")
	}
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`textmaker - Template images with wrapped text

USAGE:
    textmaker [render] [options] <style> [f:flag...] args...
    textmaker watch [options] <style> [f:flag...] args...
    textmaker describe [-resources <path>] <style>
    textmaker describe -file <style.json>
    textmaker check [-resources <path>]
    textmaker init [-resources <dir>]

RENDER OPTIONS:
    -resources <path>    Resources directory or .zip bundle (default: resources)
    -out <dir>           Output directory for textbox.png (default: out)
    -parts               Also write every frame to <out>/parts/textbox<N>.png
    -o <file>            Additional output (.png, .bmp or .avi slideshow)
    -seconds <n>         Seconds per frame in an AVI (default: 1)
    -debug               Log predicate facts for every frame

ARGUMENTS:
    f:<flag>             Leading flags, tested by "flag:<flag>" predicates
    !NONE!               Leave a key or text argument out
    !REPEAT!             End the current group; the rest renders as a new group

EXAMPLES:
    textmaker init
    textmaker greeting calm Alice Hello there
    textmaker -parts -o slides.avi greeting f:loud angry !NONE! Long text ...
    textmaker describe greeting
    textmaker watch greeting calm Alice Hello there
`)
}
