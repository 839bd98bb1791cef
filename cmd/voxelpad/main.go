// Package main provides the voxelpad CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/born-ml/voxel/internal/serialization"
	"github.com/born-ml/voxel/jagged"
	"github.com/born-ml/voxel/pad"
)

const version = "v0.0.1-dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 0
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "voxelpad %s\n", version)
		return 0
	case "info":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "usage: voxelpad info FILE")
			return 2
		}
		if err := runInfo(args[1], stdout); err != nil {
			fmt.Fprintf(stderr, "voxelpad: %v\n", err)
			return 1
		}
		return 0
	case "pad":
		if err := runPad(ctx, args[1:], stdout, stderr); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			fmt.Fprintf(stderr, "voxelpad: %v\n", err)
			return exitCode(err)
		}
		return 0
	default:
		fmt.Fprintf(stderr, "voxelpad: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}
}

// usageError marks command-line mistakes: bad flags, malformed values,
// conflicting inputs or an unsupported backend.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// exitCode is 2 for usage errors and invalid configurations, 1 otherwise.
func exitCode(err error) int {
	var uerr usageError
	if errors.As(err, &uerr) || errors.Is(err, pad.ErrInvalidConfig) {
		return 2
	}
	return 1
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "voxelpad - replicate voxel coordinates over a box window")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  pad        Pad a list of coordinates (see pad -h)")
	fmt.Fprintln(w, "  info FILE  Describe a .vjt file")
}

func runPad(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bmin := fs.String("bmin", "-1,-1,-1", "window minimum `x,y,z`")
	bmax := fs.String("bmax", "1,1,1", "window maximum `x,y,z`")
	coords := fs.String("coords", "", "coordinates as `x,y,z;...`, outer lists separated by '|'")
	in := fs.String("in", "", "read the input tensor from a .vjt `file` instead of -coords")
	outPath := fs.String("out", "", "write the result to a .vjt `file` instead of stdout")
	backendName := fs.String("backend", "cpu", "dispatch backend: cpu or webgpu")
	verbose := fs.Bool("v", false, "log each dispatch")
	if err := fs.Parse(args); err != nil {
		return usageError{err}
	}
	if fs.NArg() > 0 {
		return usagef("unexpected arguments %q", fs.Args())
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	lo, err := parseCoord(*bmin)
	if err != nil {
		return usagef("-bmin: %w", err)
	}
	hi, err := parseCoord(*bmax)
	if err != nil {
		return usagef("-bmax: %w", err)
	}
	src, err := loadInput(*in, *coords)
	if err != nil {
		return err
	}

	d, release, err := newDispatcher(*backendName)
	if err != nil {
		return err
	}
	defer release()

	t := pad.New(d, pad.Config{Logger: logger})
	out, err := t.Pad(ctx, src, pad.Box(lo, hi))
	if err != nil {
		return err
	}

	if *outPath != "" {
		return serialization.WriteFile(*outPath, out, map[string]string{
			"bmin":    lo.String(),
			"bmax":    hi.String(),
			"backend": d.Name(),
		})
	}
	return writeTensor(stdout, out)
}

func loadInput(path, coords string) (*jagged.Tensor, error) {
	switch {
	case path != "" && coords != "":
		return nil, usagef("-in and -coords are mutually exclusive")
	case path != "":
		f, err := serialization.ReadFile(path, serialization.ReaderOptions{})
		if err != nil {
			return nil, fmt.Errorf("-in: %w", err)
		}
		return f.Tensor, nil
	}

	lists, err := parseLists(coords)
	if err != nil {
		return nil, usagef("-coords: %w", err)
	}
	return jagged.NewBuilder().WithLDim1(lists).Build()
}

func runInfo(path string, w io.Writer) error {
	f, err := serialization.ReadFile(path, serialization.ReaderOptions{})
	if err != nil {
		return err
	}
	h := f.Header
	fmt.Fprintf(w, "format:   v%d (voxel %s)\n", h.FormatVersion, h.VoxelVersion)
	fmt.Fprintf(w, "created:  %s\n", h.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(w, "ldim:     %d\n", h.LDim)
	fmt.Fprintf(w, "elements: %d\n", h.NumElements)
	fmt.Fprintf(w, "lists:    %d %v\n", h.NumOuterLists, f.Tensor.ListSizes())
	for _, s := range h.Sections {
		fmt.Fprintf(w, "section:  %-9s %-9s count=%d offset=%d size=%d\n", s.Name, s.Layout, s.Count, s.Offset, s.Size)
	}
	for _, k := range slices.Sorted(maps.Keys(h.Metadata)) {
		fmt.Fprintf(w, "meta:     %s=%s\n", k, h.Metadata[k])
	}
	return nil
}

// writeTensor prints one line per outer list.
func writeTensor(w io.Writer, t *jagged.Tensor) error {
	for k := range t.NumOuterLists() {
		parts := make([]string, 0, len(t.List(k)))
		for _, c := range t.List(k) {
			parts = append(parts, fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z))
		}
		if _, err := fmt.Fprintf(w, "%d: %s\n", k, strings.Join(parts, ";")); err != nil {
			return err
		}
	}
	return nil
}

func parseCoord(s string) (jagged.Coord, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) != 3 {
		return jagged.Coord{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]int32
	for i, f := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return jagged.Coord{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = int32(n)
	}
	return jagged.V3(v[0], v[1], v[2]), nil
}

// parseLists reads "x,y,z;x,y,z|x,y,z". An empty segment is an empty list.
func parseLists(s string) ([][]jagged.Coord, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("no coordinates")
	}
	var lists [][]jagged.Coord
	for _, seg := range strings.Split(s, "|") {
		list := []jagged.Coord{}
		for _, c := range strings.Split(seg, ";") {
			if strings.TrimSpace(c) == "" {
				continue
			}
			v, err := parseCoord(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		lists = append(lists, list)
	}
	return lists, nil
}
