// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The objdump command inspects streams of encoded object graphs.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/google/objgraph/core/log"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/preset"
	"github.com/google/objgraph/framework/binary/stream"
	"github.com/urfave/cli"
)

// Version of the tool, set at build time.
var Version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}

var (
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "log at debug level in a human readable form",
	}
	presetFlag = cli.StringFlag{
		Name:  "preset, p",
		Usage: "YAML preset holding the base tables the stream was written with",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "objdump"
	app.Version = Version
	app.Usage = "Inspect encoded object graph streams"
	app.Flags = []cli.Flag{verboseFlag}
	app.Commands = []cli.Command{
		{
			Name:      "dump",
			Usage:     "print one line per encoded value",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{presetFlag},
			Action:    dump,
		},
		{
			Name:      "stats",
			Usage:     "count the encoded values of a stream by tag",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{presetFlag},
			Action:    stats,
		},
		{
			Name:      "preset",
			Usage:     "validate a preset and print its table sizes",
			ArgsUsage: "<file.yaml>",
			Action:    checkPreset,
		},
	}
	return app
}

// newContext returns the context for a command, carrying the logger
// selected by the global flags.
func newContext(c *cli.Context) (context.Context, func(), error) {
	l, err := log.New(c.GlobalBool("verbose"))
	if err != nil {
		return nil, nil, err
	}
	ctx := log.Enter(log.PutLogger(context.Background(), l), c.Command.Name)
	return ctx, func() { log.From(ctx).Sync() }, nil
}

// streamOptions returns the base table options named by the preset flag.
func streamOptions(ctx context.Context, c *cli.Context) ([]stream.Option, error) {
	path := c.String("preset")
	if path == "" {
		return nil, nil
	}
	p, err := preset.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.D(ctx, "Loaded preset %q with %d strings and %d types", p.Name, len(p.Strings), len(p.Types))
	tables, err := p.Names()
	if err != nil {
		return nil, err
	}
	return tables.Options(), nil
}

// open runs f on the stream named by the first argument.
func open(c *cli.Context, f func(context.Context, *os.File, []stream.Option) error) error {
	if !c.Args().Present() {
		return cli.NewExitError(fmt.Sprintf("missing file argument for %s", c.Command.Name), 1)
	}
	ctx, done, err := newContext(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer done()
	path := c.Args().First()
	ctx = log.V{"file": path}.Bind(ctx)
	opts, err := streamOptions(ctx, c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	file, err := os.Open(path)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer file.Close()
	if err := f(ctx, file, opts); err != nil {
		return cli.NewExitError(log.Errf(ctx, err, "%s failed", c.Command.Name).Error(), 1)
	}
	return nil
}

func dump(c *cli.Context) error {
	return open(c, func(ctx context.Context, file *os.File, opts []stream.Option) error {
		return stream.Dump(file, c.App.Writer, opts...)
	})
}

func stats(c *cli.Context) error {
	return open(c, func(ctx context.Context, file *os.File, opts []stream.Option) error {
		s, err := stream.CollectStats(file, opts...)
		if err != nil {
			return err
		}
		log.I(ctx, "Counted %d values in %d bytes", s.Values, s.Bytes)
		tags := make([]binary.Tag, 0, len(s.Tags))
		for t := range s.Tags {
			tags = append(tags, t)
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		fmt.Fprintf(c.App.Writer, "bytes:  %d\n", s.Bytes)
		fmt.Fprintf(c.App.Writer, "values: %d\n", s.Values)
		for _, t := range tags {
			fmt.Fprintf(c.App.Writer, "  %-12v %d\n", t, s.Tags[t])
		}
		return nil
	})
}

func checkPreset(c *cli.Context) error {
	if !c.Args().Present() {
		return cli.NewExitError("missing preset file argument", 1)
	}
	ctx, done, err := newContext(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer done()
	p, err := preset.LoadFile(c.Args().First())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if _, err := p.Names(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if len(p.Strings) == 0 && len(p.Types) == 0 {
		log.W(ctx, "Preset %q has empty tables", p.Name)
	}
	fmt.Fprintf(c.App.Writer, "name:    %s\n", p.Name)
	fmt.Fprintf(c.App.Writer, "strings: %d\n", len(p.Strings))
	fmt.Fprintf(c.App.Writer, "types:   %d\n", len(p.Types))
	return nil
}
