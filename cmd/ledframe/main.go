package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bodgit/ledframe"
	"github.com/bodgit/ledframe/enhance"
	"github.com/bodgit/ledframe/frame"
	"github.com/bodgit/ledframe/generate"
	"github.com/bodgit/ledframe/palette"
	"github.com/bodgit/ledframe/sample"
	"github.com/bodgit/ledframe/server"
	"github.com/urfave/cli/v2"
)

const defaultDB = "ledframe.db"

var errUnknownFormat = errors.New("unknown output format")

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(c.App.ErrWriter)
	}
	return logger
}

func openDB(c *cli.Context) (*ledframe.FrameDB, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return ledframe.NewFrameDB(c.String("db"))
}

func newConverter(c *cli.Context, db *ledframe.FrameDB, logger *log.Logger) (*ledframe.Converter, error) {
	p := enhance.Params{
		Gamma:               c.Float64("gamma"),
		Contrast:            c.Float64("contrast"),
		Saturation:          c.Float64("saturation"),
		SaturationThreshold: c.Float64("saturation-threshold"),
		MinBrightness:       c.Int("min-brightness"),
	}

	o := sample.DefaultOptions
	o.Headroom = c.Int("headroom")
	o.Skip = c.Int("skip")

	options := []ledframe.Option{
		ledframe.WithParams(p),
		ledframe.WithSampleOptions(o),
	}
	if c.Bool("no-decode") {
		options = append(options, ledframe.WithoutDecoder())
	}

	return ledframe.New(db, logger, options...)
}

// withConverter sets up the logger, database and converter for an action.
func withConverter(fn func(*cli.Context, *ledframe.Converter, *ledframe.FrameDB, *log.Logger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger := newLogger(c)

		db, err := openDB(c)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if db != nil {
			defer db.Close()
		}

		conv, err := newConverter(c, db, logger)
		if err != nil {
			return cli.Exit(err, 1)
		}

		if err := fn(c, conv, db, logger); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}
}

func writeResult(c *cli.Context, r *ledframe.Result) error {
	if c.String("output") == "" {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	m, err := r.Frame()
	if err != nil {
		return err
	}

	f, err := os.Create(c.String("output"))
	if err != nil {
		return err
	}
	defer f.Close()

	switch c.String("format") {
	case "frame":
		b, err := m.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := f.Write(b); err != nil {
			return err
		}
	case "palette":
		if err := palette.Encode(f, m, c.Int("colors")); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", errUnknownFormat, c.String("format"))
	}

	return f.Close()
}

func serve(c *cli.Context, conv *ledframe.Converter, db *ledframe.FrameDB, logger *log.Logger) error {
	var g generate.Generator
	if key := c.String("api-key"); key != "" {
		client := generate.NewClient(key)
		if u := c.String("api-url"); u != "" {
			client.URL = u
		}
		g = client
	} else {
		logger.Println("No API key set, image generation disabled")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := c.String("listen")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(conv, g, db, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	logger.Printf("Listening on %s\n", srv.Addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Println("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "ledframe"
	app.Usage = "Convert images for 16x16 LED matrix picture frames"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"LEDFRAME_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database, empty to disable",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.Float64Flag{
			Name:  "gamma",
			Value: enhance.DefaultParams.Gamma,
			Usage: "gamma correction exponent",
		},
		&cli.Float64Flag{
			Name:  "contrast",
			Value: enhance.DefaultParams.Contrast,
			Usage: "contrast factor around mid-gray",
		},
		&cli.Float64Flag{
			Name:  "saturation",
			Value: enhance.DefaultParams.Saturation,
			Usage: "saturation boost factor",
		},
		&cli.Float64Flag{
			Name:  "saturation-threshold",
			Value: enhance.DefaultParams.SaturationThreshold,
			Usage: "pixels at or below this saturation are not boosted",
		},
		&cli.IntFlag{
			Name:  "min-brightness",
			Value: enhance.DefaultParams.MinBrightness,
			Usage: "minimum brightness for non-black pixels",
		},
		&cli.IntFlag{
			Name:  "headroom",
			Value: sample.DefaultOptions.Headroom,
			Usage: "byte sampler stride headroom",
		},
		&cli.IntFlag{
			Name:  "skip",
			Value: sample.DefaultOptions.Skip,
			Usage: "leading bytes skipped by the byte sampler",
		},
		&cli.BoolFlag{
			Name:  "no-decode",
			Usage: "always sample raw bytes instead of decoding images",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert an image file to a frame",
			Description: "Prints the frame as JSON unless an output file is given",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write the frame to `FILE`",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "frame",
					Usage:   "output format, frame or palette",
				},
				&cli.IntFlag{
					Name:  "colors",
					Value: palette.MaxColors,
					Usage: "maximum palette size",
				},
			},
			Action: withConverter(func(c *cli.Context, conv *ledframe.Converter, _ *ledframe.FrameDB, _ *log.Logger) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				r, err := conv.ConvertFile(c.Args().First())
				if err != nil {
					return err
				}

				return writeResult(c, r)
			}),
		},
		{
			Name:        "scan",
			Usage:       "Convert every image under a directory",
			Description: "Writes a " + frame.Extension + " file next to each image",
			ArgsUsage:   "DIRECTORY",
			Action: withConverter(func(c *cli.Context, conv *ledframe.Converter, _ *ledframe.FrameDB, _ *log.Logger) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return conv.Scan(c.Args().First())
			}),
		},
		{
			Name:      "generate",
			Usage:     "Generate an image from a prompt and convert it",
			ArgsUsage: "PROMPT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "api-key",
					EnvVars:  []string{"STABILITY_API_KEY"},
					Usage:    "image generation API key",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "api-url",
					Value: generate.DefaultURL,
					Usage: "image generation endpoint",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write the frame to `FILE`",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "frame",
					Usage:   "output format, frame or palette",
				},
				&cli.IntFlag{
					Name:  "colors",
					Value: palette.MaxColors,
					Usage: "maximum palette size",
				},
			},
			Action: withConverter(func(c *cli.Context, conv *ledframe.Converter, _ *ledframe.FrameDB, logger *log.Logger) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				client := generate.NewClient(c.String("api-key"))
				client.URL = c.String("api-url")

				b, err := client.Generate(c.Context, c.Args().First())
				if err != nil {
					return err
				}

				logger.Printf("Image size: %d bytes\n", len(b))

				r, err := conv.Convert(ledframe.RawByteStream(b))
				if err != nil {
					return err
				}

				return writeResult(c, r)
			}),
		},
		{
			Name:  "serve",
			Usage: "Serve the HTTP API",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "listen",
					Aliases: []string{"l"},
					EnvVars: []string{"PORT"},
					Value:   ":3000",
					Usage:   "listen address",
				},
				&cli.StringFlag{
					Name:    "api-key",
					EnvVars: []string{"STABILITY_API_KEY"},
					Usage:   "image generation API key",
				},
				&cli.StringFlag{
					Name:  "api-url",
					Value: generate.DefaultURL,
					Usage: "image generation endpoint",
				},
			},
			Action: withConverter(serve),
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
