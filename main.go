package main

import (
	"os"

	"github.com/df07/go-progressive-pathtracer/cmd"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("pathtracer")

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes using progressive path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a built-in scene to a PNG file",
			Description: `
Render the scene progressively, one sample per pixel per pass, and write the
accumulated image once the requested number of passes has completed. An
interrupt stops rendering after the current pass and saves what was rendered.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "built-in scene name (see list-scenes)",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 400,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 0,
					Usage: "frame height, 0 to follow the scene camera aspect ratio",
				},
				cli.IntFlag{
					Name:  "passes, p",
					Value: 16,
					Usage: "number of progressive passes (samples per pixel), 0 to render until interrupted",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers, 0 for one per CPU",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: 64,
					Usage: "edge length of the tiles handed to workers",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "base random seed",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 150,
					Usage: "maximum number of bounces per path",
				},
				cli.IntFlag{
					Name:  "rr-depth",
					Value: 5,
					Usage: "bounces before russian roulette starts, 0 to disable",
				},
				cli.BoolFlag{
					Name:  "nee",
					Usage: "sample lights directly at diffuse hits",
				},
				cli.StringFlag{
					Name:  "light-selection",
					Value: "uniform",
					Usage: "how --nee picks a light: uniform or power",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "env",
					Value: "",
					Usage: "equirectangular environment image (png, jpeg, bmp, tiff, webp)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderScene,
		},
		{
			Name:   "list-scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:   "info",
			Usage:  "show host cpu and memory information",
			Action: cmd.SystemInfo,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
