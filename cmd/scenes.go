package cmd

import (
	"io"
	"strconv"

	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)
	return writeSceneTable(ctx.App.Writer)
}

func writeSceneTable(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Primitives", "Lights", "Description"})

	for _, info := range scene.Builtins() {
		s, err := scene.Load(info.Name)
		if err != nil {
			return err
		}
		if err := s.Preprocess(); err != nil {
			return err
		}
		table.Append([]string{
			info.Name,
			strconv.Itoa(s.PrimitiveCount()),
			strconv.Itoa(len(s.Lights)),
			info.Description,
		})
	}

	table.Render()
	return nil
}
