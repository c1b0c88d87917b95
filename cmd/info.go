package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/urfave/cli"
)

// SystemInfo prints the host CPU and memory available for rendering.
func SystemInfo(ctx *cli.Context) error {
	setupLogging(ctx)
	return writeSystemInfo(ctx.App.Writer)
}

func writeSystemInfo(w io.Writer) error {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return fmt.Errorf("reading cpu info: %w", err)
	}
	physical, err := cpu.Counts(false)
	if err != nil {
		return fmt.Errorf("counting cpu cores: %w", err)
	}
	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("reading memory info: %w", err)
	}

	model, mhz := "unknown", 0.0
	if len(cpuInfo) > 0 {
		model, mhz = cpuInfo[0].ModelName, cpuInfo[0].Mhz
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"CPU", model},
		{"Clock", fmt.Sprintf("%.2f GHz", mhz/1000)},
		{"Physical cores", strconv.Itoa(physical)},
		{"Logical cores", strconv.Itoa(runtime.NumCPU())},
		{"Default workers", strconv.Itoa(runtime.NumCPU())},
		{"Total memory", fmt.Sprintf("%.1f GiB", float64(memInfo.Total)/(1<<30))},
		{"Available memory", fmt.Sprintf("%.1f GiB", float64(memInfo.Available)/(1<<30))},
		{"Go", runtime.Version()},
	})
	table.Render()
	return nil
}

// cpuModel returns the host CPU model name, empty when it cannot be read
func cpuModel() string {
	info, err := cpu.Info()
	if err != nil || len(info) == 0 {
		return ""
	}
	return info[0].ModelName
}
