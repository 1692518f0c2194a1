package basic

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/jpnorenam/device-scan/pkg/types"
)

const tableMaxWidth = 100

func deviceRows(devices types.DeviceList) [][]string {
	var rows [][]string
	for _, gpu := range devices.GPUs() {
		address := gpu.Address.String()
		// Mark the boot display adapter with "*"
		if gpu.BootVGA {
			address += "*"
		}

		vendor := gpu.GetVendor()
		if vendor == "" {
			vendor = gpu.VendorId.String()
		}
		name := gpu.GetName()
		if name == "" {
			name = gpu.DeviceId.String()
		}

		rows = append(rows, []string{address, vendor, name, gpu.GetDriver()})
	}
	return rows
}

func printDevicesTable(w io.Writer, devices types.DeviceList) error {
	var headerRow = []string{"address", "vendor", "device", "driver"}

	rows := deviceRows(devices)
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No GPUs found.")
		return nil
	}

	var addressMaxLen, vendorMaxLen, driverMaxLen int
	for _, row := range rows {
		addressMaxLen = max(addressMaxLen, len(row[0]))
		vendorMaxLen = max(vendorMaxLen, len(row[1]))
		driverMaxLen = max(driverMaxLen, len(row[3]))
	}

	// Increase column widths to account for paddings
	addressMaxLen += 1
	vendorMaxLen += 2
	driverMaxLen = max(driverMaxLen, len(headerRow[3])) + 1
	// Device column fills the remaining space
	deviceMaxLen := tableMaxWidth - (addressMaxLen + vendorMaxLen + driverMaxLen)

	padding := tw.CellPadding{
		PerColumn: []tw.Padding{
			{Overwrite: true, Right: " "},
			{Overwrite: true, Left: " ", Right: " "},
			{Overwrite: true, Left: " ", Right: " "},
			{Overwrite: true, Left: " "},
		},
	}
	options := []tablewriter.Option{
		tablewriter.WithRenderer(renderer.NewColorized(renderer.ColorizedConfig{
			Header: renderer.Tint{
				FG: renderer.Colors{color.Bold}, // Bold headers
			},
			Column: renderer.Tint{
				FG: renderer.Colors{color.Reset},
				BG: renderer.Colors{color.Reset},
			},
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off, ShowFooter: tw.Off, BetweenRows: tw.Off, BetweenColumns: tw.Off},
				Lines: tw.Lines{
					ShowTop:        tw.Off,
					ShowBottom:     tw.Off,
					ShowHeaderLine: tw.Off,
					ShowFooterLine: tw.Off,
				},
				CompactMode: tw.On,
			},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			MaxWidth: tableMaxWidth,
			Widths: tw.CellWidth{
				PerColumn: tw.Mapper[int, int]{
					0: addressMaxLen,
					1: vendorMaxLen,
					2: deviceMaxLen,
					3: driverMaxLen,
				},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Padding:   padding,
			},
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapTruncate},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Padding:    padding,
			},
		}),
	}

	table := tablewriter.NewTable(w, options...)
	table.Header(headerRow)
	err := table.Bulk(rows)
	if err != nil {
		return fmt.Errorf("error adding data to table: %v", err)
	}
	err = table.Render()
	if err != nil {
		return fmt.Errorf("error rendering table: %v", err)
	}
	return nil
}
