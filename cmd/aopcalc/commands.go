package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"Ech2o/internal/auth"
	"Ech2o/internal/calc/export"
	"Ech2o/internal/calc/premium/batch"
	"Ech2o/internal/calc/premium/importer"
	"Ech2o/internal/calc/report"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "text",
		Usage:   "Output format (text, json)",
	}
}

func designCommand() *cli.Command {
	return &cli.Command{
		Name:  "design",
		Usage: "Size the plant and print the design with its costs",
		Flags: append(append(rateFlags(), processFlags()...), outputFlag()),
		Action: func(c *cli.Context) error {
			ev, err := evaluate(c)
			if err != nil {
				return err
			}
			switch c.String("output") {
			case "json":
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Design   any `json:"design"`
					Analysis any `json:"analysis"`
				}{ev.Design, ev.Analysis})
			case "text":
				return writeText(c.App.Writer, ev)
			default:
				return fmt.Errorf("unknown output format %q", c.String("output"))
			}
		},
	}
}

func exportCommand(now func() time.Time) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the cost analysis, design summary or workbook to a file",
		Flags: append(append(rateFlags(), processFlags()...),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "csv",
				Usage:   "Export format (csv, design, xlsx)",
			},
			&cli.StringFlag{Name: "out", Required: true, Usage: "Output file"},
		),
		Action: func(c *cli.Context) error {
			ev, err := evaluate(c)
			if err != nil {
				return err
			}
			return writeFile(c.String("out"), func(f *os.File) error {
				switch c.String("format") {
				case "csv":
					return export.WriteCostCSV(f, ev)
				case "design":
					return export.WriteDesignCSV(f, ev, now())
				case "xlsx":
					return export.WriteWorkbook(f, ev, now())
				}
				return fmt.Errorf("unknown export format %q", c.String("format"))
			})
		},
	}
}

func reportCommand(now func() time.Time) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render the PDF design report",
		Flags: append(append(rateFlags(), processFlags()...),
			&cli.StringFlag{Name: "out", Required: true, Usage: "Output PDF file"},
			&cli.StringFlag{Name: "project", Usage: "Project name for the header"},
			&cli.StringFlag{Name: "author", Usage: "Author for the header"},
		),
		Action: func(c *cli.Context) error {
			ev, err := evaluate(c)
			if err != nil {
				return err
			}
			t := now()
			meta := report.Meta{
				Number:  report.NewNumber(t),
				Project: c.String("project"),
				Author:  c.String("author"),
				Date:    t,
			}
			if err := writeFile(c.String("out"), func(f *os.File) error { return report.WritePDF(f, ev, meta) }); err != nil {
				return err
			}
			log.Info().Str("report", meta.Number).Str("file", c.String("out")).Msg("report written")
			return nil
		},
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Evaluate every scenario row of an XLSX sheet",
		Flags: append(rateFlags(),
			&cli.StringFlag{Name: "file", Required: true, Usage: "XLSX with columns " + strings.Join(importer.Columns, ", ")},
			outputFlag(),
		),
		Action: func(c *cli.Context) error {
			base, err := baseInput(c)
			if err != nil {
				return err
			}
			f, err := os.Open(c.String("file"))
			if err != nil {
				return err
			}
			defer f.Close()
			sheet, err := importer.Read(f)
			if err != nil {
				return err
			}
			for _, s := range sheet.Skipped {
				log.Warn().Int("row", s.Row).Str("reason", s.Reason).Msg("row skipped")
			}
			if len(sheet.Items) == 0 {
				return fmt.Errorf("no valid rows in %s", c.String("file"))
			}
			res, err := batch.Calculate(batch.Input{Rates: base.Rates, Years: c.Int("years"), Items: sheet.Items})
			if err != nil {
				return err
			}
			if c.String("output") == "json" {
				return json.NewEncoder(c.App.Writer).Encode(res)
			}
			return writeBatch(c.App.Writer, res, sheet.Rows)
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print the bcrypt hash for ADMIN_PASSWORD_HASH (reads the password from stdin)",
		ArgsUsage: " ",
		Action: func(c *cli.Context) error {
			line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			pw := strings.TrimRight(line, "\r\n")
			if pw == "" {
				return fmt.Errorf("empty password")
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, hash)
			return nil
		},
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
