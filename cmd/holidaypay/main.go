/*
main.go - Command-line holiday pay transformer

PURPOSE:
  Runs the payroll transformer over an export file without the server.

USAGE:
  holidaypay -holiday 2021-01-01 -in export.csv [-out payroll.xlsx]
             [-sheet Name] [-preset legacy] [-rules rules.json]

  -in   .csv or .xlsx; "-" or empty reads CSV from stdin
  -out  .xlsx writes a workbook with Payroll and Approval sheets; any other
        name writes CSV; "-" or empty writes CSV to stdout

  The names needing extra approval are logged to stderr. Configuration
  from the environment (see config/config.go) applies; -preset and -rules
  replace RULES_PRESET and RULES_FILE.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/holiday-pay/api"
	"github.com/warp/holiday-pay/config"
	"github.com/warp/holiday-pay/payroll"
	"github.com/warp/holiday-pay/table"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "holidaypay:", err)
		}
		os.Exit(2)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("holidaypay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	holidayFlag := fs.String("holiday", "", "Holiday date, YYYY-MM-DD")
	in := fs.String("in", "", "Export file (.csv or .xlsx)")
	out := fs.String("out", "", "Output file (.csv or .xlsx)")
	sheet := fs.String("sheet", "", "Sheet to read from an .xlsx export")
	preset := fs.String("preset", "", "Rules preset (overrides RULES_PRESET)")
	rulesFile := fs.String("rules", "", "Rules JSON file (overrides RULES_FILE)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *preset != "" {
		cfg.Rules.Preset = *preset
	}
	if *rulesFile != "" {
		cfg.Rules.File = *rulesFile
	}
	logger := api.NewLogger(stderr, cfg.App)

	rules, err := cfg.Rules.PayrollRules()
	if err != nil {
		return err
	}
	tr, err := payroll.NewTransformer(rules)
	if err != nil {
		return err
	}

	holiday, err := payroll.ParseHoliday(*holidayFlag)
	if err != nil {
		return err
	}

	input, err := readInput(*in, *sheet, stdin)
	if err != nil {
		return err
	}

	res, err := tr.Process(holiday, input)
	if err != nil {
		return err
	}

	if err := writeOutput(*out, res, stdout); err != nil {
		return err
	}

	logger.Info("holiday pay computed",
		slog.String("holiday", holiday.String()),
		slog.Int("rows", len(res.Rows)),
		slog.Any("super_admin_list", res.ApprovalNames),
	)
	return nil
}

func readInput(path, sheet string, stdin io.Reader) (table.Table, error) {
	if path == "" || path == "-" {
		t, err := table.ReadCSV(stdin)
		if err != nil {
			return table.Table{}, fmt.Errorf("%w: %w", payroll.ErrMalformedInput, err)
		}
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, err
	}
	defer f.Close()

	var t table.Table
	if isXLSX(path) {
		t, err = table.ReadXLSX(f, sheet)
	} else {
		t, err = table.ReadCSV(f)
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("%w: %s: %w", payroll.ErrMalformedInput, path, err)
	}
	return t, nil
}

func writeOutput(path string, res *payroll.Result, stdout io.Writer) error {
	if path == "" || path == "-" {
		return table.WriteCSV(stdout, res.Table)
	}

	if isXLSX(path) {
		approval := table.Table{Header: []string{"Name"}}
		for _, n := range res.ApprovalNames {
			approval.Rows = append(approval.Rows, []string{n})
		}
		return createFile(path, func(w io.Writer) error {
			return table.WriteXLSX(w,
				table.Sheet{Name: "Payroll", Table: res.Table},
				table.Sheet{Name: "Approval", Table: approval},
			)
		})
	}
	return createFile(path, func(w io.Writer) error {
		return table.WriteCSV(w, res.Table)
	})
}

// createFile writes path through write. The file is removed if writing or
// closing fails.
func createFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
