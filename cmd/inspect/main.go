// Command inspect lists the variables of a WRF NetCDF file whose name or
// description mentions a keyword (default "swdown").
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/akamensky/argparse"

	csvadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/csv"
	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/wrf"
)

var csvHeader = []string{"Variable", "Dimensions", "Units", "Description", "Shape", "Standard_Description"}

type options struct {
	path     string
	keywords []string
	all      bool
	csvPath  string
}

func main() {
	opts, err := parseArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (options, error) {
	parser := argparse.NewParser("inspect", "Lists radiation-related variables of a WRF output file")

	path := parser.StringPositional(&argparse.Options{
		Required: true,
		Help:     "wrfout NetCDF file"})
	keywords := parser.StringList("k", "keyword", &argparse.Options{
		Default: []string{"swdown"},
		Help:    "Case-insensitive keyword matched against names and descriptions; repeatable"})
	all := parser.Flag("a", "all", &argparse.Options{
		Help: "List every variable"})
	csvPath := parser.String("o", "csv", &argparse.Options{
		Help: "Also write the table to this CSV file"})

	if err := parser.Parse(args); err != nil {
		return options{}, errors.New(parser.Usage(err))
	}
	return options{path: *path, keywords: *keywords, all: *all, csvPath: *csvPath}, nil
}

func run(opts options, out io.Writer) error {
	keywords := opts.keywords
	if opts.all {
		keywords = nil
	}
	vars, err := wrf.Inspect(opts.path, keywords)
	if err != nil {
		return err
	}
	if len(vars) == 0 {
		fmt.Fprintf(out, "No variables matching %s in %s\n", strings.Join(keywords, ", "), opts.path)
		return nil
	}

	records := make([][]string, len(vars))
	for i, v := range vars {
		records[i] = []string{v.Name, strings.Join(v.Dimensions, ", "), v.Units, v.Description, formatShape(v.Shape), v.Standard}
	}

	fmt.Fprintf(out, "Found %d variables in %s\n\n", len(vars), opts.path)
	for _, r := range records {
		fmt.Fprintf(out, "%s\n", r[0])
		for i := 1; i < len(csvHeader); i++ {
			if r[i] == "" {
				continue
			}
			fmt.Fprintf(out, "  %-21s %s\n", csvHeader[i]+":", r[i])
		}
	}

	if opts.csvPath != "" {
		err := csvadapter.CreateFile(opts.csvPath, func(w io.Writer) error {
			return csvadapter.WriteTable(w, csvHeader, records)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTable saved to %s\n", opts.csvPath)
	}
	return nil
}

// formatShape renders a shape as "(1, 2, 2)".
func formatShape(shape []int64) string {
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
