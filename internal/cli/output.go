package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shinyvision/phpscan/internal/php"
	"gopkg.in/yaml.v3"
)

var (
	errorStyle  = color.New(color.FgRed, color.Bold)
	fileStyle   = color.New(color.FgCyan, color.Bold)
	kindStyle   = color.New(color.FgYellow, color.Bold)
	lineStyle   = color.New(color.FgHiBlue, color.Bold)
	hintStyle   = color.New(color.FgGreen, color.Bold)
	detailStyle = color.New(color.FgWhite)
)

var writers = map[string]func(io.Writer, []*php.Report) error{
	"text": writeText,
	"json": writeJSON,
	"yaml": writeYAML,
}

func writeJSON(w io.Writer, reports []*php.Report) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, reports []*php.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}

func writeText(w io.Writer, reports []*php.Report) error {
	for _, r := range reports {
		fileStyle.Fprintln(w, r.Path)

		for _, class := range r.Classes {
			kindStyle.Fprintf(w, "  %s ", class.Kind)
			fmt.Fprintf(w, "%s ", class.Name)
			lineStyle.Fprintf(w, "%d:%d\n", class.At.Line, class.At.Column)
			if class.Constructor == nil {
				continue
			}
			ctor := class.Constructor
			detailStyle.Fprintf(w, "    __construct: %d parameters, %d promotable\n", len(ctor.Parameters), len(ctor.Promotable))
			for _, a := range ctor.Assignments {
				hintStyle.Fprint(w, "    promote ")
				fmt.Fprintf(w, "$this->%s = %s ", a.Property, a.Parameter)
				lineStyle.Fprintf(w, "%d:%d\n", a.Start.Line, a.Start.Column)
			}
		}
		for _, sw := range r.Switches {
			kindStyle.Fprint(w, "  switch ")
			fmt.Fprintf(w, "%d cases ", len(sw.Cases))
			lineStyle.Fprintf(w, "%d:%d\n", sw.At.Line, sw.At.Column)
		}
		for _, p := range r.DataProviders {
			kindStyle.Fprint(w, "  data provider ")
			fmt.Fprintf(w, "%s used %d times ", p.Name, len(p.Usages))
			lineStyle.Fprintf(w, "%d:%d\n", p.At.Line, p.At.Column)
		}

		elements, keyed := 0, 0
		for _, a := range r.Arrays {
			elements += a.Elements
			keyed += a.Keyed
		}
		constant := 0
		for _, c := range r.Calls {
			if allConstant(c.Arguments) {
				constant++
			}
		}
		detailStyle.Fprintf(w, "  %d arrays (%d elements, %d keyed), %d calls (%d with constant arguments), %d references\n",
			len(r.Arrays), elements, keyed, len(r.Calls), constant, len(r.References))
	}
	return nil
}

func allConstant(args []php.ArgumentReport) bool {
	for _, a := range args {
		if !a.Constant {
			return false
		}
	}
	return true
}

func printError(w io.Writer, path string, err error) {
	fileStyle.Fprint(w, path)
	fmt.Fprint(w, ": ")
	errorStyle.Fprintln(w, err.Error())
}
