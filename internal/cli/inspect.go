package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinyvision/phpscan/internal/config"
	"github.com/shinyvision/phpscan/internal/php"
	"github.com/shinyvision/phpscan/internal/utils"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect [paths...]",
	Short: "Print the analysis report of PHP files and directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args, inspectFormat)
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "text", "Output format: text, json or yaml")
}

func inspect(out, errOut io.Writer, cfg *config.Config, args []string, format string) error {
	logger := commonlog.GetLoggerf("phpscan.cli")

	writer, ok := writers[format]
	if !ok {
		return fmt.Errorf("unknown format %q", format)
	}
	paths, err := collectFiles(args)
	if err != nil {
		return err
	}
	logger.Debugf("inspecting %d files", len(paths))

	store := php.NewDocumentStore(cfg.MaxDocuments)
	reports := make([]*php.Report, 0, len(paths))
	failed := 0
	for _, path := range paths {
		report, err := reportFor(store, path)
		if err != nil {
			failed++
			printError(errOut, path, err)
			continue
		}
		reports = append(reports, report)
	}

	if err := writer(out, reports); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be analyzed", failed, len(paths))
	}
	return nil
}

func reportFor(store *php.DocumentStore, path string) (*php.Report, error) {
	doc, err := store.Get(path)
	if err != nil {
		return nil, err
	}
	return doc.Report()
}

// collectFiles expands directories into the PHP files below them, skipping
// hidden directories and vendor/.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = utils.AppendUnique(paths, filepath.Clean(arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != arg && (strings.HasPrefix(name, ".") || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".php") {
				paths = utils.AppendUnique(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
