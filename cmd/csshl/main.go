// Command csshl syntax-highlights CSS files for the terminal and,
// optionally, checks them for lexical problems, reporting each one against
// the author's original source when a source map is available.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bennypowers.dev/cssinput/internal/collections"
	"bennypowers.dev/cssinput/internal/highlight"
	"bennypowers.dev/cssinput/internal/input"
	"bennypowers.dev/cssinput/internal/log"
	"bennypowers.dev/cssinput/internal/tokenizer"
	"bennypowers.dev/cssinput/internal/version"
)

var (
	flagNoColor bool
	flagTheme   string
	flagCheck   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:     "csshl [flags] <file|glob>...",
	Short:   "Highlight CSS files for the terminal",
	Long:    "csshl prints CSS with terminal colors. Use - to read from stdin.",
	Args:    cobra.MinimumNArgs(1),
	Version: version.GetVersion(),
	RunE:    run,
}

func main() {
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.Flags().StringVar(&flagTheme, "theme", "", "YAML file overriding category colors")
	rootCmd.Flags().BoolVar(&flagCheck, "check", false, "report lexical problems instead of highlighting")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		log.SetLevel(log.LevelDebug)
	}
	if flagNoColor {
		color.NoColor = true
	}

	theme := highlight.DefaultTheme()
	if flagTheme != "" {
		t, err := loadTheme(flagTheme)
		if err != nil {
			return err
		}
		theme = t
	}

	files, readStdin, err := expandArgs(args)
	if err != nil {
		return err
	}

	failed := false
	if readStdin {
		css, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		if !process(cmd, css, "", theme) {
			failed = true
		}
	}
	for _, file := range files {
		css, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		if !process(cmd, css, file, theme) {
			failed = true
		}
	}
	if failed {
		return errors.New("lexical problems found")
	}
	return nil
}

// process highlights or checks one CSS unit. It reports false when a check
// found a problem.
func process(cmd *cobra.Command, css []byte, file string, theme highlight.Theme) bool {
	opts := []input.Option{}
	if file != "" {
		opts = append(opts, input.WithFrom(file))
	}
	in, err := input.NewFromBytes(css, opts...)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return false
	}

	if flagCheck {
		return check(cmd, in)
	}
	fmt.Fprint(cmd.OutOrStdout(), theme.Highlight(in.CSS()))
	return true
}

// check strict-tokenizes the input and prints any failure as a positioned
// diagnostic with a source excerpt.
func check(cmd *cobra.Command, in *input.Input) bool {
	stream := tokenizer.New(in.CSS())
	for !stream.EndOfFile() {
		_, err := stream.NextToken()
		if err == nil {
			continue
		}
		var terr *tokenizer.Error
		if errors.As(err, &terr) {
			line, column := in.Position(terr.Offset)
			diag := in.Error("Unclosed "+terr.What, line, column)
			fmt.Fprintln(cmd.ErrOrStderr(), diag.Error())
			if code := diag.ShowSourceCode(!flagNoColor); code != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), code)
			}
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return false
	}
	log.Debug("%s: no lexical problems", in.From())
	return true
}

// expandArgs resolves file arguments and glob patterns into a deduplicated
// file list, preserving first-seen order. A bare "-" selects stdin.
func expandArgs(args []string) (files []string, readStdin bool, err error) {
	seen := collections.NewSet[string]()
	for _, arg := range args {
		if arg == "-" {
			readStdin = true
			continue
		}
		matches := []string{arg}
		if strings.ContainsAny(arg, "*?[{") {
			matches, err = doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, false, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				log.Warn("pattern %q matched no files", arg)
			}
		}
		for _, m := range matches {
			if seen.Has(m) {
				continue
			}
			seen.Add(m)
			files = append(files, m)
		}
	}
	return files, readStdin, nil
}
