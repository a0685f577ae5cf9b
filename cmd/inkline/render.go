package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pkt.systems/inkline"
	"pkt.systems/inkline/internal/appconfig"
	"pkt.systems/inkline/render"
	"pkt.systems/inkline/schema"
)

func newRenderCmd(cfgPath *string) *cobra.Command {
	var themeName string
	var width int
	var colorMode string
	var plain bool
	var hyperlinks bool
	cmd := &cobra.Command{
		Use:   "render [text...]",
		Short: "Render inline markup as styled terminal output",
		Long: "Render parses inline markup (bold, italic, strikethrough, underline,\n" +
			"inline code and links) and prints the result with ANSI styling. Text is\n" +
			"taken from the arguments, or from stdin when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			input, err := resolveInput(cmd, args)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("theme") {
				themeName = cfg.Render.Theme
			}
			if !flags.Changed("width") {
				width = cfg.Render.Width
			}
			if !flags.Changed("color") {
				colorMode = cfg.Render.Color
			}
			if !flags.Changed("hyperlinks") {
				hyperlinks = cfg.Render.Hyperlinks
			}
			out := cmd.OutOrStdout()
			if plain {
				for _, line := range strings.Split(input, "\n") {
					_, _ = fmt.Fprintln(out, inkline.PlainText(inkline.Parse(line)))
				}
				return nil
			}
			theme, ok := schema.NormalizeThemeName(themeName)
			if !ok {
				return fmt.Errorf("unsupported theme %q", themeName)
			}
			if width < 0 {
				return errors.New("width must not be negative")
			}
			color, err := resolveColor(colorMode, out)
			if err != nil {
				return err
			}
			renderer := render.New(render.Options{
				Theme:      theme,
				Width:      width,
				Color:      color,
				Hyperlinks: hyperlinks,
			})
			_, _ = fmt.Fprintln(out, renderer.Render(input))
			return nil
		},
	}
	cmd.Flags().StringVar(&themeName, "theme", string(schema.DefaultTheme), "color theme")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "wrap output to this width, 0 disables wrapping")
	cmd.Flags().StringVar(&colorMode, "color", "auto", "color output (auto, always, never)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the text with markers removed and no styling")
	cmd.Flags().BoolVar(&hyperlinks, "hyperlinks", false, "emit OSC 8 terminal hyperlinks for links")
	return cmd
}

func resolveInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("no input: pass text as arguments or on stdin")
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// resolveColor decides whether to emit ANSI styling. Auto mode honors
// NO_COLOR and requires the writer to be a terminal.
func resolveColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
	default:
		return false, fmt.Errorf("invalid color mode %q (use auto, always, or never)", mode)
	}
	if os.Getenv("NO_COLOR") != "" {
		return false, nil
	}
	file, ok := w.(*os.File)
	if !ok {
		return false, nil
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()), nil
}
