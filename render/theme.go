package render

import (
	"strconv"

	"pkt.systems/inkline/schema"
)

type rgb struct {
	r int
	g int
	b int
}

// theme holds the truecolor palette applied to styled runs.
type theme struct {
	Name   schema.ThemeName
	CodeFG rgb
	CodeBG rgb
	LinkFG rgb
}

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiItalic    = "\x1b[3m"
	ansiUnderline = "\x1b[4m"
	ansiStrike    = "\x1b[9m"
)

var themes = map[schema.ThemeName]theme{
	"outrun": {
		Name:   "outrun",
		CodeFG: rgb{r: 112, g: 214, b: 255},
		CodeBG: rgb{r: 32, g: 8, b: 56},
		LinkFG: rgb{r: 0, g: 229, b: 255},
	},
	"gruvbox": {
		Name:   "gruvbox",
		CodeFG: rgb{r: 250, g: 189, b: 47},
		CodeBG: rgb{r: 60, g: 56, b: 54},
		LinkFG: rgb{r: 131, g: 165, b: 152},
	},
	"tokyo-midnight": {
		Name:   "tokyo-midnight",
		CodeFG: rgb{r: 158, g: 206, b: 106},
		CodeBG: rgb{r: 26, g: 27, b: 38},
		LinkFG: rgb{r: 122, g: 162, b: 247},
	},
}

func themeForName(name schema.ThemeName) theme {
	if name == "" {
		name = schema.DefaultTheme
	}
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[schema.DefaultTheme]
}

func ansiFgRGB(c rgb) string {
	return "\x1b[38;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}

func ansiBgRGB(c rgb) string {
	return "\x1b[48;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}
