package model

import "fmt"

type Theme string

const (
	ThemeTable    Theme = "table"
	ThemeCards    Theme = "cards"
	ThemeList     Theme = "list"
	ThemeCarousel Theme = "carousel"
	ThemeHeatmap  Theme = "heatmap"
)

var Themes = []Theme{ThemeTable, ThemeCards, ThemeList, ThemeCarousel, ThemeHeatmap}

func ParseTheme(s string) (Theme, error) {
	for _, t := range Themes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Site is one listing website served by the process.
type Site struct {
	Slug     string
	Title    string
	Theme    Theme
	PageSize int
	Paginate bool
}
