// Package condition classifies free-text weather condition labels into a
// small set of display categories.
package condition

import (
	"fmt"
	"strings"
)

// Category is a normalized display category for a condition label.
type Category string

const (
	CategoryDefault      Category = "default"
	CategorySunny        Category = "sunny"
	CategoryClear        Category = "clear"
	CategoryMist         Category = "mist"
	CategoryThunderstorm Category = "thunderstorm"
	CategoryCloudy       Category = "cloudy"
	CategoryRain         Category = "rain"
	CategorySnow         Category = "snow"
	CategoryWindy        Category = "windy"
)

// Gradient is a two-stop background gradient.
type Gradient struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CSS renders the gradient as a CSS background value.
func (g Gradient) CSS() string {
	return fmt.Sprintf("linear-gradient(135deg, %s, %s)", g.Start, g.End)
}

// Style is everything the rendering layer needs for one category.
type Style struct {
	Icon     string   `json:"icon"`
	Color    string   `json:"color"`
	Gradient Gradient `json:"gradient"`
}

var sunnyStyle = Style{Icon: "sun", Color: "#FFCC00", Gradient: Gradient{Start: "#f7b733", End: "#fc4a1a"}}

// styles is the single source for icon, color and background per category.
var styles = map[Category]Style{
	CategoryDefault:      sunnyStyle,
	CategorySunny:        sunnyStyle,
	CategoryClear:        {Icon: "cloudy", Color: "white", Gradient: Gradient{Start: "#56ccf2", End: "#2f80ed"}},
	CategoryMist:         {Icon: "cloud-fog", Color: "grey", Gradient: Gradient{Start: "#bdc3c7", End: "#606c88"}},
	CategoryThunderstorm: {Icon: "cloud-lightning", Color: "yellow", Gradient: Gradient{Start: "#232526", End: "#414345"}},
	CategoryCloudy:       {Icon: "cloud", Color: "#B0B0B0", Gradient: Gradient{Start: "#8e9eab", End: "#4b6cb7"}},
	CategoryRain:         {Icon: "cloud-rain", Color: "#0077B6", Gradient: Gradient{Start: "#4b79a1", End: "#283e51"}},
	CategorySnow:         {Icon: "snowflake", Color: "#A9A9A9", Gradient: Gradient{Start: "#e6dada", End: "#274046"}},
	CategoryWindy:        {Icon: "wind", Color: "#00A3E0", Gradient: Gradient{Start: "#a8c0ff", End: "#3f2b96"}},
}

// aliases maps a normalized condition label to its category.
var aliases = map[string]Category{
	"sunny": CategorySunny,

	"clear":         CategoryClear,
	"partly cloudy": CategoryClear,

	"mist":         CategoryMist,
	"fog":          CategoryMist,
	"freezing fog": CategoryMist,

	"lightning":                    CategoryThunderstorm,
	"thunder":                      CategoryThunderstorm,
	"thunderstorm":                 CategoryThunderstorm,
	"thundery outbreaks in nearby": CategoryThunderstorm,
	"thundery outbreaks possible":  CategoryThunderstorm,

	"cloudy":   CategoryCloudy,
	"overcast": CategoryCloudy,

	"rain":                 CategoryRain,
	"drizzle":              CategoryRain,
	"patchy rain nearby":   CategoryRain,
	"patchy rain possible": CategoryRain,
	"light rain":           CategoryRain,
	"moderate rain":        CategoryRain,
	"heavy rain":           CategoryRain,
	"light drizzle":        CategoryRain,
	"patchy light drizzle": CategoryRain,
	"light rain shower":    CategoryRain,

	"snow":               CategorySnow,
	"light snow":         CategorySnow,
	"moderate snow":      CategorySnow,
	"heavy snow":         CategorySnow,
	"patchy snow nearby": CategorySnow,
	"blizzard":           CategorySnow,

	"wind":  CategoryWindy,
	"windy": CategoryWindy,
}

// Classify maps a condition label to its category. Matching is exact after
// trimming and lower-casing; anything unknown is CategoryDefault.
func Classify(text string) Category {
	if c, ok := aliases[strings.ToLower(strings.TrimSpace(text))]; ok {
		return c
	}
	return CategoryDefault
}

// Style returns the display style of the category. Unknown categories get
// the default style.
func (c Category) Style() Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return styles[CategoryDefault]
}

// StyleFor classifies text and returns its style.
func StyleFor(text string) Style {
	return Classify(text).Style()
}

// IconFor returns the icon identity and color for a condition label.
func IconFor(text string) (icon, color string) {
	s := StyleFor(text)
	return s.Icon, s.Color
}

// BackgroundFor returns the background gradient for a condition label.
func BackgroundFor(text string) Gradient {
	return StyleFor(text).Gradient
}
