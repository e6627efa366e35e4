// SPDX-License-Identifier: MIT

// Package config defines the immutable settings record consumed by the
// fragment generators and the loader that produces it.
package config

// SubpixelOrder is the subpixel geometry used for rgba rendering.
type SubpixelOrder string

// Supported subpixel orders.
const (
	SubpixelRGB  SubpixelOrder = "rgb"
	SubpixelBGR  SubpixelOrder = "bgr"
	SubpixelVRGB SubpixelOrder = "vrgb"
	SubpixelVBGR SubpixelOrder = "vbgr"
	SubpixelNone SubpixelOrder = "none"
)

// SubpixelOrders lists all valid subpixel order values.
func SubpixelOrders() []string {
	return []string{
		string(SubpixelRGB),
		string(SubpixelBGR),
		string(SubpixelVRGB),
		string(SubpixelVBGR),
		string(SubpixelNone),
	}
}

// LCDFilter selects the FreeType lcd filter applied to subpixel-rendered text.
type LCDFilter string

// Supported lcd filters.
const (
	LCDNone    LCDFilter = "none"
	LCDDefault LCDFilter = "default"
	LCDLight   LCDFilter = "light"
	LCDLegacy  LCDFilter = "legacy"
)

// LCDFilters lists all valid lcd filter values.
func LCDFilters() []string {
	return []string{
		string(LCDNone),
		string(LCDDefault),
		string(LCDLight),
		string(LCDLegacy),
	}
}

// Const returns the fontconfig constant name for the filter ("lcddefault" etc.).
func (f LCDFilter) Const() string {
	return "lcd" + string(f)
}

// DefaultFonts maps the generic font categories to ordered preference lists.
// An empty list means no alias block is emitted for that category.
type DefaultFonts struct {
	SansSerif []string `yaml:"sansSerif"`
	Serif     []string `yaml:"serif"`
	Monospace []string `yaml:"monospace"`
	Emoji     []string `yaml:"emoji"`
}

// Settings is the immutable record of all global configuration knobs. It is
// consumed read-only to materialize fragments; it never mutates after a build
// request begins.
type Settings struct {
	Antialias          bool          `yaml:"antialias"`
	Hinting            bool          `yaml:"hinting"`
	Autohint           bool          `yaml:"autohint"`
	DPI                int           `yaml:"dpi"` // 0 means unset, no dpi rule is emitted
	RGBA               SubpixelOrder `yaml:"rgba"`
	LCDFilter          LCDFilter     `yaml:"lcdFilter"`
	AllowBitmaps       bool          `yaml:"allowBitmaps"`
	AllowType1         bool          `yaml:"allowType1"`
	UseEmbeddedBitmaps bool          `yaml:"useEmbeddedBitmaps"`
	IncludeUserConf    bool          `yaml:"includeUserConf"`
	DefaultFonts       DefaultFonts  `yaml:"defaultFonts"`
	LocalConfText      string        `yaml:"localConf"`
	Cache32Bit         bool          `yaml:"cache32Bit"`
}

// Defaults returns the settings used when no configuration file is supplied.
func Defaults() Settings {
	return Settings{
		Antialias:       true,
		Hinting:         true,
		RGBA:            SubpixelNone,
		LCDFilter:       LCDDefault,
		AllowBitmaps:    true,
		IncludeUserConf: true,
	}
}
