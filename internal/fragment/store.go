// SPDX-License-Identifier: MIT

package fragment

import (
	"fmt"
	"strings"

	"github.com/fontbuild/fontconf/internal/config"
)

// Fixed priorities of the canonical fragments. The numeric value doubles as
// the file-name prefix, which is what the downstream reader sorts by.
const (
	PriorityCache        = 0
	PriorityRendering    = 10
	PriorityUserConf     = 50
	PriorityLocalConf    = 51
	PriorityDefaultFonts = 52
	PriorityFontPolicy   = 53
)

const (
	xmlHeader = "<?xml version=\"1.0\"?>\n<!DOCTYPE fontconfig SYSTEM \"urn:fontconfig:fonts.dtd\">\n<fontconfig>\n"
	xmlFooter = "</fontconfig>\n"
)

// xmlEscaper covers the characters that may appear in family names and paths.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Store materializes the canonical fragment set from a settings record.
// Materialization is a pure function: identical inputs yield byte-identical
// fragment content, which is what lets the cache layer detect "nothing
// changed" and skip rebuilding.
type Store struct {
	slug string
}

// NewStore creates a fragment store. The slug names the distribution in
// generated file names ("00-<slug>-cache.conf" etc.).
func NewStore(slug string) *Store {
	if slug == "" {
		slug = "fontconf"
	}
	return &Store{slug: slug}
}

// Materialize deterministically produces the canonical built-in fragments for
// the given settings. The cache fragment starts out listing font directories
// only; the pipeline swaps in the full fragment once cache artifacts are
// resolved. Settings are assumed validated.
func (s *Store) Materialize(set config.Settings, fontDirs []string) []Fragment {
	frags := []Fragment{
		s.CacheFragment(fontDirs, nil),
		s.renderingFragment(set),
	}

	if set.IncludeUserConf {
		frags = append(frags, userConfFragment())
	}
	if set.LocalConfText != "" {
		frags = append(frags, localConfFragment())
	}
	if df := s.defaultFontsFragment(set.DefaultFonts); df != nil {
		frags = append(frags, *df)
	}
	if !set.AllowBitmaps {
		frags = append(frags, noBitmapsFragment())
	}
	frags = append(frags, embeddedBitmapsFragment(set.UseEmbeddedBitmaps))
	if !set.AllowType1 {
		frags = append(frags, noType1Fragment())
	}
	return frags
}

// CacheFragment renders the priority-0 fragment: every font directory, plus
// cache directory references when artifacts were resolved. With no artifacts
// the fragment degrades to directory-scan-only resolution.
func (s *Store) CacheFragment(fontDirs, cacheDirs []string) Fragment {
	var b strings.Builder
	b.WriteString(xmlHeader)
	for _, dir := range fontDirs {
		fmt.Fprintf(&b, "  <dir>%s</dir>\n", xmlEscaper.Replace(dir))
	}
	for _, dir := range cacheDirs {
		fmt.Fprintf(&b, "  <cachedir>%s</cachedir>\n", xmlEscaper.Replace(dir))
	}
	b.WriteString("  <cachedir prefix=\"xdg\">fontconfig</cachedir>\n")
	b.WriteString(xmlFooter)

	return Fragment{
		Name:     s.slug + "-cache",
		Priority: PriorityCache,
		Content:  []byte(b.String()),
	}
}

// renderingFragment encodes hinting, antialiasing, subpixel order, lcd filter
// and dpi as one rule block. The dpi rule is emitted only when dpi is set.
func (s *Store) renderingFragment(set config.Settings) Fragment {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("  <match target=\"font\">\n")
	writeBoolEdit(&b, "hinting", set.Hinting)
	writeBoolEdit(&b, "autohint", set.Autohint)
	writeBoolEdit(&b, "antialias", set.Antialias)
	fmt.Fprintf(&b, "    <edit mode=\"assign\" name=\"rgba\"><const>%s</const></edit>\n", set.RGBA)
	fmt.Fprintf(&b, "    <edit mode=\"assign\" name=\"lcdfilter\"><const>%s</const></edit>\n", set.LCDFilter.Const())
	b.WriteString("  </match>\n")
	if set.DPI != 0 {
		b.WriteString("  <match target=\"pattern\">\n")
		fmt.Fprintf(&b, "    <edit mode=\"assign\" name=\"dpi\"><double>%d</double></edit>\n", set.DPI)
		b.WriteString("  </match>\n")
	}
	b.WriteString(xmlFooter)

	return Fragment{
		Name:     s.slug + "-rendering",
		Priority: PriorityRendering,
		Content:  []byte(b.String()),
	}
}

func writeBoolEdit(b *strings.Builder, name string, value bool) {
	fmt.Fprintf(b, "    <edit mode=\"assign\" name=\"%s\"><bool>%t</bool></edit>\n", name, value)
}

// defaultFontsFragment emits one alias block per category with a non-empty
// preference list, in fixed category order. Returns nil when every category
// is empty so no priority-52 file appears at all.
func (s *Store) defaultFontsFragment(df config.DefaultFonts) *Fragment {
	categories := []struct {
		generic  string
		families []string
	}{
		{"sans-serif", df.SansSerif},
		{"serif", df.Serif},
		{"monospace", df.Monospace},
		{"emoji", df.Emoji},
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	emitted := false
	for _, cat := range categories {
		if len(cat.families) == 0 {
			continue
		}
		emitted = true
		b.WriteString("  <alias binding=\"same\">\n")
		fmt.Fprintf(&b, "    <family>%s</family>\n", cat.generic)
		b.WriteString("    <prefer>\n")
		for _, fam := range cat.families {
			fmt.Fprintf(&b, "      <family>%s</family>\n", xmlEscaper.Replace(fam))
		}
		b.WriteString("    </prefer>\n")
		b.WriteString("  </alias>\n")
	}
	b.WriteString(xmlFooter)

	if !emitted {
		return nil
	}
	return &Fragment{
		Name:     s.slug + "-default-fonts",
		Priority: PriorityDefaultFonts,
		Content:  []byte(b.String()),
	}
}

func userConfFragment() Fragment {
	content := xmlHeader +
		"  <include ignore_missing=\"yes\" prefix=\"xdg\">fontconfig/fonts.conf</include>\n" +
		xmlFooter
	return Fragment{Name: "user", Priority: PriorityUserConf, Content: []byte(content)}
}

func localConfFragment() Fragment {
	content := xmlHeader +
		"  <include ignore_missing=\"yes\">../local.conf</include>\n" +
		xmlFooter
	return Fragment{Name: "local", Priority: PriorityLocalConf, Content: []byte(content)}
}

func noBitmapsFragment() Fragment {
	content := xmlHeader +
		"  <selectfont>\n" +
		"    <rejectfont>\n" +
		"      <pattern>\n" +
		"        <patelt name=\"scalable\"><bool>false</bool></patelt>\n" +
		"      </pattern>\n" +
		"    </rejectfont>\n" +
		"  </selectfont>\n" +
		xmlFooter
	return Fragment{Name: "no-bitmaps", Priority: PriorityFontPolicy, Content: []byte(content)}
}

func embeddedBitmapsFragment(use bool) Fragment {
	content := xmlHeader +
		"  <match target=\"font\">\n" +
		fmt.Sprintf("    <edit mode=\"assign\" name=\"embeddedbitmap\"><bool>%t</bool></edit>\n", use) +
		"  </match>\n" +
		xmlFooter
	return Fragment{Name: "use-embedded-bitmaps", Priority: PriorityFontPolicy, Content: []byte(content)}
}

func noType1Fragment() Fragment {
	content := xmlHeader +
		"  <selectfont>\n" +
		"    <rejectfont>\n" +
		"      <pattern>\n" +
		"        <patelt name=\"fontformat\"><string>Type 1</string></patelt>\n" +
		"      </pattern>\n" +
		"    </rejectfont>\n" +
		"  </selectfont>\n" +
		xmlFooter
	return Fragment{Name: "no-type1", Priority: PriorityFontPolicy, Content: []byte(content)}
}

// EntryPoint renders the top-level fonts.conf that pulls in the assembled
// conf.d directory and declares the system cache directory.
func (s *Store) EntryPoint(systemCacheDir string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, "  <description>%s generated font configuration</description>\n", xmlEscaper.Replace(s.slug))
	b.WriteString("  <include ignore_missing=\"yes\">conf.d</include>\n")
	if systemCacheDir != "" {
		fmt.Fprintf(&b, "  <cachedir>%s</cachedir>\n", xmlEscaper.Replace(systemCacheDir))
	}
	b.WriteString("  <cachedir prefix=\"xdg\">fontconfig</cachedir>\n")
	b.WriteString(xmlFooter)
	return []byte(b.String())
}
