// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/fontbuild/fontconf/internal/validate"
)

// Validate checks a Settings record before any fragment is materialized.
// The returned error is a validate.ValidationError listing every violation.
func Validate(s Settings) error {
	v := validate.New()

	// DPI of 0 means "unset"; anything negative is malformed.
	v.Min("DPI", s.DPI, 0)

	v.OneOf("RGBA", string(s.RGBA), SubpixelOrders())
	v.OneOf("LCDFilter", string(s.LCDFilter), LCDFilters())

	validateFamilies(v, "DefaultFonts.SansSerif", s.DefaultFonts.SansSerif)
	validateFamilies(v, "DefaultFonts.Serif", s.DefaultFonts.Serif)
	validateFamilies(v, "DefaultFonts.Monospace", s.DefaultFonts.Monospace)
	validateFamilies(v, "DefaultFonts.Emoji", s.DefaultFonts.Emoji)

	return v.Err()
}

func validateFamilies(v *validate.Validator, field string, families []string) {
	for i, fam := range families {
		v.NonEmpty(fmt.Sprintf("%s[%d]", field, i), fam)
	}
}
