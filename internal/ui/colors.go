package ui

// Color accessors return the escape code for the active theme, or "" when
// colors are disabled.

func ColorPrimary() string   { return GetCurrentTheme().Primary }
func ColorSecondary() string { return GetCurrentTheme().Secondary }
func ColorSuccess() string   { return GetCurrentTheme().Success }
func ColorWarning() string   { return GetCurrentTheme().Warning }
func ColorError() string     { return GetCurrentTheme().Error }
func ColorInfo() string      { return GetCurrentTheme().Info }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorReset() string     { return GetCurrentTheme().Reset }

// Paint wraps s in color and a reset. It returns s unchanged when color is
// empty, so NoColorTheme output contains no stray reset codes.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + ColorReset()
}
