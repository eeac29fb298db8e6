// Package render turns a calculator.View into terminal text or JSON, and maps
// result styles onto the CSS classes the embeddable widget uses.
package render

import "github.com/vk/calcform/internal/rules"

var styleClasses = map[rules.Style]string{
	rules.StyleDefault: "bg-gray-100 text-gray-900 border-gray-300",
	rules.StyleSuccess: "bg-green-50 text-green-900 border-green-300",
	rules.StyleWarning: "bg-yellow-50 text-yellow-900 border-yellow-300",
	rules.StyleError:   "bg-red-50 text-red-900 border-red-300",
}

var fontSizeClasses = map[string]string{
	"small":  "text-sm",
	"medium": "text-base",
	"large":  "text-lg",
	"xlarge": "text-xl",
}

var textAlignClasses = map[string]string{
	"left":   "text-left",
	"center": "text-center",
	"right":  "text-right",
}

// StyleClass returns the CSS classes of a result style. Unknown styles get the
// default classes.
func StyleClass(style rules.Style) string {
	if c, ok := styleClasses[style]; ok {
		return c
	}
	return styleClasses[rules.StyleDefault]
}

// FontSizeClass returns the CSS class of a font size, medium by default.
func FontSizeClass(size string) string {
	if c, ok := fontSizeClasses[size]; ok {
		return c
	}
	return fontSizeClasses["medium"]
}

// TextAlignClass returns the CSS class of an alignment, left by default.
func TextAlignClass(align string) string {
	if c, ok := textAlignClasses[align]; ok {
		return c
	}
	return textAlignClasses["left"]
}
