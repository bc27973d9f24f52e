package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Layout is the fixed description of the main window.
type Layout struct {
	WindowTitle string
	Header      string
	HeaderSize  float32
	HeaderColor fyne.ThemeColorName

	TotalCaption     string
	CorrectCaption   string
	IncorrectCaption string

	ResetCaption string

	VideoMinSize    fyne.Size
	VideoBackground color.Color
}

var DefaultLayout = Layout{
	WindowTitle: "Validation System using Video Analytics",
	Header:      "Process Validation System",
	HeaderSize:  28,
	HeaderColor: theme.ColorNameForeground,

	TotalCaption:     "Total Cycles:",
	CorrectCaption:   "Correct Cycles:",
	IncorrectCaption: "Incorrect Cycles:",

	ResetCaption: "Reset Cycle",

	VideoMinSize:    fyne.NewSize(800, 600),
	VideoBackground: color.NRGBA{0xf8, 0xf9, 0xfa, 0xff},
}
