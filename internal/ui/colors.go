package ui

import "image/color"

// Theme colors - these are variables so they can be modified for dark mode
var (
	colBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colText       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	colGray       = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	colAccent     = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
	colHover      = color.NRGBA{R: 235, G: 240, B: 250, A: 255}
	colDropTarget = color.NRGBA{R: 200, G: 220, B: 255, A: 255}
	colDirIcon    = color.NRGBA{R: 0, G: 0, B: 128, A: 255}
	colBarBorder  = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	colDialogBg   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	colBackdrop      = color.NRGBA{R: 0, G: 0, B: 0, A: 180}
	colShadow        = color.NRGBA{R: 0, G: 0, B: 0, A: 60}
	colDragShadow    = color.NRGBA{R: 200, G: 220, B: 255, A: 200}
	colDangerBtn     = color.NRGBA{R: 220, G: 53, B: 69, A: 255}
	colDangerBtnText = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// applyDarkMode swaps the palette. Only called before the first frame.
func applyDarkMode() {
	colBackground = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
	colText = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	colGray = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	colAccent = color.NRGBA{R: 120, G: 170, B: 255, A: 255}
	colHover = color.NRGBA{R: 50, G: 55, B: 65, A: 255}
	colDropTarget = color.NRGBA{R: 45, G: 75, B: 120, A: 255}
	colDirIcon = color.NRGBA{R: 140, G: 170, B: 230, A: 255}
	colBarBorder = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	colDialogBg = color.NRGBA{R: 45, G: 45, B: 45, A: 255}
	colDragShadow = color.NRGBA{R: 45, G: 75, B: 120, A: 200}
}
