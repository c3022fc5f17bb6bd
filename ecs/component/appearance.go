package component

import "image/color"

type Appearance struct {
	Color color.RGBA
}

var AppearanceComponent = NewComponent[Appearance]()
