package cwidget

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Stat is a bold caption followed by a numeric value.
type Stat struct {
	widget.BaseWidget

	captionWidget *widget.Label
	valueWidget   *widget.Label

	Caption string
}

func NewStat(caption string, value int) *Stat {
	stat := &Stat{Caption: caption}

	stat.captionWidget = widget.NewLabel(caption)
	stat.captionWidget.TextStyle = fyne.TextStyle{Bold: true}

	stat.valueWidget = widget.NewLabel(strconv.Itoa(value))
	stat.valueWidget.TextStyle = fyne.TextStyle{Bold: true}

	stat.ExtendBaseWidget(stat)

	return stat
}

func (item *Stat) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewHBox(
		item.captionWidget,
		item.valueWidget,
	)

	return widget.NewSimpleRenderer(c)
}

func (item *Stat) SetValue(v int) {
	item.valueWidget.SetText(strconv.Itoa(v))
}

func (item *Stat) Text() string {
	return item.valueWidget.Text
}
