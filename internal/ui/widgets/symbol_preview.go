package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SymbolStudio/internal/encoder"
	"github.com/piwi3910/SymbolStudio/internal/render"
)

// neutral backdrop so white quiet zones stay visible
var previewBackground = color.NRGBA{R: 235, G: 235, B: 235, A: 255}

// SymbolPreview shows the rendered symbol, or a message when there is none.
type SymbolPreview struct {
	widget.BaseWidget
	symbol    encoder.EncodedSymbol
	message   string
	minWidth  float32
	minHeight float32
}

func NewSymbolPreview(minW, minH float32) *SymbolPreview {
	sp := &SymbolPreview{
		message:   "Enter data to preview the symbol",
		minWidth:  minW,
		minHeight: minH,
	}
	sp.ExtendBaseWidget(sp)
	return sp
}

// SetSymbol shows sym and clears any message.
func (sp *SymbolPreview) SetSymbol(sym encoder.EncodedSymbol) {
	sp.symbol = sym
	sp.message = ""
	sp.Refresh()
}

// SetMessage clears the symbol and shows msg instead.
func (sp *SymbolPreview) SetMessage(msg string) {
	sp.symbol = encoder.EncodedSymbol{}
	sp.message = msg
	sp.Refresh()
}

func (sp *SymbolPreview) Symbol() encoder.EncodedSymbol { return sp.symbol }
func (sp *SymbolPreview) Message() string               { return sp.message }

func (sp *SymbolPreview) CreateRenderer() fyne.WidgetRenderer {
	return newSymbolPreviewRenderer(sp)
}

type symbolPreviewRenderer struct {
	sp      *SymbolPreview
	bg      *canvas.Rectangle
	image   *canvas.Image
	text    *canvas.Text
	objects []fyne.CanvasObject
}

func newSymbolPreviewRenderer(sp *SymbolPreview) *symbolPreviewRenderer {
	r := &symbolPreviewRenderer{
		sp: sp,
		bg: canvas.NewRectangle(previewBackground),
	}
	r.rebuild()
	return r
}

func (r *symbolPreviewRenderer) rebuild() {
	r.image, r.text = nil, nil
	r.objects = []fyne.CanvasObject{r.bg}

	if !r.sp.symbol.IsZero() {
		img := canvas.NewImageFromImage(render.Image(r.sp.symbol))
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScalePixels
		r.image = img
		r.objects = append(r.objects, img)
	} else {
		txt := canvas.NewText(r.sp.message, theme.Color(theme.ColorNamePlaceHolder))
		txt.Alignment = fyne.TextAlignCenter
		r.text = txt
		r.objects = append(r.objects, txt)
	}
	r.Layout(r.sp.Size())
}

func (r *symbolPreviewRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	if r.image != nil {
		pad := theme.Padding() * 2
		r.image.Resize(fyne.NewSize(size.Width-2*pad, size.Height-2*pad))
		r.image.Move(fyne.NewPos(pad, pad))
	}
	if r.text != nil {
		ts := r.text.MinSize()
		r.text.Resize(fyne.NewSize(size.Width, ts.Height))
		r.text.Move(fyne.NewPos(0, (size.Height-ts.Height)/2))
	}
}

func (r *symbolPreviewRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.sp)
}

func (r *symbolPreviewRenderer) Destroy()                     {}
func (r *symbolPreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *symbolPreviewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.sp.minWidth, r.sp.minHeight)
}
