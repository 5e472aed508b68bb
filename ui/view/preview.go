package view

import (
	"image"

	"github.com/soocke/pixel-line-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Preview shows the annotated crop around the pointer.
type Preview interface {
	UpdatePreview(img image.Image)
	Reset()
}

const (
	maxPreviewW = 320
	maxPreviewH = 320
)

type preview struct {
	label *LabelWidget
	photo *Img // disposed before each replacement
}

// NewPreview creates the preview label at (row, col).
func NewPreview(row, col, rowspan int) Preview {
	photo := NewPhoto(Data(placeholderPNG()))
	lbl := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(lbl, Row(row), Column(col), Rowspan(rowspan), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	return &preview{label: lbl, photo: photo}
}

func placeholderPNG() []byte {
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 200, 200)))
}

func (v *preview) UpdatePreview(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	v.replace(images.EncodePNG(images.ScaleToFit(img, maxPreviewW, maxPreviewH)))
}

func (v *preview) Reset() {
	if v == nil || v.label == nil {
		return
	}
	v.replace(placeholderPNG())
}

func (v *preview) replace(png []byte) {
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(png))
	v.label.Configure(Image(v.photo))
}
