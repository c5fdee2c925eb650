package certificate

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// A4 portrait at 96 DPI, rendered at twice the resolution.
const (
	Width  = 794
	Height = 1123
	Scale  = 2

	margin = 96.0
)

var (
	ink    = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	muted  = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	accent = color.RGBA{R: 0x1d, G: 0x4e, B: 0xd8, A: 0xff}
	pale   = color.RGBA{R: 0xef, G: 0xf6, B: 0xff, A: 0xff}
)

var (
	fontsOnce sync.Once

	regularTTF, boldTTF, italicTTF *truetype.Font
)

// Layout holds the branding printed in the certificate header.
type Layout struct {
	Brand   string
	Tagline string
}

func (l Layout) withDefaults() Layout {
	if l.Brand == "" {
		l.Brand = "Masomo Academy"
	}
	if l.Tagline == "" {
		l.Tagline = "Learning Excellence"
	}
	return l
}

func loadFonts() {
	regularTTF, _ = truetype.Parse(goregular.TTF)
	boldTTF, _ = truetype.Parse(gobold.TTF)
	italicTTF, _ = truetype.Parse(goitalic.TTF)
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size * Scale, DPI: 72, Hinting: font.HintingNone})
}

// Render draws the certificate. Only the certificate's own fields are printed.
func Render(cert Certificate, layout Layout) image.Image {
	fontsOnce.Do(loadFonts)
	layout = layout.withDefaults()

	dc := gg.NewContext(Width*Scale, Height*Scale)
	// faces are sized in device pixels, so positions are scaled by hand
	s := func(v float64) float64 { return v * Scale }

	dc.SetColor(color.White)
	dc.Clear()

	// frame
	dc.SetColor(accent)
	dc.SetLineWidth(s(4))
	dc.DrawRectangle(s(24), s(24), s(Width-48), s(Height-48))
	dc.Stroke()
	dc.SetLineWidth(s(1))
	dc.DrawRectangle(s(34), s(34), s(Width-68), s(Height-68))
	dc.Stroke()

	y := margin

	// header
	dc.SetFontFace(face(boldTTF, 20))
	dc.SetColor(ink)
	dc.DrawString(layout.Brand, s(margin), s(y+20))
	dc.SetFontFace(face(regularTTF, 10))
	dc.SetColor(muted)
	dc.DrawString(layout.Tagline, s(margin), s(y+38))

	dc.SetFontFace(face(regularTTF, 9))
	right := s(Width - margin)
	dc.DrawStringAnchored("Certificate ID: "+cert.CertificateID, right, s(y+10), 1, 0.5)
	dc.DrawStringAnchored("Issue Date: "+ShortDate(cert.IssueDate), right, s(y+24), 1, 0.5)
	dc.DrawStringAnchored("Reference Number: "+cert.Reference(), right, s(y+38), 1, 0.5)
	y += 40 + 64

	// title
	cx := s(Width / 2)
	dc.SetFontFace(face(boldTTF, 30))
	dc.SetColor(ink)
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", cx, s(y+15), 0.5, 0.5)
	y += 30 + 32

	dc.SetFontFace(face(italicTTF, 14))
	dc.SetColor(muted)
	dc.DrawStringAnchored("This is to certify that", cx, s(y+7), 0.5, 0.5)
	y += 14 + 24

	dc.SetFontFace(face(boldTTF, 28))
	dc.SetColor(accent)
	dc.DrawStringAnchored(cert.StudentName, cx, s(y+14), 0.5, 0.5)
	y += 28 + 24

	dc.SetFontFace(face(italicTTF, 14))
	dc.SetColor(muted)
	dc.DrawStringAnchored("has successfully completed the course", cx, s(y+7), 0.5, 0.5)
	y += 14 + 32

	// course title box
	dc.SetFontFace(face(boldTTF, 20))
	lines := dc.WordWrap(cert.CourseTitle, s(600-96))
	boxH := 48 + float64(len(lines))*26
	dc.SetColor(pale)
	dc.DrawRoundedRectangle(s(Width/2-300), s(y), s(600), s(boxH), s(8))
	dc.Fill()
	dc.SetColor(ink)
	for i, line := range lines {
		dc.DrawStringAnchored(line, cx, s(y+24+13+float64(i)*26), 0.5, 0.5)
	}
	y += boxH + 64

	// details
	colW := (Width - 2*margin - 64) / 2.0
	leftX, rightX := margin, margin+colW+64
	ly := section(dc, "COURSE DETAILS", leftX, y, colW, [][2]string{
		{"Level", cert.CourseLevel},
		{"Description", cert.CourseDescription},
	})
	ry := section(dc, "ACHIEVEMENT DETAILS", rightX, y, colW, [][2]string{
		{"Instructor", cert.TeacherName},
		{"Completion Date", LongDate(cert.CompletionDate)},
		{"Status", "Successfully Completed"},
	})
	if ry > ly {
		ly = ry
	}
	y = ly + 48

	// skills
	if skills := cert.Skills(); len(skills) > 0 {
		y = section(dc, "SKILLS & COMPETENCIES ACHIEVED", margin, y, Width-2*margin, [][2]string{
			{"", strings.Join(skills, "  •  ")},
		})
	}

	// verification
	if cert.VerificationURL != "" {
		dc.SetFontFace(face(regularTTF, 9))
		dc.SetColor(muted)
		dc.DrawStringAnchored("Verify at "+cert.VerificationURL, cx, s(Height-margin+24), 0.5, 0.5)
	}

	return dc.Image()
}

// section draws a titled list of label/value pairs and returns the y below it.
func section(dc *gg.Context, title string, x, y, width float64, rows [][2]string) float64 {
	s := func(v float64) float64 { return v * Scale }

	dc.SetFontFace(face(boldTTF, 11))
	dc.SetColor(accent)
	dc.DrawString(title, s(x), s(y+11))
	y += 11 + 16

	for _, row := range rows {
		if row[0] != "" {
			dc.SetFontFace(face(regularTTF, 9))
			dc.SetColor(muted)
			dc.DrawString(row[0], s(x), s(y+9))
			y += 9 + 6
		}
		dc.SetFontFace(face(regularTTF, 12))
		dc.SetColor(ink)
		for _, line := range dc.WordWrap(row[1], s(width)) {
			dc.DrawString(line, s(x), s(y+12))
			y += 12 + 6
		}
		y += 8
	}
	return y
}
