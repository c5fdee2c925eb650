package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantKind ResourceKind
		wantPres Presentation
	}{
		{name: "mp4", url: "https://cdn.test/a/intro.mp4", wantKind: KindVideo, wantPres: PresentPlayer},
		{name: "upper case", url: "https://cdn.test/a/INTRO.MOV", wantKind: KindVideo, wantPres: PresentPlayer},
		{name: "webm with query", url: "https://cdn.test/v.webm?token=abc#t=10", wantKind: KindVideo, wantPres: PresentPlayer},
		{name: "pdf", url: "https://cdn.test/slides.pdf", wantKind: KindPDF, wantPres: PresentFrame},
		{name: "docx", url: "https://cdn.test/handout.docx", wantKind: KindDocument, wantPres: PresentDownload},
		{name: "xlsx", url: "/media/sheet.xlsx", wantKind: KindDocument, wantPres: PresentDownload},
		{name: "txt", url: "notes.txt", wantKind: KindDocument, wantPres: PresentDownload},
		{name: "unknown", url: "https://cdn.test/archive.zip", wantKind: KindOther, wantPres: PresentDownload},
		{name: "no extension", url: "https://cdn.test/file", wantKind: KindOther, wantPres: PresentDownload},
		{name: "empty", url: "", wantKind: KindOther, wantPres: PresentDownload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.url)
			if got.Kind != tt.wantKind {
				t.Errorf("Classify() kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Presentation != tt.wantPres {
				t.Errorf("Classify() presentation = %v, want %v", got.Presentation, tt.wantPres)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{seconds: 0, want: "0:00"},
		{seconds: 5.9, want: "0:05"},
		{seconds: 65, want: "1:05"},
		{seconds: 600, want: "10:00"},
		{seconds: 3661, want: "1:01:01"},
		{seconds: -3, want: "0:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatTime(tt.seconds); got != tt.want {
				t.Errorf("FormatTime(%v) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "0m 0s"},
		{in: "05:30", want: "05m 30s"},
		{in: "1:02:03", want: "1h 02m 03s"},
		{in: "42", want: "42"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatDuration(tt.in); got != tt.want {
				t.Errorf("FormatDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestController_playback(t *testing.T) {
	ctrl := NewController(Deps{Backend: newFakeBackend()}, 3, "enr1")

	res := ctrl.OpenLecture(VariantItem{ID: 11, File: "https://cdn.test/welcome.mp4"})
	assert.Equal(t, KindVideo, res.Kind)

	pb := ctrl.Playback()
	assert.True(t, pb.Open)
	assert.True(t, pb.Playing, "starts playing")
	assert.Equal(t, 1.0, pb.Volume)

	assert.False(t, ctrl.PlayPause())
	assert.True(t, ctrl.PlayPause())

	ctrl.SetVolume(0)
	assert.True(t, ctrl.Playback().Muted, "volume 0 mutes")
	ctrl.SetVolume(1.5)
	assert.Equal(t, 1.0, ctrl.Playback().Volume)
	assert.False(t, ctrl.Playback().Muted)

	assert.True(t, ctrl.ToggleMute())
	assert.False(t, ctrl.ToggleMute())

	ctrl.SetDuration(200)
	assert.Equal(t, 50.0, ctrl.Seek(0.25))
	ctrl.ReportProgress(0.5)
	assert.Equal(t, 100.0, ctrl.Playback().Elapsed())

	ctrl.Ended()
	assert.False(t, ctrl.Playback().Playing)

	ctrl.CloseLecture()
	pb = ctrl.Playback()
	assert.False(t, pb.Open)
	assert.Equal(t, VariantItem{}, pb.Lecture)
	assert.False(t, pb.Playing, "closing stops playback")

	// closing while playing stops it too
	ctrl.OpenLecture(VariantItem{ID: 1, File: "http://x/media/a.mp4"})
	assert.True(t, ctrl.Playback().Playing)
	ctrl.CloseLecture()
	assert.False(t, ctrl.Playback().Playing)
}
