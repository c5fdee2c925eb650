package course

import (
	"net/url"
	"path"
	"strings"
)

type ResourceKind string

const (
	KindVideo    ResourceKind = "video"
	KindPDF      ResourceKind = "pdf"
	KindDocument ResourceKind = "document"
	KindOther    ResourceKind = "other"
)

// Presentation is how a resource is shown to the learner.
type Presentation string

const (
	PresentPlayer   Presentation = "player"   // inline media player
	PresentFrame    Presentation = "frame"    // embedded viewer
	PresentDownload Presentation = "download" // download link only
)

var kindsByExt = map[string]ResourceKind{
	"mp4": KindVideo, "webm": KindVideo, "ogg": KindVideo, "mov": KindVideo, "m4v": KindVideo, "mkv": KindVideo,
	"pdf": KindPDF,
	"doc": KindDocument, "docx": KindDocument, "ppt": KindDocument, "pptx": KindDocument,
	"xls": KindDocument, "xlsx": KindDocument, "odt": KindDocument, "txt": KindDocument, "rtf": KindDocument,
}

type Resource struct {
	URL          string
	Ext          string // lowercased, without the dot
	Kind         ResourceKind
	Presentation Presentation
}

// Classify decides how a lecture resource is presented from its file extension.
// Query strings and fragments are ignored.
func Classify(fileURL string) Resource {
	ext := extension(fileURL)
	kind, ok := kindsByExt[ext]
	if !ok {
		kind = KindOther
	}

	res := Resource{URL: fileURL, Ext: ext, Kind: kind}
	switch kind {
	case KindVideo:
		res.Presentation = PresentPlayer
	case KindPDF:
		res.Presentation = PresentFrame
	default:
		res.Presentation = PresentDownload
	}
	return res
}

func extension(fileURL string) string {
	p := fileURL
	if u, err := url.Parse(fileURL); err == nil {
		p = u.Path
	}
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}
