package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/jrusco/local-pdf/pkg/core"
)

// The fake structural module encodes a document as "%PDF-" followed by
// page labels joined with "|", which keeps page-order assertions readable.

type fakeDoc struct {
	pages      []string
	stripped   bool
	quality    int
	placements []Placement
}

type fakeStructural struct {
	loadErr  error
	saveErr  error
	loadGate chan struct{} // when set, Load blocks until the gate closes
	last     *fakeDoc      // most recent NewDocument result

	lastStripped bool
	lastQuality  int
}

func pdfFile(name string, pages ...string) core.File {
	return core.File{Name: name, Data: []byte("%PDF-" + strings.Join(pages, "|"))}
}

func (s *fakeStructural) Load(ctx context.Context, data []byte) (Document, error) {
	if s.loadGate != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.loadGate:
		}
	}
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	body := strings.TrimPrefix(string(data), "%PDF-")
	if body == "" {
		return &fakeDoc{}, nil
	}
	return &fakeDoc{pages: strings.Split(body, "|")}, nil
}

func (s *fakeStructural) NewDocument(context.Context) (Document, error) {
	s.last = &fakeDoc{}
	return s.last, nil
}

func (s *fakeStructural) Merge(_ context.Context, docs []Document) ([]byte, error) {
	var pages []string
	for _, d := range docs {
		pages = append(pages, d.(*fakeDoc).pages...)
	}
	return []byte("%PDF-" + strings.Join(pages, "|")), nil
}

func (s *fakeStructural) EmbedImage(_ context.Context, doc Document, _ []byte, placement Placement) error {
	fd := doc.(*fakeDoc)
	fd.placements = append(fd.placements, placement)
	fd.pages = append(fd.pages, fmt.Sprintf("img%d", len(fd.pages)+1))
	return nil
}

func (s *fakeStructural) StripMetadata(_ context.Context, doc Document) error {
	doc.(*fakeDoc).stripped = true
	s.lastStripped = true
	return nil
}

func (s *fakeStructural) ReencodeImages(_ context.Context, doc Document, quality int) error {
	doc.(*fakeDoc).quality = quality
	s.lastQuality = quality
	return nil
}

func (s *fakeStructural) Save(_ context.Context, doc Document) ([]byte, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return []byte("%PDF-" + strings.Join(doc.(*fakeDoc).pages, "|")), nil
}

func docPages(data []byte) []string {
	body := strings.TrimPrefix(string(data), "%PDF-")
	if body == "" {
		return nil
	}
	return strings.Split(body, "|")
}

type fakeRenderHandle struct {
	pageCount int
	failPages map[int]error // 0-indexed
}

func (h *fakeRenderHandle) PageCount() int { return h.pageCount }

func (h *fakeRenderHandle) RenderPage(_ context.Context, pageIndex, _ int) (image.Image, error) {
	if err, ok := h.failPages[pageIndex]; ok {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

type fakeRenderer struct {
	handle  *fakeRenderHandle
	loadErr error
}

func (r *fakeRenderer) LoadDocument(context.Context, []byte) (RenderHandle, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.handle, nil
}

type fakeCompressor struct {
	err error
}

func (c *fakeCompressor) Optimize(_ context.Context, data []byte) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	// Stream-level optimization shrinks the document.
	if len(data) > 2 {
		return data[:len(data)/2], nil
	}
	return data, nil
}

type fakeEncoder struct{}

func (fakeEncoder) Encode(image.Image, core.ImageFormat, int) ([]byte, error) {
	return []byte("encoded"), nil
}

var errBoom = errors.New("boom")

func discardProgress(float64) {}
