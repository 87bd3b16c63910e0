package layout

// Paginate flows lines top to bottom onto pages of the given geometry.
//
// The cursor starts at Height-Margin. Before each line, if less than one line height remains above the
// bottom margin, a new page is opened. Each line is placed at (Margin, cursor) and the cursor moves
// down by LineHeight. Page order equals line order, and an input without lines still yields one page.
func Paginate(lines []Line, g Geometry) *Document {
	b := newPageBuilder(g.Width, g.Height)
	top := g.Height - g.Margin
	cursorY := top
	for _, ln := range lines {
		if cursorY < g.Margin+g.LineHeight {
			b.newPage()
			cursorY = top
		}
		b.appendText(TextBox{
			Content:   ln.Content,
			X:         g.Margin,
			Y:         cursorY,
			Width:     ln.Width,
			Font:      g.Font,
			FontSize:  g.FontSize,
			Paragraph: ln.Paragraph,
			Blank:     ln.Blank,
		})
		cursorY -= g.LineHeight
	}
	return &Document{Geometry: g, Pages: b.pages()}
}

// pageBuilder is an append-only arena of pages; only the last page receives placements.
type pageBuilder struct {
	width  float64
	height float64
	accs   []Page
}

func newPageBuilder(width, height float64) *pageBuilder {
	b := &pageBuilder{width: width, height: height}
	b.newPage()
	return b
}

func (b *pageBuilder) newPage() {
	b.accs = append(b.accs, Page{Width: b.width, Height: b.height, Texts: []TextBox{}})
}

func (b *pageBuilder) appendText(tb TextBox) {
	curr := &b.accs[len(b.accs)-1]
	curr.Texts = append(curr.Texts, tb)
}

func (b *pageBuilder) pages() []Page {
	return b.accs
}
