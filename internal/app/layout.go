package app

// layoutDims holds computed layout dimensions for the UI. The files and
// proposal panes stack on the left; the diff viewer fills the right.
type layoutDims struct {
	width        int
	height       int
	headerHeight int
	footerHeight int
	bodyHeight   int
	gapX         int
	gapY         int

	leftWidth             int
	rightWidth            int
	leftInnerWidth        int
	rightInnerWidth       int
	leftTopHeight         int
	leftBottomHeight      int
	leftTopInnerHeight    int
	leftBottomInnerHeight int
	rightInnerHeight      int
}

// setWindowSize updates the window dimensions and applies the layout.
func (m *Model) setWindowSize(width, height int) {
	m.view.WindowWidth = width
	m.view.WindowHeight = height
	m.applyLayout(m.computeLayout())
}

// computeLayout calculates the layout dimensions based on window size and focus.
func (m *Model) computeLayout() layoutDims {
	width := m.view.WindowWidth
	height := m.view.WindowHeight
	if width <= 0 {
		width = 120
	}
	if height <= 0 {
		height = 40
	}

	headerHeight := 1
	footerHeight := 1
	gapX := 1
	gapY := 1

	bodyHeight := max(height-headerHeight-footerHeight, 8)

	leftRatio := 0.45
	if m.view.FocusedPane == paneDiff {
		leftRatio = 0.30
	}

	leftWidth := int(float64(width-gapX) * leftRatio)
	rightWidth := width - leftWidth - gapX
	if leftWidth < minLeftPaneWidth {
		leftWidth = minLeftPaneWidth
		rightWidth = width - leftWidth - gapX
	}
	if rightWidth < minRightPaneWidth {
		rightWidth = minRightPaneWidth
		leftWidth = max(1, width-rightWidth-gapX)
	}

	topRatio := 0.60
	switch m.view.FocusedPane {
	case paneFiles:
		topRatio = 0.70
	case paneProposal:
		topRatio = 0.40
	}

	leftTopHeight := max(int(float64(bodyHeight-gapY)*topRatio), 6)
	leftBottomHeight := bodyHeight - leftTopHeight - gapY
	if leftBottomHeight < 5 {
		leftBottomHeight = 5
		leftTopHeight = max(1, bodyHeight-leftBottomHeight-gapY)
	}

	paneFrameX := m.paneStyle(false).GetHorizontalFrameSize()
	paneFrameY := m.paneStyle(false).GetVerticalFrameSize()

	return layoutDims{
		width:                 width,
		height:                height,
		headerHeight:          headerHeight,
		footerHeight:          footerHeight,
		bodyHeight:            bodyHeight,
		gapX:                  gapX,
		gapY:                  gapY,
		leftWidth:             leftWidth,
		rightWidth:            rightWidth,
		leftInnerWidth:        max(1, leftWidth-paneFrameX),
		rightInnerWidth:       max(1, rightWidth-paneFrameX),
		leftTopHeight:         leftTopHeight,
		leftBottomHeight:      leftBottomHeight,
		leftTopInnerHeight:    max(1, leftTopHeight-paneFrameY),
		leftBottomInnerHeight: max(1, leftBottomHeight-paneFrameY),
		rightInnerHeight:      max(1, bodyHeight-paneFrameY),
	}
}

// applyLayout sizes the tables and the viewport to the computed panes.
func (m *Model) applyLayout(layout layoutDims) {
	titleHeight := 1
	tableHeaderHeight := 1

	// Minimum height of 3 is required to prevent viewport slice bounds panic
	m.ui.fileTable.SetWidth(layout.leftInnerWidth)
	m.ui.fileTable.SetHeight(max(3, layout.leftTopInnerHeight-titleHeight-tableHeaderHeight-1))
	m.ui.fileTable.SetColumns(fileColumns(layout.leftInnerWidth))

	m.ui.entryTable.SetWidth(layout.leftInnerWidth)
	m.ui.entryTable.SetHeight(max(3, layout.leftBottomInnerHeight-titleHeight-tableHeaderHeight-1))
	m.ui.entryTable.SetColumns(entryColumns(layout.leftInnerWidth))

	m.ui.diffViewport.Width = layout.rightInnerWidth
	m.ui.diffViewport.Height = max(1, layout.rightInnerHeight-titleHeight)
}
