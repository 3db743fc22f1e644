package mapview

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonas-p/go-shp"

	"gridmark/config"
	"gridmark/coords"
)

// Constants for Panning and Zooming
const (
	panFactor  = 0.1
	zoomFactor = 1.2

	// minFitSpan keeps a single marker from zooming in to nothing.
	minFitSpan = 0.5 // degrees
)

var worldBounds = shp.Box{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}

// Model holds the map's state
type Model struct {
	width  int
	height int

	mapPolygons    []*shp.Polygon
	originalBounds shp.Box
	viewBounds     shp.Box
	fitPadding     float64

	centerLon    float64
	centerLat    float64
	centerExists bool

	markers []coords.Point
}

// loadMapData reads the polygons of a shapefile and their overall bounds.
func loadMapData(path string) ([]*shp.Polygon, shp.Box, error) {
	shapeFile, err := shp.Open(path)
	if err != nil {
		return nil, shp.Box{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shapeFile.Close()

	var polygons []*shp.Polygon
	bounds := shp.Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}

	for shapeFile.Next() {
		_, shape := shapeFile.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		polygons = append(polygons, polygon)
		bounds.Extend(polygon.BBox())
	}
	if err := shapeFile.Err(); err != nil {
		return nil, shp.Box{}, fmt.Errorf("failed to read shapefile: %w", err)
	}

	if len(polygons) == 0 {
		return nil, shp.Box{}, fmt.Errorf("no polygons found in shapefile")
	}
	return polygons, bounds, nil
}

// New creates a map over the basemap shapefile, or over an empty world box
// when basemap is empty.
func New(basemap string, conf config.Config) (Model, error) {
	m := Model{
		originalBounds: worldBounds,
		viewBounds:     worldBounds,
		fitPadding:     conf.Map.FitPadding,
		width:          80,
		height:         23,
	}

	if basemap != "" {
		polygons, bounds, err := loadMapData(basemap)
		if err != nil {
			return Model{}, err
		}
		m.mapPolygons = polygons
		m.originalBounds = bounds
		m.viewBounds = bounds
	}

	if lat, lon, ok := conf.CenterPoint(); ok {
		m.centerLat, m.centerLon, m.centerExists = lat, lon, true
		if conf.Map.DefaultZoom > 1.0 {
			m.setCenterAndZoom(lon, lat, conf.Map.DefaultZoom)
		}
	}
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// SetPoints replaces every marker with points and fits the view around
// them. An empty batch clears the map and leaves the view alone.
func (m *Model) SetPoints(points []coords.Point) {
	m.markers = append(m.markers[:0], points...)
	if len(points) > 0 {
		m.fitBounds(points)
	}
}

// Markers returns the points currently drawn.
func (m Model) Markers() []coords.Point { return m.markers }

// fitBounds shows the bounding box of points, grown on every side by
// fitPadding times its size.
func (m *Model) fitBounds(points []coords.Point) {
	box := shp.Box{MinX: points[0].Lon, MinY: points[0].Lat, MaxX: points[0].Lon, MaxY: points[0].Lat}
	for _, p := range points[1:] {
		box.Extend(shp.Box{MinX: p.Lon, MinY: p.Lat, MaxX: p.Lon, MaxY: p.Lat})
	}

	w := math.Max(box.MaxX-box.MinX, minFitSpan)
	h := math.Max(box.MaxY-box.MinY, minFitSpan)
	cx := (box.MinX + box.MaxX) / 2
	cy := (box.MinY + box.MaxY) / 2
	w *= 1 + 2*m.fitPadding
	h *= 1 + 2*m.fitPadding

	m.viewBounds = shp.Box{MinX: cx - w/2, MinY: cy - h/2, MaxX: cx + w/2, MaxY: cy + h/2}
}

func (m *Model) setCenterAndZoom(lon, lat, zoomLevel float64) {
	newWidth := (m.originalBounds.MaxX - m.originalBounds.MinX) / zoomLevel
	newHeight := (m.originalBounds.MaxY - m.originalBounds.MinY) / zoomLevel
	m.viewBounds.MinX = lon - (newWidth / 2)
	m.viewBounds.MaxX = lon + (newWidth / 2)
	m.viewBounds.MinY = lat - (newHeight / 2)
	m.viewBounds.MaxY = lat + (newHeight / 2)
}

func (m *Model) zoomByFactor(factor float64) {
	centerX := (m.viewBounds.MinX + m.viewBounds.MaxX) / 2
	centerY := (m.viewBounds.MinY + m.viewBounds.MaxY) / 2
	newWidth := (m.viewBounds.MaxX - m.viewBounds.MinX) * factor
	newHeight := (m.viewBounds.MaxY - m.viewBounds.MinY) * factor
	if newWidth > (m.originalBounds.MaxX-m.originalBounds.MinX) || newHeight > (m.originalBounds.MaxY-m.originalBounds.MinY) {
		m.viewBounds = m.originalBounds
		return
	}
	m.viewBounds.MinX = centerX - (newWidth / 2)
	m.viewBounds.MaxX = centerX + (newWidth / 2)
	m.viewBounds.MinY = centerY - (newHeight / 2)
	m.viewBounds.MaxY = centerY + (newHeight / 2)
}

func (m *Model) pan(dx, dy float64) {
	panX := (m.viewBounds.MaxX - m.viewBounds.MinX) * dx
	panY := (m.viewBounds.MaxY - m.viewBounds.MinY) * dy
	m.viewBounds.MinX += panX
	m.viewBounds.MaxX += panX
	m.viewBounds.MinY += panY
	m.viewBounds.MaxY += panY
}

// GetZoomLevel is the basemap width over the visible width.
func (m Model) GetZoomLevel() float64 {
	if m.viewBounds.MaxX == m.viewBounds.MinX {
		return 1.0
	}
	return (m.originalBounds.MaxX - m.originalBounds.MinX) / (m.viewBounds.MaxX - m.viewBounds.MinX)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "k", "up":
			m.pan(0, panFactor)
		case "l", "down":
			m.pan(0, -panFactor)
		case "j", "left":
			m.pan(-panFactor, 0)
		case ";", "right":
			m.pan(panFactor, 0)
		case "K", "+":
			m.zoomByFactor(1 / zoomFactor)
		case "L", "-":
			m.zoomByFactor(zoomFactor)
		case "f":
			if len(m.markers) > 0 {
				m.fitBounds(m.markers)
			}
		case "r":
			m.viewBounds = m.originalBounds
		}
	}
	return m, nil
}

// project converts lon/lat to terminal x/y coordinates
func (m Model) project(lon, lat float64, viewWidth, viewHeight int) (int, int) {
	spanX := m.viewBounds.MaxX - m.viewBounds.MinX
	spanY := m.viewBounds.MaxY - m.viewBounds.MinY
	if spanX == 0 {
		spanX = 1e-6
	}
	if spanY == 0 {
		spanY = 1e-6
	}
	x := (lon - m.viewBounds.MinX) / spanX
	y := (m.viewBounds.MaxY - lat) / spanY // screen y grows downwards
	return int(math.Floor(x * float64(viewWidth))), int(math.Floor(y * float64(viewHeight)))
}

// cell is one character of the viewport and the color it is drawn in.
type cell struct {
	r     rune
	color string
}

type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		c.cells[y] = make([]cell, w)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, color string) bool {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return false
	}
	c.cells[y][x] = cell{r: r, color: color}
	return true
}

// label writes s starting at x without covering anything but basemap dots.
func (c *canvas) label(x, y int, s, color string) {
	for i, r := range []rune(s) {
		if x+i >= 0 && x+i < c.w && y >= 0 && y < c.h {
			if cur := c.cells[y][x+i]; cur.r == ' ' || cur.r == '.' {
				c.cells[y][x+i] = cell{r: r, color: color}
			}
		}
	}
}

// String renders rows, coloring runs of same-colored cells in one go.
func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		for x := 0; x < len(row); {
			end := x
			var run strings.Builder
			for end < len(row) && row[end].color == row[x].color {
				run.WriteRune(row[end].r)
				end++
			}
			if row[x].color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[x].color)).Bold(true).Render(run.String()))
			}
			x = end
		}
		if y < len(c.cells)-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// renderMapViewport draws basemap, center and markers into a w x h grid.
func (m Model) renderMapViewport(viewWidth, viewHeight int) string {
	viewWidth = max(viewWidth, 1)
	viewHeight = max(viewHeight, 1)
	c := newCanvas(viewWidth, viewHeight)

	// 1. Basemap outlines
	for _, polygon := range m.mapPolygons {
		pb := polygon.BBox()
		if pb.MaxX < m.viewBounds.MinX || pb.MinX > m.viewBounds.MaxX ||
			pb.MaxY < m.viewBounds.MinY || pb.MinY > m.viewBounds.MaxY {
			continue
		}
		for _, point := range polygon.Points {
			x, y := m.project(point.X, point.Y, viewWidth, viewHeight)
			c.set(x, y, '.', "")
		}
	}

	// 2. Configured center
	if m.centerExists {
		x, y := m.project(m.centerLon, m.centerLat, viewWidth, viewHeight)
		c.set(x, y, '+', "")
	}

	// 3. Markers, labelled with their ordinal underneath
	for _, p := range m.markers {
		x, y := m.project(p.Lon, p.Lat, viewWidth, viewHeight)
		if !c.set(x, y, '*', p.Color) {
			continue
		}
		num := strconv.Itoa(p.Ordinal)
		c.label(x-len(num)/2, y+1, num, p.Color)
	}

	return c.String()
}

func (m Model) View() string {
	mapStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2)

	hBorders := mapStyle.GetBorderLeftSize() + mapStyle.GetBorderRightSize()
	vBorders := mapStyle.GetBorderTopSize() + mapStyle.GetBorderBottomSize()

	mapContent := m.renderMapViewport(m.width-hBorders, m.height-vBorders)
	return mapStyle.Render(mapContent)
}
