package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartgeom/pkg/scene"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listDetailStyle = lipgloss.NewStyle().Foreground(colorWhite).PaddingLeft(2)
)

// =============================================================================
// SceneModel - Interactive scene browser
// =============================================================================

// SceneModel is the bubbletea model for browsing the items of a scene.
type SceneModel struct {
	Scene  *scene.Scene
	Items  []scene.Item
	Cursor int
	Height int
	Offset int

	// shapesOnly hides text items.
	shapesOnly bool
}

// NewSceneModel creates a scene browser positioned on the first item.
func NewSceneModel(sc *scene.Scene) SceneModel {
	return SceneModel{
		Scene:  sc,
		Items:  sc.Items,
		Height: 15,
	}
}

func (m SceneModel) Init() tea.Cmd {
	return nil
}

func (m SceneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Items); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "t":
			m.shapesOnly = !m.shapesOnly
			if m.shapesOnly {
				m.Items = m.Scene.Shapes()
			} else {
				m.Items = m.Scene.Items
			}
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SceneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(sceneHeading(m.Scene)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  t toggle text  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(i), string(it.Kind), it.Role, it.ID, itemSummary(it), it.Style.Fill})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Kind", "Role", "ID", "Geometry", "Fill").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			isCurrent := m.Offset+row == m.Cursor
			base := lipgloss.NewStyle()
			if col == 1 || col == 6 {
				base = base.Foreground(colorDim)
			}
			if isCurrent {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Cursor < len(m.Items) {
		b.WriteString(listDetailStyle.Render(itemDetail(m.Items[m.Cursor])))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Items)), len(m.Items))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func sceneHeading(sc *scene.Scene) string {
	title := sc.Kind
	if sc.Title != "" {
		title += ": " + sc.Title
	}
	return fmt.Sprintf("%s (%sx%s)", title, fmtNum(sc.Width), fmtNum(sc.Height))
}

// itemSummary returns a one-line description of an item's geometry.
func itemSummary(it scene.Item) string {
	switch {
	case it.Rect != nil:
		r := it.Rect
		return fmt.Sprintf("%s,%s %sx%s", fmtNum(r.X), fmtNum(r.Y), fmtNum(r.W), fmtNum(r.H))
	case it.Wedge != nil:
		w := it.Wedge
		return fmt.Sprintf("r %s-%s  %s°-%s°", fmtNum(w.InnerR), fmtNum(w.OuterR), fmtNum(degrees(w.Start)), fmtNum(degrees(w.End)))
	case it.Ribbon != nil:
		return fmt.Sprintf("thickness %s", fmtNum(it.Ribbon.Thickness))
	case it.Polyline != nil:
		return fmt.Sprintf("%d points, length %s", len(it.Polyline.Points), fmtNum(it.Polyline.Length()))
	case it.Polygon != nil:
		return fmt.Sprintf("%d points, area %s", len(it.Polygon.Points), fmtNum(it.Polygon.Area()))
	case it.Kind == scene.KindText:
		return fmt.Sprintf("%q at %s,%s", it.Text, fmtNum(it.At.X), fmtNum(it.At.Y))
	}
	return ""
}

// itemDetail returns the full coordinate listing of an item.
func itemDetail(it scene.Item) string {
	var parts []string
	switch {
	case it.Ribbon != nil:
		for _, p := range it.Ribbon.Path {
			parts = append(parts, fmtNum(p.X)+","+fmtNum(p.Y))
		}
		return "path " + strings.Join(parts, " ")
	case it.Polyline != nil:
		for _, p := range it.Polyline.Points {
			parts = append(parts, fmtNum(p.X)+","+fmtNum(p.Y))
		}
		return "points " + strings.Join(parts, " ")
	case it.Polygon != nil:
		for _, p := range it.Polygon.Points {
			parts = append(parts, fmtNum(p.X)+","+fmtNum(p.Y))
		}
		return "points " + strings.Join(parts, " ")
	case it.Wedge != nil && it.Center != nil:
		return fmt.Sprintf("center %s,%s  depth %d", fmtNum(it.Center.X), fmtNum(it.Center.Y), it.Wedge.Depth)
	}
	return itemSummary(it)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// fmtNum formats a coordinate with at most two decimals.
func fmtNum(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
