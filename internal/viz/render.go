package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Row is one registered joint as shown to the user.
type Row struct {
	Position int
	Joint    string
	Type     string
	Parent   string
	Child    string
	Depth    int
	Level    int
}

// RenderOrder renders the registration order as a table with the joints
// indented by tree level.
func RenderOrder(title string, rows []Row) string {
	var b strings.Builder
	b.WriteString(Title.Render(title))
	b.WriteString("\n")

	nameWidth := len("joint")
	for _, r := range rows {
		if w := 2*r.Level + len(r.Joint); w > nameWidth {
			nameWidth = w
		}
	}

	header := fmt.Sprintf("%3s  %-*s  %-10s  %-12s  %-12s  %5s", "#", nameWidth, "joint", "type", "parent", "child", "depth")
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")

	for _, r := range rows {
		indent := Indent(r.Level)
		pad := nameWidth - lipgloss.Width(indent) - len(r.Joint)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "%3d  %s%s%s  %-10s  %-12s  %-12s  %5d\n",
			r.Position, indent, JointName.Render(r.Joint), strings.Repeat(" ", pad),
			r.Type, r.Parent, r.Child, r.Depth)
	}
	return b.String()
}

// Summary renders a one-panel summary of a pass.
func Summary(model string, joints, registered, dof int, err error) string {
	status := StatusOK.Render("ok")
	if err != nil {
		status = StatusFailed.Render("failed: " + err.Error())
	}
	body := fmt.Sprintf("model: %s\njoints: %d\nregistered: %d\ndof: %d\nstatus: %s", model, joints, registered, dof, status)
	return Panel.Render(body)
}

// PlotLevels plots the tree level of each joint against its position in
// the registration order.
func PlotLevels(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = float64(r.Level)
	}
	width := len(data)
	if width < 20 {
		width = 20
	}
	if width > 80 {
		width = 80
	}
	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Caption("tree level by registration position"),
	)
}
