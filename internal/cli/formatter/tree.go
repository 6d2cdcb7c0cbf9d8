package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeStatus marks how a task row is drawn.
type TreeStatus int

const (
	TreeTask TreeStatus = iota
	TreeGroup
	TreeCollapsed
	TreeDisabled
	TreeUnscheduled
)

// TreeItem is one task row in a tree listing.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status TreeStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree draws items with box connectors and right-aligned detail
// badges. Items must be in depth-first order.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		switch item.Status {
		case TreeGroup:
			title = StyleBold.Render("▾ " + title)
		case TreeCollapsed:
			title = StyleBold.Render("▸ " + title)
		case TreeDisabled:
			title = Dim("⊘ " + title)
		case TreeUnscheduled:
			title = StyleYellow.Render(title)
		}
		contents[i] = StyleDim.Render(prefix) + title
		widest = max(widest, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		if item.Detail == "" {
			b.WriteString(contents[i] + "\n")
			continue
		}
		badge := StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		b.WriteString(Pad(contents[i], widest) + "  " + badge + "\n")
	}
	return b.String()
}
