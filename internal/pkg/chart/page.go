package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/components"
)

// Page holds the charts of the active line charts, in display order.
//
// A [Page] knows how to [Page.Render] as HTML.
type Page struct {
	Title  string
	Layout components.Layout
	Charts []*Chart
}

// NewPage creates a page. An empty layout stands for [components.PageFlexLayout].
func NewPage(title string, layout components.Layout) *Page {
	if layout == "" {
		layout = components.PageFlexLayout
	}

	return &Page{
		Title:  title,
		Layout: layout,
	}
}

// AddChart appends the chart of a line chart.
func (p *Page) AddChart(c *Chart) {
	p.Charts = append(p.Charts, c)
}

// EffectiveLayout is the layout the page renders with: a lone chart is always centered.
func (p *Page) EffectiveLayout() components.Layout {
	if len(p.Charts) == 1 && p.Layout == components.PageFlexLayout {
		return components.PageCenterLayout
	}

	return p.Layout
}

// Render writes the page HTML to the given writer.
func (p *Page) Render(w io.Writer) error {
	page := components.NewPage()
	page.SetLayout(p.EffectiveLayout())
	page.SetPageTitle(p.Title)

	for _, c := range p.Charts {
		page.AddCharts(c.Build())
	}

	return page.Render(w)
}
