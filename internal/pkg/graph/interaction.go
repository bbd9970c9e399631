package graph

// Msg is a pointer interaction with a graph. The external UI routes SVG events back as messages,
// using the data-dataset and data-day attributes of the rendered elements.
type Msg interface {
	isMsg()
}

// SelectDataSet is a click on a series, or on nothing when ID is nil.
type SelectDataSet struct {
	ID *DataSetID
}

// HoverDataSet is the pointer entering a series, or leaving every series when ID is nil.
type HoverDataSet struct {
	ID *DataSetID
}

// SelectPoint is a click on a data point.
type SelectPoint struct {
	Point PointRef
}

// SetVisible shows or hides a series.
type SetVisible struct {
	ID      DataSetID
	Visible bool
}

func (SelectDataSet) isMsg() {}
func (HoverDataSet) isMsg()  {}
func (SelectPoint) isMsg()   {}
func (SetVisible) isMsg()    {}

// Select builds a [SelectDataSet] message for a series.
func Select(id DataSetID) SelectDataSet { return SelectDataSet{ID: ref(id)} }

// Hover builds a [HoverDataSet] message for a series.
func Hover(id DataSetID) HoverDataSet { return HoverDataSet{ID: ref(id)} }

// Update applies an interaction to the model.
//
// Clicking the selected series unselects it, clicking another one selects it instead. Hovering
// is ignored for series other than the selected one, so that background series do not flicker
// while one is featured. Leaving every series only clears the hover. Clicking a point selects
// it and its series. Hiding a series clears any state pointing at it.
func Update(m Model, msg Msg) Model {
	switch msg := msg.(type) {
	case SelectDataSet:
		return selectDataSet(m, msg.ID)
	case HoverDataSet:
		return hoverDataSet(m, msg.ID)
	case SelectPoint:
		return selectPoint(m, msg.Point)
	case SetVisible:
		return setVisible(m, msg.ID, msg.Visible)
	default:
		panic("unhandled graph message")
	}
}

func selectDataSet(m Model, id *DataSetID) Model {
	if id == nil {
		m.Selected = nil
		m.SelectedPoint = nil

		return m
	}

	if !m.isVisible(*id) {
		return m
	}

	if m.Selected != nil && *m.Selected == *id {
		m.Selected = nil
		m.SelectedPoint = nil

		return m
	}

	m.Selected = ref(*id)
	if m.SelectedPoint != nil && m.SelectedPoint.DataSet != *id {
		m.SelectedPoint = nil
	}
	if m.Hovered != nil && *m.Hovered != *id {
		m.Hovered = nil
	}

	return m
}

func hoverDataSet(m Model, id *DataSetID) Model {
	if id == nil {
		m.Hovered = nil

		return m
	}

	if !m.isVisible(*id) {
		return m
	}

	if m.Selected == nil || *m.Selected == *id {
		m.Hovered = ref(*id)
	}

	return m
}

func selectPoint(m Model, p PointRef) Model {
	ds, ok := m.DataSet(p.DataSet)
	if !ok || !ds.Visible {
		return m
	}
	if _, ok := ds.Points[p.Day]; !ok {
		return m
	}

	m.Selected = ref(p.DataSet)
	m.SelectedPoint = ref(p)
	if m.Hovered != nil && *m.Hovered != p.DataSet {
		m.Hovered = nil
	}

	return m
}

func setVisible(m Model, id DataSetID, visible bool) Model {
	dataSets := make([]DataSet, len(m.DataSets))
	copy(dataSets, m.DataSets)
	for i := range dataSets {
		if dataSets[i].ID == id {
			dataSets[i].Visible = visible
		}
	}
	m.DataSets = dataSets

	if visible {
		return m
	}

	if m.Hovered != nil && *m.Hovered == id {
		m.Hovered = nil
	}
	if m.Selected != nil && *m.Selected == id {
		m.Selected = nil
	}
	if m.SelectedPoint != nil && m.SelectedPoint.DataSet == id {
		m.SelectedPoint = nil
	}

	return m
}

// RemapAfterMove follows two data sets swapping places in their line chart.
func RemapAfterMove(m Model, i, j DataSetID) Model {
	swap := func(id DataSetID) DataSetID {
		switch id {
		case i:
			return j
		case j:
			return i
		default:
			return id
		}
	}

	return remap(m, func(id DataSetID) (DataSetID, bool) { return swap(id), true })
}

// ForgetDataSet follows the removal of a data set from its line chart: state pointing at it is
// cleared and state pointing after it shifts down by one.
func ForgetDataSet(m Model, removed DataSetID) Model {
	return remap(m, func(id DataSetID) (DataSetID, bool) {
		switch {
		case id == removed:
			return 0, false
		case id > removed:
			return id - 1, true
		default:
			return id, true
		}
	})
}

// remap rewrites the interaction state. Data sets are not touched: they are rebuilt from the
// line chart by the caller.
func remap(m Model, fn func(DataSetID) (DataSetID, bool)) Model {
	if m.Hovered != nil {
		if id, ok := fn(*m.Hovered); ok {
			m.Hovered = ref(id)
		} else {
			m.Hovered = nil
		}
	}

	if m.Selected != nil {
		if id, ok := fn(*m.Selected); ok {
			m.Selected = ref(id)
		} else {
			m.Selected = nil
		}
	}

	if m.SelectedPoint != nil {
		if id, ok := fn(m.SelectedPoint.DataSet); ok {
			m.SelectedPoint = ref(PointRef{DataSet: id, Day: m.SelectedPoint.Day})
		} else {
			m.SelectedPoint = nil
		}
	}

	return m
}

// PaintOrder returns the visible data sets in painting order, last painted on top.
//
// The first data set of the line chart is painted last. The selected series then goes on top,
// and a hovered series that is not selected above everything else.
func PaintOrder(m Model) []DataSet {
	visible := m.VisibleDataSets()
	order := make([]DataSet, 0, len(visible))

	var selected, hovered *DataSet
	for i := len(visible) - 1; i >= 0; i-- {
		ds := visible[i]
		switch {
		case m.Selected != nil && ds.ID == *m.Selected:
			selected = &visible[i]
		case m.Hovered != nil && ds.ID == *m.Hovered:
			hovered = &visible[i]
		default:
			order = append(order, ds)
		}
	}

	if selected != nil {
		order = append(order, *selected)
	}
	if hovered != nil {
		order = append(order, *hovered)
	}

	return order
}
