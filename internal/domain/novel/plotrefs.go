package novel

import (
	"fmt"
	"slices"

	"github.com/rpggio/novx/internal/event"
)

// LinkSection associates section scID with plot line plID on both sides.
func (n *Novel) LinkSection(plID, scID string) error {
	pl, sc, err := n.plotLineAndSection(plID, scID)
	if err != nil {
		return err
	}
	return n.batch(event.ElementChanged, scID, func() error {
		if !slices.Contains(pl.sections, scID) {
			pl.setSections(append(slices.Clone(pl.sections), scID))
		}
		if !slices.Contains(sc.plotLines, plID) {
			sc.setPlotLines(append(slices.Clone(sc.plotLines), plID))
		}
		return nil
	})
}

// UnlinkSection removes the association between section scID and plot line
// plID on both sides. Plot points of plID placed in the section become
// unplaced.
func (n *Novel) UnlinkSection(plID, scID string) error {
	pl, sc, err := n.plotLineAndSection(plID, scID)
	if err != nil {
		return err
	}
	return n.batch(event.ElementChanged, scID, func() error {
		if list, ok := removeID(pl.sections, scID); ok {
			pl.setSections(list)
		}
		if list, ok := removeID(sc.plotLines, plID); ok {
			sc.setPlotLines(list)
		}
		points := sc.PlotPoints()
		for ppID, owner := range points {
			if owner != plID {
				continue
			}
			delete(points, ppID)
			if pp, ok := n.plotPoints[ppID]; ok {
				pp.setSection("")
			}
		}
		sc.setPlotPoints(points)
		return nil
	})
}

// AssignPlotPoint places plot point ppID in section scID, replacing any
// previous placement. The section is linked to the point's plot line if it
// isn't already.
func (n *Novel) AssignPlotPoint(ppID, scID string) error {
	pp, ok := n.plotPoints[ppID]
	if !ok {
		return fmt.Errorf("plot point %s: %w", ppID, ErrNotFound)
	}
	sc, ok := n.sections[scID]
	if !ok {
		return fmt.Errorf("section %s: %w", scID, ErrNotFound)
	}
	plID, _ := n.tree.Parent(ppID)

	return n.batch(event.ElementChanged, ppID, func() error {
		n.unplace(pp)
		if err := n.LinkSection(plID, scID); err != nil {
			return err
		}
		pp.setSection(scID)
		points := sc.PlotPoints()
		if points == nil {
			points = make(map[string]string)
		}
		points[ppID] = plID
		sc.setPlotPoints(points)
		return nil
	})
}

// ClearPlotPoint makes plot point ppID unplaced.
func (n *Novel) ClearPlotPoint(ppID string) error {
	pp, ok := n.plotPoints[ppID]
	if !ok {
		return fmt.Errorf("plot point %s: %w", ppID, ErrNotFound)
	}
	return n.batch(event.ElementChanged, ppID, func() error {
		n.unplace(pp)
		return nil
	})
}

func (n *Novel) unplace(pp *PlotPoint) {
	if pp.section == "" {
		return
	}
	if sc, ok := n.sections[pp.section]; ok {
		points := sc.PlotPoints()
		delete(points, pp.id)
		sc.setPlotPoints(points)
	}
	pp.setSection("")
}

func (n *Novel) plotLineAndSection(plID, scID string) (*PlotLine, *Section, error) {
	pl, ok := n.plotLines[plID]
	if !ok {
		return nil, nil, fmt.Errorf("plot line %s: %w", plID, ErrNotFound)
	}
	sc, ok := n.sections[scID]
	if !ok {
		return nil, nil, fmt.Errorf("section %s: %w", scID, ErrNotFound)
	}
	return pl, sc, nil
}
