package editor

import (
	"github.com/ivlev/camreel/internal/timeline"
)

// AddTextLayer adds a layer and selects it. A non-positive duration
// becomes three seconds.
func (c *Controller) AddTextLayer(l timeline.TextLayer) string {
	if l.ID == "" {
		l.ID = timeline.NewID()
	}
	if l.Duration <= 0 {
		l.Duration = 3000
	}

	c.record("add text")
	c.p.TextLayers = c.p.TextLayers.Add(l)
	c.SelectTextLayer(l.ID)
	return l.ID
}

func (c *Controller) UpdateTextLayer(id string, fn func(*timeline.TextLayer)) bool {
	if _, ok := c.p.TextLayers.Find(id); !ok {
		return false
	}
	c.record("update text")
	c.p.TextLayers = c.p.TextLayers.Update(id, fn)
	return true
}

// DeleteTextLayer removes a layer, clearing the selection if it was the
// selected one.
func (c *Controller) DeleteTextLayer(id string) bool {
	if _, ok := c.p.TextLayers.Find(id); !ok {
		return false
	}
	c.record("delete text")
	c.p.TextLayers = c.p.TextLayers.Delete(id)
	if c.p.Selection.TextLayerID == id {
		c.p.Selection.TextLayerID = ""
	}
	return true
}
