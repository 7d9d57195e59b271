package editor

// Select selects a clip. With multi the clip is toggled in the current
// selection, otherwise it replaces it. Selecting a clip clears the text
// layer selection.
func (c *Controller) Select(id string, multi bool) {
	if _, ok := c.p.Clips.Find(id); !ok {
		return
	}
	sel := &c.p.Selection
	sel.TextLayerID = ""

	if !multi {
		sel.ClipIDs = []string{id}
		return
	}

	for i, existing := range sel.ClipIDs {
		if existing == id {
			sel.ClipIDs = append(sel.ClipIDs[:i:i], sel.ClipIDs[i+1:]...)
			return
		}
	}
	sel.ClipIDs = append(sel.ClipIDs, id)
}

// SelectAll selects every clip.
func (c *Controller) SelectAll() {
	ids := make([]string, 0, len(c.p.Clips))
	for _, clip := range c.p.Clips {
		ids = append(ids, clip.ID)
	}
	c.p.Selection.ClipIDs = ids
	c.p.Selection.TextLayerID = ""
}

func (c *Controller) DeselectAll() {
	c.p.Selection.ClipIDs = nil
}

// SelectTextLayer selects a text layer and clears the clip selection. An
// empty id clears the text selection.
func (c *Controller) SelectTextLayer(id string) {
	if id != "" {
		if _, ok := c.p.TextLayers.Find(id); !ok {
			return
		}
		c.p.Selection.ClipIDs = nil
	}
	c.p.Selection.TextLayerID = id
}

// SelectedClipIDs returns a copy of the clip selection.
func (c *Controller) SelectedClipIDs() []string {
	return append([]string(nil), c.p.Selection.ClipIDs...)
}
