package timeline

// Align is the horizontal anchoring of a text layer.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextLayer is a timed text overlay. Text layers are not keyframed.
type TextLayer struct {
	ID              string  `yaml:"id" json:"id"`
	Text            string  `yaml:"text" json:"text"`
	StartTime       float64 `yaml:"startTime" json:"startTime"`
	Duration        float64 `yaml:"duration" json:"duration"`
	X               float64 `yaml:"x" json:"x"` // 0-1 normalized
	Y               float64 `yaml:"y" json:"y"` // 0-1 normalized
	FontSize        float64 `yaml:"fontSize" json:"fontSize"`
	FontFamily      string  `yaml:"fontFamily" json:"fontFamily"`
	Color           string  `yaml:"color" json:"color"`
	BackgroundColor string  `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	Bold            bool    `yaml:"bold" json:"bold"`
	Italic          bool    `yaml:"italic" json:"italic"`
	Underline       bool    `yaml:"underline" json:"underline"`
	Align           Align   `yaml:"align" json:"align"`
	Opacity         float64 `yaml:"opacity" json:"opacity"`
	Rotation        float64 `yaml:"rotation" json:"rotation"` // degrees
	FadeIn          float64 `yaml:"fadeIn" json:"fadeIn"`
	FadeOut         float64 `yaml:"fadeOut" json:"fadeOut"`
	Enabled         bool    `yaml:"enabled" json:"enabled"`
}

// NewTextLayer returns a centered white title lasting three seconds.
func NewTextLayer(text string, start float64) TextLayer {
	return TextLayer{
		ID:         NewID(),
		Text:       text,
		StartTime:  start,
		Duration:   3000,
		X:          0.5,
		Y:          0.5,
		FontSize:   48,
		FontFamily: "Inter",
		Color:      "#ffffff",
		Align:      AlignCenter,
		Opacity:    1,
		Enabled:    true,
	}
}

// End returns StartTime + Duration.
func (l TextLayer) End() float64 {
	return l.StartTime + l.Duration
}

// VisibleAt reports whether an enabled layer covers t. Both ends are
// inclusive.
func (l TextLayer) VisibleAt(t float64) bool {
	return l.Enabled && t >= l.StartTime && t <= l.End()
}

// TextLayers is a value slice of overlays. Operations return new slices.
type TextLayers []TextLayer

func (ls TextLayers) Clone() TextLayers {
	if ls == nil {
		return nil
	}
	out := make(TextLayers, len(ls))
	copy(out, ls)
	return out
}

func (ls TextLayers) Add(l TextLayer) TextLayers {
	if l.ID == "" {
		l.ID = NewID()
	}
	return append(ls.Clone(), l)
}

func (ls TextLayers) Find(id string) (TextLayer, bool) {
	for _, l := range ls {
		if l.ID == id {
			return l, true
		}
	}
	return TextLayer{}, false
}

func (ls TextLayers) Update(id string, fn func(*TextLayer)) TextLayers {
	out := ls.Clone()
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

func (ls TextLayers) Delete(id string) TextLayers {
	out := make(TextLayers, 0, len(ls))
	for _, l := range ls {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

// VisibleAt returns the layers covering t in stacking order.
func (ls TextLayers) VisibleAt(t float64) TextLayers {
	var out TextLayers
	for _, l := range ls {
		if l.VisibleAt(t) {
			out = append(out, l)
		}
	}
	return out
}
