package palette

// Renderer resolves the colour a texture paints at an absolute grid coordinate.
type Renderer func(x, y int) Color

// Texture is a named two-colour procedural fill.
type Texture struct {
	ID        int
	Name      string
	Primary   Entry
	Secondary Entry
	Render    Renderer
}

// fieldRenderer draws diagonal stripes, three primary cells then two
// secondary, shifting two cells left per row.
func fieldRenderer(primary, secondary Entry) Renderer {
	p, s := primary.Color(), secondary.Color()
	return func(x, y int) Color {
		diagonal := ((x-y*2)%5 + 5) % 5
		if diagonal >= 3 {
			return s
		}
		return p
	}
}

func field(id int, name string, primaryID, secondaryID int) Texture {
	primary, _ := Lookup(primaryID)
	secondary, _ := Lookup(secondaryID)
	return Texture{
		ID:        id,
		Name:      name,
		Primary:   primary,
		Secondary: secondary,
		Render:    fieldRenderer(primary, secondary),
	}
}

var textures = []Texture{
	field(0, "Wheat", 10, 9),
	field(1, "Hay", 39, 38),
	field(2, "Cut Hay", 42, 41),
	field(3, "Dark Cut Hay", 41, 40),
	field(4, "Soil", 30, 50),
}

// Textures returns the texture catalog in id order.
func Textures() []Texture {
	out := make([]Texture, len(textures))
	copy(out, textures)
	return out
}

// TextureByID returns the texture with the given id.
func TextureByID(id int) (Texture, bool) {
	for _, t := range textures {
		if t.ID == id {
			return t, true
		}
	}
	return Texture{}, false
}
