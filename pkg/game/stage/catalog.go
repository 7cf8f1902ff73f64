package stage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"liminal/pkg/engine/world"
	"liminal/pkg/game/entities"
)

// stageNames are the stock stage rooms in order. Naming is plain and
// institutional so the wrong details stand out.
var stageNames = []string{
	"Reception", "Open Office", "Records Archive", "Break Room", "Copy Room", "Server Closet",
}

// DefaultCatalog returns the built-in templates: six stage rooms with a
// forward door and a side door, a one-door hallway and a doorless endgame room.
func DefaultCatalog() *Catalog {
	c := &Catalog{WallThickness: DefaultWallThickness}
	for i, name := range stageNames {
		depth := 6.0 + float64(i%3)
		c.Stages = append(c.Stages, Template{
			Name:      name,
			Kind:      entities.RoomStage,
			HalfWidth: 3,
			Depth:     depth,
			Height:    3,
			Doors: []DoorSpec{
				{Wall: world.North, Offset: 0, Width: 1},
				{Wall: world.East, Offset: 1, Width: 1},
			},
		})
	}
	c.Hallway = Template{
		Name:      "Service Corridor",
		Kind:      entities.RoomHallway,
		HalfWidth: 1,
		Depth:     10,
		Height:    3,
		Doors:     []DoorSpec{{Wall: world.North, Width: 1}},
	}
	c.Endgame = Template{
		Name:      "Exit",
		Kind:      entities.RoomEndgame,
		HalfWidth: 4,
		Depth:     4,
		Height:    4,
	}
	return c
}

// catalogFile is the on-disk YAML layout of a catalog.
type catalogFile struct {
	WallThickness *float64       `yaml:"wall_thickness"`
	Stages        []templateFile `yaml:"stages"`
	Hallway       templateFile   `yaml:"hallway"`
	Endgame       templateFile   `yaml:"endgame"`
}

type templateFile struct {
	Name      string     `yaml:"name"`
	HalfWidth float64    `yaml:"half_width"`
	Depth     float64    `yaml:"depth"`
	Height    float64    `yaml:"height"`
	Doors     []doorFile `yaml:"doors"`
}

type doorFile struct {
	Wall   string  `yaml:"wall"`
	Offset float64 `yaml:"offset"`
	Width  float64 `yaml:"width"`
}

// LoadCatalog reads a template catalog from a YAML file and validates it.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML template catalog and validates it.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{WallThickness: DefaultWallThickness}
	if f.WallThickness != nil {
		c.WallThickness = *f.WallThickness
	}
	for _, tf := range f.Stages {
		t, err := tf.template(entities.RoomStage)
		if err != nil {
			return nil, err
		}
		c.Stages = append(c.Stages, t)
	}
	var err error
	if c.Hallway, err = f.Hallway.template(entities.RoomHallway); err != nil {
		return nil, err
	}
	if c.Endgame, err = f.Endgame.template(entities.RoomEndgame); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (tf templateFile) template(kind entities.RoomKind) (Template, error) {
	t := Template{
		Name:      tf.Name,
		Kind:      kind,
		HalfWidth: tf.HalfWidth,
		Depth:     tf.Depth,
		Height:    tf.Height,
	}
	for i, df := range tf.Doors {
		wall, ok := world.ParseDirection(df.Wall)
		if !ok {
			return Template{}, fmt.Errorf("%w: %q door %d has unknown wall %q", ErrBadTemplate, tf.Name, i, df.Wall)
		}
		t.Doors = append(t.Doors, DoorSpec{Wall: wall, Offset: df.Offset, Width: df.Width})
	}
	return t, nil
}
