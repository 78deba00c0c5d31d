package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidColor is returned when a colour is not of the form #rrggbb.
var ErrInvalidColor = errors.New("invalid color")

// RGB is a 24-bit colour.
type RGB [3]uint8

// ParseRGB parses "#rrggbb" (the leading # is optional).
func ParseRGB(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Hex renders the colour as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func (c RGB) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

func (c *RGB) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRGB(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SlotCount is the number of colour slots in a theme.
const SlotCount = 12

// Colour slots, from backgrounds through borders and solids to text.
const (
	SlotBackground = iota
	SlotSubtleBackground
	SlotElement
	SlotElementHover
	SlotElementActive
	SlotSubtleBorder
	SlotBorder
	SlotBorderHover
	SlotSolid
	SlotSolidHover
	SlotTextMuted
	SlotText
)

// SlotNames labels the slots in the theme editor.
var SlotNames = [SlotCount]string{
	"Background",
	"Subtle background",
	"Element",
	"Element hovered",
	"Element active",
	"Subtle border",
	"Border",
	"Border hovered",
	"Solid",
	"Solid hovered",
	"Low contrast text",
	"High contrast text",
}

// Theme is a custom colour scheme.
type Theme struct {
	Colors [SlotCount]RGB `yaml:"colors"`
	Light  bool           `yaml:"light,omitempty"`
}

// Preset is a named theme.
type Preset struct {
	Name  string
	Theme Theme
}

func mustRGB(s string) RGB {
	c, err := ParseRGB(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Presets offered by the theme editor. The first is used when custom
// colours are activated.
var Presets = []Preset{
	{
		Name: "PacArch",
		Theme: Theme{Colors: [SlotCount]RGB{
			{0, 125, 255},
			{119, 164, 255},
			mustRGB("#3e63dd"), // indigo
			mustRGB("#5b5bd6"), // iris
			mustRGB("#3e63dd"),
			mustRGB("#8d8d8d"), // gray
			mustRGB("#5b5bd6"),
			mustRGB("#3e63dd"),
			mustRGB("#0090ff"), // blue
			mustRGB("#3e63dd"),
			{254, 247, 116},
			{0, 245, 232},
		}},
	},
	{
		Name: "Slate",
		Theme: Theme{Colors: [SlotCount]RGB{
			mustRGB("#111113"),
			mustRGB("#18191b"),
			mustRGB("#212225"),
			mustRGB("#272a2d"),
			mustRGB("#2e3135"),
			mustRGB("#363a3f"),
			mustRGB("#43484e"),
			mustRGB("#5a6169"),
			mustRGB("#696e77"),
			mustRGB("#777b84"),
			mustRGB("#b0b4ba"),
			mustRGB("#edeef0"),
		}},
	},
	{
		Name: "Teal",
		Theme: Theme{Colors: [SlotCount]RGB{
			mustRGB("#0d1514"),
			mustRGB("#111c1b"),
			mustRGB("#0d2d2a"),
			mustRGB("#023b37"),
			mustRGB("#084843"),
			mustRGB("#145750"),
			mustRGB("#1c6961"),
			mustRGB("#207e73"),
			mustRGB("#12a594"),
			mustRGB("#0eb39e"),
			mustRGB("#0bd8b6"),
			mustRGB("#adf0dd"),
		}},
	},
}

// DefaultTheme returns the first preset.
func DefaultTheme() *Theme {
	t := Presets[0].Theme
	return &t
}
