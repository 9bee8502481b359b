package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Palette lists the colours offered for new categories, ARGB packed.
var Palette = []int32{
	argb(0xFF00FF88), // mint green
	argb(0xFFFF6B6B), // red
	argb(0xFF4ECDC4), // teal
	argb(0xFFFFA07A), // light salmon
	argb(0xFF9B59B6), // purple
	argb(0xFFF39C12), // orange
	argb(0xFF3498DB), // blue
	argb(0xFFE74C3C), // crimson
	argb(0xFF1ABC9C), // turquoise
	argb(0xFFE67E22), // carrot
	argb(0xFF2ECC71), // emerald
	argb(0xFFF1C40F), // yellow
}

// DefaultColor is used when a category is created without a colour.
var DefaultColor = Palette[0]

func argb(v uint32) int32 {
	return int32(v)
}

// ParseColor reads "#RRGGBB" (opaque) or "#AARRGGBB" into an ARGB value.
func ParseColor(s string) (int32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return 0, fmt.Errorf("invalid color %q: want #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 6 {
		v |= 0xFF000000
	}
	return argb(uint32(v)), nil
}

// FormatColor renders an ARGB value as "#AARRGGBB".
func FormatColor(c int32) string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseCategorySpec reads a one-line category definition of the form
// "Name: keyword, keyword #RRGGBB". Keywords and colour are optional; a
// missing or unreadable colour yields DefaultColor.
func ParseCategorySpec(line string) (name string, keywords []string, color int32, err error) {
	name, rest, _ := strings.Cut(line, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, 0, ErrEmptyName
	}
	color = DefaultColor
	if i := strings.LastIndex(rest, "#"); i >= 0 {
		if c, err := ParseColor(rest[i:]); err == nil {
			color = c
			rest = rest[:i]
		}
	}
	return name, SplitKeywords(rest), color, nil
}
