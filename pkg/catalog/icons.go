package catalog

// CategoryIcon identifies the icon rendered next to a category. The set is
// fixed at compile time; unknown names resolve to IconPackage so a stale or
// misspelled icon reference in seed data can never break rendering.
type CategoryIcon string

const (
	IconCPU      CategoryIcon = "Cpu"
	IconMap      CategoryIcon = "Map"
	IconSparkles CategoryIcon = "Sparkles"
	IconPalette  CategoryIcon = "Palette"
	IconTool     CategoryIcon = "Tool"
	IconPackage  CategoryIcon = "Package"
	IconCar      CategoryIcon = "Car"
	IconApple    CategoryIcon = "Apple"
)

// ParseCategoryIcon maps an icon name to its CategoryIcon, falling back to
// IconPackage for unknown names.
func ParseCategoryIcon(name string) CategoryIcon {
	switch CategoryIcon(name) {
	case IconCPU, IconMap, IconSparkles, IconPalette, IconTool, IconPackage, IconCar, IconApple:
		return CategoryIcon(name)
	default:
		return IconPackage
	}
}
