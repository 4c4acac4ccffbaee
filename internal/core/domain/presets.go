package domain

// presetDef is the seed shape for the built-in activity catalog.
type presetDef struct {
	Name               string
	Category           Category
	Icon               string
	Color              string
	Coefficient        float64
	SuggestedDurations []int
}

var presetActivities = []presetDef{
	{"Watching YouTube", CategoryScreen, "📺", "#FF0000", 1.0, []int{30, 60, 120}},
	{"Playing Video Games", CategoryScreen, "🎮", "#8B5CF6", 1.5, []int{30, 60, 90}},
	{"Reading Books", CategoryEducational, "📚", "#059669", 4.0, []int{15, 30, 60}},
	{"Playing Piano", CategoryEducational, "🎹", "#8B5CF6", 4.0, []int{15, 30, 45, 60}},
	{"Playing Outside", CategoryPhysical, "🏃", "#10B981", 3.0, []int{30, 60, 90, 120}},
	{"Riding Bike", CategoryPhysical, "🚴", "#10B981", 3.5, []int{30, 60, 90}},
	{"Drawing", CategoryCreative, "🎨", "#EC4899", 4.0, []int{15, 30, 60}},
	{"Building with Blocks", CategoryCreative, "🧱", "#F59E0B", 3.0, []int{15, 30, 45, 60}},
	{"Playing with Friends", CategorySocial, "👫", "#3B82F6", 3.5, []int{30, 60, 90, 120}},
	{"Board Games", CategorySocial, "🎲", "#6366F1", 2.5, []int{30, 60, 90}},
	{"Writing Stories", CategoryCreative, "✍️", "#EC4899", 5.0, []int{15, 30, 45, 60}},
	{"Science Projects", CategoryEducational, "🔬", "#059669", 5.0, []int{30, 60, 90}},
}

// PresetActivities builds the seed catalog for a new family.
func PresetActivities(familyID string) ([]*Activity, error) {
	out := make([]*Activity, 0, len(presetActivities))
	for _, p := range presetActivities {
		a, err := NewActivity(familyID, p.Name, p.Category, p.Coefficient, p.Icon, p.Color, CreatedByParent)
		if err != nil {
			return nil, err
		}
		a.IsPreset = true
		a.SuggestedDurations = p.SuggestedDurations
		out = append(out, a)
	}
	return out, nil
}
