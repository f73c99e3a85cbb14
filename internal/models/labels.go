package models

// Display lookup tables for the two classification scales. Codes outside
// the tables (including the "-" sentinel) render as the raw code.

var bortleLabels = map[string]string{
	"1": "Class 1 / limiting magnitude 7.6-8.0",
	"2": "Class 2 / limiting magnitude 7.1-7.5",
	"3": "Class 3 / limiting magnitude 6.6-7.0",
	"4": "Class 4 / limiting magnitude 6.1-6.5",
	"5": "Class 5 / limiting magnitude 5.6-6.0",
	"6": "Class 6 / limiting magnitude 5.1-5.5",
	"7": "Class 7 / limiting magnitude 4.6-5.0",
	"8": "Class 8 / limiting magnitude 4.1-4.5",
	"9": "Class 9 / limiting magnitude 4.0",
}

// StandardLightLevel describes one dark-sky standard grade and the badge
// color the detail view renders it with.
type StandardLightLevel struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var standardLightLevels = map[string]StandardLightLevel{
	"1":  {Label: "Level 1 (excellent)", Color: "#27ae60"},
	"2":  {Label: "Level 2 (good)", Color: "#27ae60"},
	"3":  {Label: "Level 3 (fair)", Color: "#f39c12"},
	"4":  {Label: "Level 4 (poor)", Color: "#e67e22"},
	"5":  {Label: "Level 5 (severe)", Color: "#e74c3c"},
	"5+": {Label: "Level 5+ (extreme)", Color: "#e74c3c"},
}

func BortleLabel(code string) string {
	if label, ok := bortleLabels[code]; ok {
		return label
	}
	return code
}

func StandardLightFor(code string) (StandardLightLevel, bool) {
	level, ok := standardLightLevels[code]
	return level, ok
}
