package reports

import (
	"strings"

	"jendo-cli/internal/model"
)

// DefaultIcon is used when no rule matches.
const DefaultIcon = "folder"

type iconRule struct {
	key  string
	icon string
}

// Rules are checked in order and the first substring match wins, so a later
// key that contains an earlier one (blood after blood-tests) only matters for
// exact icon-field lookups.
var categoryIcons = []iconRule{
	{"diabetes", "water"},
	{"cardiovascular", "heart"},
	{"pregnancy", "human-pregnant"},
	{"blood-tests", "flask"},
	{"blood", "flask"},
	{"radiology", "scan-outline"},
	{"dermatology", "hand-left"},
	{"neurology", "brain"},
	{"default", DefaultIcon},
}

var sectionIcons = []iconRule{
	{"core informations", "information-circle"},
	{"core investigations", "flask"},
	{"treatment", "medkit"},
	{"medications", "medical"},
	{"self-management", "heart"},
	{"lifestyle", "heart"},
	{"urgent", "warning"},
	{"red-flag", "alert-circle"},
	{"cardiac", "heart-pulse"},
	{"blood pressure", "pulse"},
	{"lipid", "water"},
	{"imaging", "scan"},
	{"risk", "shield-checkmark"},
	{"prenatal", "fitness"},
	{"ultrasound", "radio"},
	{"blood work", "water"},
	{"glucose", "analytics"},
	{"complete blood", "water"},
	{"metabolic", "flask"},
	{"thyroid", "pulse"},
	{"liver", "fitness"},
	{"kidney", "filter"},
	{"x-ray", "scan"},
	{"ct scan", "layers"},
	{"mri", "scan-circle"},
	{"skin", "hand-left"},
	{"allergy", "alert"},
	{"eeg", "pulse"},
	{"nerve", "flash"},
	{"brain", "ellipse"},
}

func matchIcon(rules []iconRule, name string) string {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if strings.Contains(lower, r.key) {
			return r.icon
		}
	}
	return DefaultIcon
}

// CategoryIcon honors an exact icon-field key first, then matches the name.
func CategoryIcon(c model.ReportCategory) string {
	if c.Icon != nil {
		key := strings.ToLower(*c.Icon)
		for _, r := range categoryIcons {
			if r.key == key {
				return r.icon
			}
		}
	}
	return matchIcon(categoryIcons, c.Name)
}

func SectionIcon(s model.ReportSection) string {
	return matchIcon(sectionIcons, s.Name)
}
