package profile

// Kind says how a field is entered.
type Kind string

const (
	KindChoice Kind = "choice"
	KindScale  Kind = "scale"
	KindNumber Kind = "number"
)

// Field describes one profile column for forms, the input guide and reports.
type Field struct {
	Column  string   `json:"column"`
	Label   string   `json:"label"`
	Group   string   `json:"group"`
	Guide   string   `json:"guide"`
	Kind    Kind     `json:"kind"`
	Options []string `json:"options,omitempty"`
	Min     int      `json:"min"`
	Max     int      `json:"max"`
}

// Guide groups, in display order.
const (
	GroupPersonal   = "Personal Information"
	GroupParents    = "Parental Education"
	GroupMotivation = "Motivation & Environment"
	GroupSupport    = "Support & Activities"
	GroupSocial     = "Social Life & Habits"
	GroupAcademic   = "Academic Results"
)

// MaxAbsencesInput caps absences in interactive entry. The profile itself
// only requires absences >= 0.
const MaxAbsencesInput = 100

const (
	yesNoGuide = "yes or no."
	levelGuide = "1 = very low, 2 = low, 3 = average, 4 = high, 5 = very high."
	eduGuide   = "0 = none, 1 = primary, 2 = 5th-9th grade, 3 = secondary, 4 = higher education."
)

var (
	jobs  = []string{"teacher", "health", "services", "at_home", "other"}
	yesNo = []string{"yes", "no"}
)

// fieldTable is ordered by column; the order is the model's column order.
var fieldTable = []Field{
	{Column: "school", Label: "School", Group: GroupPersonal, Guide: "GP = Gabriel Pereira, MS = Mousinho da Silveira.", Kind: KindChoice, Options: []string{"GP", "MS"}},
	{Column: "sex", Label: "Sex", Group: GroupPersonal, Guide: "F = Female, M = Male.", Kind: KindChoice, Options: []string{"F", "M"}},
	{Column: "age", Label: "Age", Group: GroupPersonal, Guide: "Student's age (15-22).", Kind: KindNumber, Min: 15, Max: 22},
	{Column: "address", Label: "Address", Group: GroupPersonal, Guide: "U = Urban, R = Rural.", Kind: KindChoice, Options: []string{"U", "R"}},
	{Column: "famsize", Label: "Family Size", Group: GroupPersonal, Guide: "LE3 = 3 members or fewer, GT3 = more than 3 members.", Kind: KindChoice, Options: []string{"LE3", "GT3"}},
	{Column: "Pstatus", Label: "Parent's Cohabitation Status", Group: GroupPersonal, Guide: "T = Together, A = Apart.", Kind: KindChoice, Options: []string{"T", "A"}},

	{Column: "Medu", Label: "Mother's Education", Group: GroupParents, Guide: eduGuide, Kind: KindScale, Min: 0, Max: 4},
	{Column: "Fedu", Label: "Father's Education", Group: GroupParents, Guide: eduGuide, Kind: KindScale, Min: 0, Max: 4},
	{Column: "Mjob", Label: "Mother's Job", Group: GroupParents, Guide: "teacher, health, services, at_home, other.", Kind: KindChoice, Options: jobs},
	{Column: "Fjob", Label: "Father's Job", Group: GroupParents, Guide: "teacher, health, services, at_home, other.", Kind: KindChoice, Options: jobs},

	{Column: "reason", Label: "Reason for School Choice", Group: GroupMotivation, Guide: "home, reputation, course, other.", Kind: KindChoice, Options: []string{"home", "reputation", "course", "other"}},
	{Column: "guardian", Label: "Guardian", Group: GroupMotivation, Guide: "mother, father, other.", Kind: KindChoice, Options: []string{"mother", "father", "other"}},
	{Column: "traveltime", Label: "Travel Time", Group: GroupMotivation, Guide: "1 = <15 min, 2 = 15-30 min, 3 = 30 min-1 hr, 4 = >1 hr.", Kind: KindScale, Min: 1, Max: 4},
	{Column: "studytime", Label: "Weekly Study Time", Group: GroupMotivation, Guide: "1 = <2 hrs, 2 = 2-5 hrs, 3 = 5-10 hrs, 4 = >10 hrs/week.", Kind: KindScale, Min: 1, Max: 4},
	{Column: "failures", Label: "Past Class Failures", Group: GroupMotivation, Guide: "0 = none, 1 = one, 2 = two, 3 = three or more.", Kind: KindScale, Min: 0, Max: 3},

	{Column: "schoolsup", Label: "School Support", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},
	{Column: "famsup", Label: "Family Support", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},
	{Column: "paid", Label: "Extra Paid Classes", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},
	{Column: "activities", Label: "Extracurricular Activities", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},
	{Column: "nursery", Label: "Attended Nursery School", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},
	{Column: "higher", Label: "Wants Higher Education", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},
	{Column: "internet", Label: "Internet Access", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},
	{Column: "romantic", Label: "In a Romantic Relationship", Group: GroupSupport, Guide: yesNoGuide, Kind: KindChoice, Options: yesNo},

	{Column: "famrel", Label: "Family Relationship Quality", Group: GroupSocial, Guide: levelGuide, Kind: KindScale, Min: 1, Max: 5},
	{Column: "freetime", Label: "Free Time After School", Group: GroupSocial, Guide: levelGuide, Kind: KindScale, Min: 1, Max: 5},
	{Column: "goout", Label: "Going Out with Friends", Group: GroupSocial, Guide: levelGuide, Kind: KindScale, Min: 1, Max: 5},
	{Column: "Dalc", Label: "Workday Alcohol Consumption", Group: GroupSocial, Guide: levelGuide, Kind: KindScale, Min: 1, Max: 5},
	{Column: "Walc", Label: "Weekend Alcohol Consumption", Group: GroupSocial, Guide: levelGuide, Kind: KindScale, Min: 1, Max: 5},
	{Column: "health", Label: "Current Health Status", Group: GroupSocial, Guide: levelGuide, Kind: KindScale, Min: 1, Max: 5},

	{Column: "absences", Label: "Number of Absences", Group: GroupSocial, Guide: "Number of school absences.", Kind: KindNumber, Min: 0, Max: MaxAbsencesInput},
	{Column: "G1", Label: "First Period Grade (G1)", Group: GroupAcademic, Guide: "Grade for the first period (0-20).", Kind: KindNumber, Min: 0, Max: 20},
	{Column: "G2", Label: "Second Period Grade (G2)", Group: GroupAcademic, Guide: "Grade for the second period (0-20).", Kind: KindNumber, Min: 0, Max: 20},
}

// Fields returns a copy of the field descriptors in column order.
func Fields() []Field {
	out := make([]Field, len(fieldTable))
	copy(out, fieldTable)
	return out
}

// Groups returns the guide groups in display order.
func Groups() []string {
	return []string{GroupPersonal, GroupParents, GroupMotivation, GroupSupport, GroupSocial, GroupAcademic}
}

// Lookup returns the descriptor for column.
func Lookup(column string) (Field, bool) {
	for _, f := range fieldTable {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}
