// Package profile defines the student profile consumed by the grade
// predictor and the recommendation engine.
//
// A Profile is only ever built through New (or Parse/Load, which call New),
// so every field is present and within range once a Profile exists. The
// engine downstream never re-validates or defaults anything.
package profile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Profile is a complete, validated student profile. It is a value type;
// copies are independent and nothing in this module mutates one.
type Profile struct {
	School       School       `json:"school"`
	Sex          Sex          `json:"sex"`
	Age          int          `json:"age"`
	Address      Address      `json:"address"`
	FamilySize   FamilySize   `json:"famsize"`
	ParentStatus ParentStatus `json:"Pstatus"`

	MotherEducation int `json:"Medu"`
	FatherEducation int `json:"Fedu"`
	MotherJob       Job `json:"Mjob"`
	FatherJob       Job `json:"Fjob"`

	Reason     Reason   `json:"reason"`
	Guardian   Guardian `json:"guardian"`
	TravelTime int      `json:"traveltime"`
	StudyTime  int      `json:"studytime"`
	Failures   int      `json:"failures"`

	SchoolSupport         YesNo `json:"schoolsup"`
	FamilySupport         YesNo `json:"famsup"`
	PaidClasses           YesNo `json:"paid"`
	Activities            YesNo `json:"activities"`
	Nursery               YesNo `json:"nursery"`
	HigherEducationIntent YesNo `json:"higher"`
	InternetAccess        YesNo `json:"internet"`
	RomanticRelationship  YesNo `json:"romantic"`

	FamilyRelationship int `json:"famrel"`
	FreeTime           int `json:"freetime"`
	GoingOut           int `json:"goout"`
	WorkdayAlcohol     int `json:"Dalc"`
	WeekendAlcohol     int `json:"Walc"`
	Health             int `json:"health"`

	Absences int `json:"absences"`
	G1       int `json:"G1"`
	G2       int `json:"G2"`
}

// Input is a possibly incomplete profile as collected from a form, a file
// or an API request. Nil fields are missing.
type Input struct {
	School       *School       `json:"school" validate:"required,oneof=GP MS"`
	Sex          *Sex          `json:"sex" validate:"required,oneof=F M"`
	Age          *int          `json:"age" validate:"required,min=15,max=22"`
	Address      *Address      `json:"address" validate:"required,oneof=U R"`
	FamilySize   *FamilySize   `json:"famsize" validate:"required,oneof=LE3 GT3"`
	ParentStatus *ParentStatus `json:"Pstatus" validate:"required,oneof=T A"`

	MotherEducation *int `json:"Medu" validate:"required,min=0,max=4"`
	FatherEducation *int `json:"Fedu" validate:"required,min=0,max=4"`
	MotherJob       *Job `json:"Mjob" validate:"required,oneof=teacher health services at_home other"`
	FatherJob       *Job `json:"Fjob" validate:"required,oneof=teacher health services at_home other"`

	Reason     *Reason   `json:"reason" validate:"required,oneof=home reputation course other"`
	Guardian   *Guardian `json:"guardian" validate:"required,oneof=mother father other"`
	TravelTime *int      `json:"traveltime" validate:"required,min=1,max=4"`
	StudyTime  *int      `json:"studytime" validate:"required,min=1,max=4"`
	Failures   *int      `json:"failures" validate:"required,min=0,max=3"`

	SchoolSupport         *YesNo `json:"schoolsup" validate:"required,oneof=yes no"`
	FamilySupport         *YesNo `json:"famsup" validate:"required,oneof=yes no"`
	PaidClasses           *YesNo `json:"paid" validate:"required,oneof=yes no"`
	Activities            *YesNo `json:"activities" validate:"required,oneof=yes no"`
	Nursery               *YesNo `json:"nursery" validate:"required,oneof=yes no"`
	HigherEducationIntent *YesNo `json:"higher" validate:"required,oneof=yes no"`
	InternetAccess        *YesNo `json:"internet" validate:"required,oneof=yes no"`
	RomanticRelationship  *YesNo `json:"romantic" validate:"required,oneof=yes no"`

	FamilyRelationship *int `json:"famrel" validate:"required,min=1,max=5"`
	FreeTime           *int `json:"freetime" validate:"required,min=1,max=5"`
	GoingOut           *int `json:"goout" validate:"required,min=1,max=5"`
	WorkdayAlcohol     *int `json:"Dalc" validate:"required,min=1,max=5"`
	WeekendAlcohol     *int `json:"Walc" validate:"required,min=1,max=5"`
	Health             *int `json:"health" validate:"required,min=1,max=5"`

	Absences *int `json:"absences" validate:"required,min=0"`
	G1       *int `json:"G1" validate:"required,min=0,max=20"`
	G2       *int `json:"G2" validate:"required,min=0,max=20"`
}

// New validates in and returns the complete profile. Every missing or
// out-of-range field is reported in a single *InvalidInputError.
func New(in Input) (Profile, error) {
	if err := validateInput(&in); err != nil {
		return Profile{}, err
	}

	return Profile{
		School:       *in.School,
		Sex:          *in.Sex,
		Age:          *in.Age,
		Address:      *in.Address,
		FamilySize:   *in.FamilySize,
		ParentStatus: *in.ParentStatus,

		MotherEducation: *in.MotherEducation,
		FatherEducation: *in.FatherEducation,
		MotherJob:       *in.MotherJob,
		FatherJob:       *in.FatherJob,

		Reason:     *in.Reason,
		Guardian:   *in.Guardian,
		TravelTime: *in.TravelTime,
		StudyTime:  *in.StudyTime,
		Failures:   *in.Failures,

		SchoolSupport:         *in.SchoolSupport,
		FamilySupport:         *in.FamilySupport,
		PaidClasses:           *in.PaidClasses,
		Activities:            *in.Activities,
		Nursery:               *in.Nursery,
		HigherEducationIntent: *in.HigherEducationIntent,
		InternetAccess:        *in.InternetAccess,
		RomanticRelationship:  *in.RomanticRelationship,

		FamilyRelationship: *in.FamilyRelationship,
		FreeTime:           *in.FreeTime,
		GoingOut:           *in.GoingOut,
		WorkdayAlcohol:     *in.WorkdayAlcohol,
		WeekendAlcohol:     *in.WeekendAlcohol,
		Health:             *in.Health,

		Absences: *in.Absences,
		G1:       *in.G1,
		G2:       *in.G2,
	}, nil
}

// Parse decodes a JSON object keyed by column name and builds a Profile.
// Unknown keys are rejected so that typos surface as errors instead of
// silently missing fields.
func Parse(data []byte) (Profile, error) {
	var in Input
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return New(in)
}

// Load reads a JSON profile file.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Columns returns the fixed column order used for tabular model input and
// for the profile echo in reports.
func Columns() []string {
	out := make([]string, len(fieldTable))
	for i, f := range fieldTable {
		out[i] = f.Column
	}
	return out
}

// Row returns the profile's values in Columns order. Enum values are plain
// strings and scales are ints.
func (p Profile) Row() []any {
	return []any{
		string(p.School), string(p.Sex), p.Age, string(p.Address), string(p.FamilySize), string(p.ParentStatus),
		p.MotherEducation, p.FatherEducation, string(p.MotherJob), string(p.FatherJob),
		string(p.Reason), string(p.Guardian), p.TravelTime, p.StudyTime, p.Failures,
		string(p.SchoolSupport), string(p.FamilySupport), string(p.PaidClasses), string(p.Activities),
		string(p.Nursery), string(p.HigherEducationIntent), string(p.InternetAccess), string(p.RomanticRelationship),
		p.FamilyRelationship, p.FreeTime, p.GoingOut, p.WorkdayAlcohol, p.WeekendAlcohol, p.Health,
		p.Absences, p.G1, p.G2,
	}
}

// Values returns the profile keyed by column name.
func (p Profile) Values() map[string]any {
	cols := Columns()
	row := p.Row()
	out := make(map[string]any, len(cols))
	for i, c := range cols {
		out[c] = row[i]
	}
	return out
}

// Input returns p as a fully populated Input, for editing and re-validation.
func (p Profile) Input() Input {
	return Input{
		School:       ptr(p.School),
		Sex:          ptr(p.Sex),
		Age:          ptr(p.Age),
		Address:      ptr(p.Address),
		FamilySize:   ptr(p.FamilySize),
		ParentStatus: ptr(p.ParentStatus),

		MotherEducation: ptr(p.MotherEducation),
		FatherEducation: ptr(p.FatherEducation),
		MotherJob:       ptr(p.MotherJob),
		FatherJob:       ptr(p.FatherJob),

		Reason:     ptr(p.Reason),
		Guardian:   ptr(p.Guardian),
		TravelTime: ptr(p.TravelTime),
		StudyTime:  ptr(p.StudyTime),
		Failures:   ptr(p.Failures),

		SchoolSupport:         ptr(p.SchoolSupport),
		FamilySupport:         ptr(p.FamilySupport),
		PaidClasses:           ptr(p.PaidClasses),
		Activities:            ptr(p.Activities),
		Nursery:               ptr(p.Nursery),
		HigherEducationIntent: ptr(p.HigherEducationIntent),
		InternetAccess:        ptr(p.InternetAccess),
		RomanticRelationship:  ptr(p.RomanticRelationship),

		FamilyRelationship: ptr(p.FamilyRelationship),
		FreeTime:           ptr(p.FreeTime),
		GoingOut:           ptr(p.GoingOut),
		WorkdayAlcohol:     ptr(p.WorkdayAlcohol),
		WeekendAlcohol:     ptr(p.WeekendAlcohol),
		Health:             ptr(p.Health),

		Absences: ptr(p.Absences),
		G1:       ptr(p.G1),
		G2:       ptr(p.G2),
	}
}

// Example returns a well-rounded profile that triggers none of the
// advisory conditions. `gradepath fields --example` prints it as a template.
func Example() Profile {
	return Profile{
		School: SchoolGP, Sex: SexFemale, Age: 17, Address: AddressUrban,
		FamilySize: FamilyOver3, ParentStatus: ParentsTogether,

		MotherEducation: 3, FatherEducation: 2,
		MotherJob: JobServices, FatherJob: JobOther,

		Reason: ReasonCourse, Guardian: GuardianMother,
		TravelTime: 1, StudyTime: 3, Failures: 0,

		SchoolSupport: No, FamilySupport: Yes, PaidClasses: No, Activities: Yes,
		Nursery: Yes, HigherEducationIntent: Yes, InternetAccess: Yes, RomanticRelationship: No,

		FamilyRelationship: 4, FreeTime: 3, GoingOut: 3,
		WorkdayAlcohol: 1, WeekendAlcohol: 2, Health: 4,

		Absences: 4, G1: 13, G2: 14,
	}
}

func ptr[T any](v T) *T { return &v }
