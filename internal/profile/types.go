package profile

// School identifies the student's school.
type School string

const (
	SchoolGP School = "GP"
	SchoolMS School = "MS"
)

// Sex is the student's sex as recorded in the dataset.
type Sex string

const (
	SexFemale Sex = "F"
	SexMale   Sex = "M"
)

// Address is the home address type.
type Address string

const (
	AddressUrban Address = "U"
	AddressRural Address = "R"
)

// FamilySize buckets the number of family members.
type FamilySize string

const (
	FamilyUpTo3 FamilySize = "LE3"
	FamilyOver3 FamilySize = "GT3"
)

// ParentStatus is the parents' cohabitation status.
type ParentStatus string

const (
	ParentsTogether ParentStatus = "T"
	ParentsApart    ParentStatus = "A"
)

// Job is a parent's occupation.
type Job string

const (
	JobTeacher  Job = "teacher"
	JobHealth   Job = "health"
	JobServices Job = "services"
	JobAtHome   Job = "at_home"
	JobOther    Job = "other"
)

// Reason is why the school was chosen.
type Reason string

const (
	ReasonHome       Reason = "home"
	ReasonReputation Reason = "reputation"
	ReasonCourse     Reason = "course"
	ReasonOther      Reason = "other"
)

// Guardian is the student's legal guardian.
type Guardian string

const (
	GuardianMother Guardian = "mother"
	GuardianFather Guardian = "father"
	GuardianOther  Guardian = "other"
)

// YesNo is a binary support/lifestyle flag.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)
