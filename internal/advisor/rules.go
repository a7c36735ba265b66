package advisor

import (
	"fmt"

	"github.com/abhisek/gradepath/internal/profile"
)

// Rule IDs, in evaluation order.
const (
	RuleAcademicPerformance  = "academic-performance"
	RuleStudyHabits          = "study-habits"
	RuleAttendance           = "attendance"
	RuleHealthLifestyle      = "health-lifestyle"
	RuleHealthWellness       = "health-wellness"
	RuleSupportSystem        = "support-system"
	RulePersonalDevelopment  = "personal-development"
	RuleWorkLifeBalance      = "work-life-balance"
	RuleAcademicRecovery     = "academic-recovery"
	RuleTimeManagement       = "time-management"
	RuleEducationalResources = "educational-resources"
	RuleFuturePlanning       = "future-planning"
	RulePositive             = "keep-up-the-great-work"
)

// Categories that other code compares against.
const (
	CategoryPositive    = "Keep Up the Great Work"
	CategoryImprovement = "Continuous Improvement"
)

// Raw-grade thresholds for the two grade-driven rules. They are compared
// against the predicted grade itself, not the tier.
const (
	FuturePlanningFrom = 12.0
	PositiveFrom       = 14.0
)

const (
	lowPriorGrade    = 12
	maxLowStudyTime  = 2
	maxAbsences      = 10
	heavyWorkdayDalc = 3
	heavyWeekendWalc = 4
	maxPoorHealth    = 2
	frequentGoingOut = 4
	manyFailures     = 2
	longTravel       = 3
)

func fixed(s string) func(Input) string {
	return func(Input) string { return s }
}

// ruleTable is never mutated; Rules hands out copies.
var ruleTable = []Rule{
	{
		ID:       RuleAcademicPerformance,
		Category: "Academic Performance",
		Icon:     "📚",
		When: func(in Input) bool {
			return in.Profile.G1 < lowPriorGrade || in.Profile.G2 < lowPriorGrade
		},
		Text: fixed("Your previous grades suggest you need to strengthen your study foundation. " +
			"Consider reviewing past topics and seeking help from teachers or tutors to improve your understanding of core concepts."),
	},
	{
		ID:       RuleStudyHabits,
		Category: "Study Habits",
		Icon:     "⏰",
		When:     func(in Input) bool { return in.Profile.StudyTime <= maxLowStudyTime },
		Text: fixed("You're spending less than 5 hours per week studying. " +
			"Research shows that increasing study time to 5-10 hours weekly can significantly improve academic performance. " +
			"Try breaking study sessions into manageable chunks."),
	},
	{
		ID:       RuleAttendance,
		Category: "Attendance",
		Icon:     "🎯",
		When:     func(in Input) bool { return in.Profile.Absences > maxAbsences },
		Text: func(in Input) string {
			return fmt.Sprintf("With %d absences, you're missing valuable classroom instruction. "+
				"Regular attendance is crucial for academic success. "+
				"Try to minimize absences and catch up on missed material promptly.", in.Profile.Absences)
		},
	},
	{
		ID:       RuleHealthLifestyle,
		Category: "Health & Lifestyle",
		Icon:     "🚨",
		When: func(in Input) bool {
			return in.Profile.WorkdayAlcohol >= heavyWorkdayDalc || in.Profile.WeekendAlcohol >= heavyWeekendWalc
		},
		Text: fixed("High alcohol consumption can significantly impact academic performance, memory, and concentration. " +
			"Consider reducing alcohol intake and exploring healthier stress-relief activities like sports or hobbies."),
	},
	{
		ID:       RuleHealthWellness,
		Category: "Health & Wellness",
		Icon:     "💪",
		When:     func(in Input) bool { return in.Profile.Health <= maxPoorHealth },
		Text: fixed("Poor health can affect your ability to learn and perform well. " +
			"Consider consulting a healthcare professional, maintaining a balanced diet, getting regular exercise, and ensuring adequate sleep."),
	},
	{
		ID:       RuleSupportSystem,
		Category: "Support System",
		Icon:     "👨‍👩‍👧‍👦",
		When:     func(in Input) bool { return in.Profile.FamilySupport == profile.No },
		Text: fixed("Family support plays a crucial role in academic success. " +
			"Consider having open conversations with family members about your educational goals and seek their encouragement and assistance."),
	},
	{
		ID:       RulePersonalDevelopment,
		Category: "Personal Development",
		Icon:     "🎨",
		When:     func(in Input) bool { return in.Profile.Activities == profile.No },
		Text: fixed("Participating in extracurricular activities can improve social skills, time management, and overall well-being, " +
			"which often translates to better academic performance. Consider joining clubs or sports teams."),
	},
	{
		ID:       RuleWorkLifeBalance,
		Category: "Work-Life Balance",
		Icon:     "⚖️",
		When:     func(in Input) bool { return in.Profile.GoingOut >= frequentGoingOut },
		Text: fixed("While social activities are important, excessive going out might impact study time and academic focus. " +
			"Try to find a healthy balance between social life and academic responsibilities."),
	},
	{
		ID:       RuleAcademicRecovery,
		Category: "Academic Recovery",
		Icon:     "🎯",
		When:     func(in Input) bool { return in.Profile.Failures >= manyFailures },
		Text: fixed("Having multiple past failures indicates need for academic strategy change. " +
			"Consider working with a counselor to identify learning challenges, develop better study methods, and create a structured academic plan."),
	},
	{
		ID:       RuleTimeManagement,
		Category: "Time Management",
		Icon:     "🚌",
		When:     func(in Input) bool { return in.Profile.TravelTime >= longTravel },
		Text: fixed("Long commute times can reduce available study time and increase fatigue. " +
			"Use travel time productively (reading, audio lessons) or consider finding study spaces closer to school."),
	},
	{
		ID:       RuleEducationalResources,
		Category: "Educational Resources",
		Icon:     "💻",
		When:     func(in Input) bool { return in.Profile.InternetAccess == profile.No },
		Text: fixed("Internet access provides valuable educational resources and research opportunities. " +
			"Consider accessing internet at libraries, school, or community centers to supplement your learning."),
	},
	{
		ID:       RuleFuturePlanning,
		Category: "Future Planning",
		Icon:     "🎓",
		When: func(in Input) bool {
			return in.Profile.HigherEducationIntent == profile.No && in.Grade >= FuturePlanningFrom
		},
		Text: fixed("Your academic potential suggests you could succeed in higher education. " +
			"Consider exploring post-secondary options, as they can significantly expand career opportunities and earning potential."),
	},
	{
		ID:       RulePositive,
		Category: CategoryPositive,
		Icon:     "🌟",
		When:     func(in Input) bool { return in.Grade >= PositiveFrom },
		Text: fixed("You're performing well academically! Continue your current study habits, maintain a balanced lifestyle, " +
			"and consider helping peers who might be struggling - teaching others can reinforce your own learning."),
	},
}

var improvement = Entry{
	Category: CategoryImprovement,
	Icon:     "📈",
	Text: "You're on a good path! Focus on maintaining consistent study habits, staying organized, and setting specific academic goals. " +
		"Regular self-assessment and seeking feedback can help you continue improving.",
}
