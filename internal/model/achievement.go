package model

// AchievementCategory groups badges on the achievements screen.
type AchievementCategory string

const (
	AchievementTasks        AchievementCategory = "tasks"
	AchievementStreaks      AchievementCategory = "streaks"
	AchievementTime         AchievementCategory = "time"
	AchievementOrganization AchievementCategory = "organization"
	AchievementPremium      AchievementCategory = "premium"
)

// Achievement is a static badge definition. Unlock state lives in Settings.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    AchievementCategory
}

const (
	AchievementFirstStep     = "first_step"
	AchievementHighFive      = "high_five"
	AchievementTaskMaster    = "task_master"
	AchievementCenturion     = "centurion"
	AchievementStreakStarter = "streak_starter"
	AchievementWeekWarrior   = "week_warrior"
	AchievementMonthlyMaster = "monthly_master"
	AchievementEarlyBird     = "early_bird"
	AchievementNightOwl      = "night_owl"
	AchievementOrganizer     = "organizer"
	AchievementPremiumMember = "premium_member"
)

// Achievements is the catalog in display order.
var Achievements = []Achievement{
	{ID: AchievementFirstStep, Name: "First Step", Description: "Complete your first task", Icon: "👣", Category: AchievementTasks},
	{ID: AchievementHighFive, Name: "High Five", Description: "Complete 5 tasks", Icon: "🖐", Category: AchievementTasks},
	{ID: AchievementTaskMaster, Name: "Task Master", Description: "Complete 25 tasks", Icon: "🏅", Category: AchievementTasks},
	{ID: AchievementCenturion, Name: "Centurion", Description: "Complete 100 tasks", Icon: "💯", Category: AchievementTasks},
	{ID: AchievementStreakStarter, Name: "Streak Starter", Description: "Reach a 3-day streak", Icon: "🔥", Category: AchievementStreaks},
	{ID: AchievementWeekWarrior, Name: "Week Warrior", Description: "Reach a 7-day streak", Icon: "⚔️", Category: AchievementStreaks},
	{ID: AchievementMonthlyMaster, Name: "Monthly Master", Description: "Reach a 30-day streak", Icon: "👑", Category: AchievementStreaks},
	{ID: AchievementEarlyBird, Name: "Early Bird", Description: "Complete a task before 8 AM", Icon: "🌅", Category: AchievementTime},
	{ID: AchievementNightOwl, Name: "Night Owl", Description: "Complete a task after 10 PM", Icon: "🦉", Category: AchievementTime},
	{ID: AchievementOrganizer, Name: "Organizer", Description: "Create more than 3 categories", Icon: "🗂", Category: AchievementOrganization},
	{ID: AchievementPremiumMember, Name: "Premium Member", Description: "Unlock premium", Icon: "💎", Category: AchievementPremium},
}

// FindAchievement looks up a catalog entry by id.
func FindAchievement(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
