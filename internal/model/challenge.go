package model

import "time"

// ChallengeType identifies one of the daily challenge variants.
type ChallengeType string

const (
	ChallengeCompleteTasks ChallengeType = "completeTasks"
	ChallengeEarlyBird     ChallengeType = "earlyBird"
	ChallengeNightOwl      ChallengeType = "nightOwl"
	ChallengeStreakKeeper  ChallengeType = "streakKeeper"
	ChallengeCategoryFocus ChallengeType = "categoryFocus"
	ChallengeAllDone       ChallengeType = "allDone"
)

// ChallengeRotation is the fixed order daily challenges are drawn from.
var ChallengeRotation = []ChallengeType{
	ChallengeCompleteTasks,
	ChallengeEarlyBird,
	ChallengeNightOwl,
	ChallengeStreakKeeper,
	ChallengeCategoryFocus,
	ChallengeAllDone,
}

// Title is the short label shown for the challenge.
func (c ChallengeType) Title() string {
	switch c {
	case ChallengeCompleteTasks:
		return "Triple Threat"
	case ChallengeEarlyBird:
		return "Early Bird"
	case ChallengeNightOwl:
		return "Night Owl"
	case ChallengeStreakKeeper:
		return "Streak Keeper"
	case ChallengeCategoryFocus:
		return "Focused"
	case ChallengeAllDone:
		return "Clean Slate"
	default:
		return string(c)
	}
}

func (c ChallengeType) Description() string {
	switch c {
	case ChallengeCompleteTasks:
		return "Complete 3 tasks today"
	case ChallengeEarlyBird:
		return "Complete a task before 9 AM"
	case ChallengeNightOwl:
		return "Complete a task after 8 PM"
	case ChallengeStreakKeeper:
		return "Keep your streak alive today"
	case ChallengeCategoryFocus:
		return "Complete 2 tasks in the same category"
	case ChallengeAllDone:
		return "Finish every task planned for today"
	default:
		return ""
	}
}

func (c ChallengeType) Icon() string {
	switch c {
	case ChallengeCompleteTasks:
		return "🎯"
	case ChallengeEarlyBird:
		return "🌅"
	case ChallengeNightOwl:
		return "🦉"
	case ChallengeStreakKeeper:
		return "🔥"
	case ChallengeCategoryFocus:
		return "🗂"
	case ChallengeAllDone:
		return "✨"
	default:
		return "⭐"
	}
}

// Target is the progress value at which the challenge counts as done.
func (c ChallengeType) Target() int {
	switch c {
	case ChallengeCompleteTasks:
		return 3
	case ChallengeCategoryFocus:
		return 2
	default:
		return 1
	}
}

// DailyChallenge is the single active goal for one calendar day.
type DailyChallenge struct {
	Type        ChallengeType `json:"type"`
	Date        time.Time     `json:"date"`
	Completed   bool          `json:"completed"`
	Progress    int           `json:"progress"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}
