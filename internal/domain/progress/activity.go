package progress

import (
	"fmt"
	"strings"
)

// Activity is the kind of learning event a client reports.
type Activity string

const (
	ActivityExplain    Activity = "explain"
	ActivityDeep       Activity = "deep"
	ActivityReferences Activity = "references"
	ActivityQuiz       Activity = "quiz"
	ActivityLab        Activity = "lab"
	ActivityQuestion   Activity = "question"
)

func ParseActivity(s string) (Activity, error) {
	a := Activity(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActivityExplain, ActivityDeep, ActivityReferences, ActivityQuiz, ActivityLab, ActivityQuestion:
		return a, nil
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

// Achievement codes.
const (
	AchievementFirstSteps    = "first_steps"
	AchievementQuizMaster    = "quiz_master"
	AchievementExplorer      = "explorer"
	AchievementPerfectionist = "perfectionist"
	AchievementStreakKeeper  = "streak_keeper"
)
