package bot

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"

	"momentum/internal/engagement"
	"momentum/internal/model"
	"momentum/internal/service"
)

const (
	iconDefault  = "🟢"
	iconDue      = "⏳"
	iconOverdue  = "⚠️"
	iconDone     = "✅"
	iconLocked   = "🔒"
	noCategory   = "No category"
	dateLayout   = "2006-01-02"
	clockLayout  = "15:04"
	barFull      = "█"
	barWidth     = 10
	titleButtons = 24
)

func escape(s string) string {
	return html.EscapeString(s)
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func categoryLabel(c *model.Category) string {
	if c == nil {
		return "📁 " + noCategory
	}
	icon := strings.TrimSpace(c.Icon)
	if icon == "" {
		icon = "🏷️"
	}
	return fmt.Sprintf("%s %s", icon, escape(normalizeTitle(c.Name)))
}

func categoryIndex(categories []model.Category) map[string]*model.Category {
	out := make(map[string]*model.Category, len(categories))
	for i := range categories {
		out[categories[i].ID] = &categories[i]
	}
	return out
}

func priorityMark(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "‼️ "
	case model.PriorityLow:
		return "▫️ "
	default:
		return ""
	}
}

// formatTask renders one numbered task line with its due date and notes.
func formatTask(n int, task model.Task, cats map[string]*model.Category, now time.Time) string {
	var b strings.Builder

	icon := iconDefault
	switch {
	case task.Completed:
		icon = iconDone
	case task.DueDate != nil:
		switch gap := engagement.DaysBetween(*task.DueDate, now); {
		case gap > 0:
			icon = iconOverdue
		case gap >= -1:
			icon = iconDue
		}
	}
	if task.Icon != "" {
		icon = task.Icon
	}

	b.WriteString(fmt.Sprintf("%s <b>%d.</b> %s%s", icon, n, priorityMark(task.Priority), escape(normalizeTitle(task.Title))))
	if task.CategoryID != nil {
		if c, ok := cats[*task.CategoryID]; ok {
			b.WriteString(fmt.Sprintf(" <i>(%s)</i>", escape(strings.TrimSpace(c.Name))))
		}
	}
	b.WriteByte('\n')

	if task.DueDate != nil && !task.Completed {
		d := task.DueDate.In(now.Location())
		switch gap := engagement.DaysBetween(d, now); {
		case gap > 0:
			b.WriteString(fmt.Sprintf("   ⏰ Due %s · <b>overdue</b>\n", d.Format(dateLayout)))
		case gap == 0:
			b.WriteString("   ⏰ Due <b>today</b>\n")
		default:
			b.WriteString(fmt.Sprintf("   ⏰ Due %s · in %d d.\n", d.Format(dateLayout), -gap))
		}
	}
	if task.Reminder != nil && !task.Completed && task.Reminder.After(now) {
		b.WriteString(fmt.Sprintf("   🔔 %s\n", task.Reminder.In(now.Location()).Format(dateLayout+" "+clockLayout)))
	}
	if task.Notes != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(task.Notes)))
	}
	return b.String()
}

// formatTaskList renders open tasks and the ones completed today. Numbers are
// positions in tasks, which is the order commands refer to.
func formatTaskList(tasks []model.Task, categories []model.Category, now time.Time) string {
	cats := categoryIndex(categories)

	var open, done strings.Builder
	for i, t := range tasks {
		switch {
		case !t.Completed:
			open.WriteString(formatTask(i+1, t, cats, now))
		case engagement.CompletedToday(t, now):
			done.WriteString(formatTask(i+1, t, cats, now))
		}
	}
	if open.Len() == 0 && done.Len() == 0 {
		return "You have no open tasks. Add one with /newtask."
	}

	var b strings.Builder
	b.WriteString("📋 <b>Tasks</b>\n")
	if open.Len() == 0 {
		b.WriteString("Everything is done. 🎉\n")
	}
	b.WriteString(open.String())
	if done.Len() > 0 {
		b.WriteString("\n<b>Done today</b>\n")
		b.WriteString(done.String())
	}
	b.WriteString("\nUse /done &lt;n&gt;, /undo &lt;n&gt; or /delete &lt;n&gt;.")
	return b.String()
}

func formatCategories(categories []model.Category, tasks []model.Task) string {
	if len(categories) == 0 {
		return "No categories yet. Create one with /newcategory &lt;name&gt;."
	}
	counts := make(map[string]int)
	for _, t := range tasks {
		if t.CategoryID != nil && !t.Completed {
			counts[*t.CategoryID]++
		}
	}

	var b strings.Builder
	b.WriteString("📂 <b>Categories</b>\n")
	for i := range categories {
		c := &categories[i]
		b.WriteString(fmt.Sprintf("<b>%d.</b> %s · %d open\n", i+1, categoryLabel(c), counts[c.ID]))
	}
	return strings.TrimSpace(b.String())
}

func formatCreated(task model.Task, cats map[string]*model.Category, now time.Time) string {
	var b strings.Builder
	b.WriteString("✅ <b>Task saved</b>\n")
	b.WriteString(fmt.Sprintf("• <b>Title:</b> %s\n", escape(normalizeTitle(task.Title))))
	if task.Notes != "" {
		b.WriteString(fmt.Sprintf("• <b>Notes:</b> %s\n", escape(task.Notes)))
	}
	if task.CategoryID != nil {
		b.WriteString(fmt.Sprintf("• <b>Category:</b> %s\n", categoryLabel(cats[*task.CategoryID])))
	}
	if task.DueDate != nil {
		b.WriteString(fmt.Sprintf("• <b>Due:</b> %s\n", task.DueDate.In(now.Location()).Format(dateLayout)))
	}
	if task.Reminder != nil {
		b.WriteString(fmt.Sprintf("• <b>Reminder:</b> %s\n", task.Reminder.In(now.Location()).Format(dateLayout+" "+clockLayout)))
	}
	b.WriteString(fmt.Sprintf("• <b>Priority:</b> %s\n", priorityName(task.Priority)))
	return strings.TrimSpace(b.String())
}

func priorityName(p model.Priority) string {
	switch p {
	case model.PriorityLow:
		return "low"
	case model.PriorityHigh:
		return "high"
	default:
		return "medium"
	}
}

// formatCompletion announces a completed task and everything it unlocked.
func formatCompletion(out service.CompletionOutcome, s model.Settings) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ «%s» done.", escape(normalizeTitle(out.Task.Title))))
	if s.CurrentStreak > 0 {
		b.WriteString(fmt.Sprintf(" 🔥 Streak: %d", s.CurrentStreak))
	}
	for _, a := range out.NewAchievements {
		b.WriteString(fmt.Sprintf("\n🏆 Achievement unlocked: %s <b>%s</b> · %s", a.Icon, escape(a.Name), escape(a.Description)))
	}
	if out.ChallengeCompleted && s.CurrentChallenge != nil {
		b.WriteString(fmt.Sprintf("\n🎯 Daily challenge complete: <b>%s</b>!", escape(s.CurrentChallenge.Type.Title())))
	}
	return b.String()
}

func formatUnlocked(unlocked []model.Achievement) string {
	var b strings.Builder
	for _, a := range unlocked {
		b.WriteString(fmt.Sprintf("\n🏆 Achievement unlocked: %s <b>%s</b>", a.Icon, escape(a.Name)))
	}
	return b.String()
}

func streakStatusLine(status engagement.StreakStatus) string {
	switch status {
	case engagement.StatusActive:
		return "Safe for today."
	case engagement.StatusAtRisk:
		return "Complete a task today to keep it going!"
	case engagement.StatusBroken:
		return "The streak was lost. Start a new one today."
	default:
		return "Complete a task to start a streak."
	}
}

func formatStreak(s model.Settings, status engagement.StreakStatus) string {
	var b strings.Builder
	b.WriteString("🔥 <b>Streak</b>\n")
	b.WriteString(fmt.Sprintf("Current: <b>%d</b> · Longest: %d\n", s.CurrentStreak, s.LongestStreak))
	b.WriteString(streakStatusLine(status))
	if s.IsPremium {
		b.WriteString(fmt.Sprintf("\n🧊 Freezes left this month: %d", s.FreezeCount))
	} else {
		b.WriteString("\n🧊 Streak freezes come with /premium.")
	}
	return b.String()
}

func formatAchievements(progress []engagement.AchievementProgress) string {
	unlocked := 0
	for _, p := range progress {
		if p.Unlocked {
			unlocked++
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏆 <b>Achievements</b> · %d/%d\n", unlocked, len(progress)))
	for _, p := range progress {
		a := p.Achievement
		if p.Unlocked {
			b.WriteString(fmt.Sprintf("%s <b>%s</b> · %s\n", a.Icon, escape(a.Name), escape(a.Description)))
		} else {
			b.WriteString(fmt.Sprintf("%s %s · %s\n", iconLocked, escape(a.Name), escape(a.Description)))
		}
	}
	return strings.TrimSpace(b.String())
}

func formatChallenge(c model.DailyChallenge, totalCompleted int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎯 <b>Today's challenge: %s</b> %s\n", escape(c.Type.Title()), c.Type.Icon()))
	b.WriteString(escape(c.Type.Description()))
	b.WriteByte('\n')
	if c.Completed {
		b.WriteString("✅ Completed!")
	} else {
		b.WriteString(fmt.Sprintf("Progress: %d/%d", min(c.Progress, c.Type.Target()), c.Type.Target()))
	}
	if totalCompleted > 0 {
		b.WriteString(fmt.Sprintf("\nChallenges completed so far: %d", totalCompleted))
	}
	return b.String()
}

func formatSuggestions(suggestions []engagement.Suggestion) string {
	if len(suggestions) == 0 {
		return "💡 No suggestions yet. They appear once you add similar tasks on the same weekday."
	}
	var b strings.Builder
	b.WriteString("💡 <b>Suggestions</b>\n")
	for i, s := range suggestions {
		b.WriteString(fmt.Sprintf("%d. %s\n   <i>%s</i>\n", i+1, escape(s.Title), escape(s.Reason)))
	}
	b.WriteString("Tap a button to add it.")
	return b.String()
}

// formatStats renders productivity insights with a seven day bar chart.
func formatStats(in engagement.Insights, s model.Settings) string {
	var b strings.Builder
	b.WriteString("📊 <b>Productivity</b>\n")
	b.WriteString(fmt.Sprintf("Total completed: <b>%d</b>\n", s.TotalTasksCompleted))
	b.WriteString(fmt.Sprintf("This week: %d (last week: %d)\n", in.ThisWeek, in.LastWeek))
	b.WriteString(fmt.Sprintf("This month: %d\n", in.ThisMonth))
	b.WriteString(fmt.Sprintf("Average per active day: %.1f\n", in.AveragePerActiveDay))
	if in.HasPeakHour {
		b.WriteString(fmt.Sprintf("Peak hour: %02d:00\n", in.PeakHour))
	}
	if in.HasBestWeekday {
		b.WriteString(fmt.Sprintf("Best day: %s\n", in.BestWeekday))
	}
	b.WriteString("\n<b>Last 7 days</b>\n<pre>")
	b.WriteString(barChart(in.Last7Days))
	b.WriteString("</pre>")
	return b.String()
}

func barChart(days []engagement.DayCount) string {
	peak := 0
	for _, d := range days {
		peak = max(peak, d.Count)
	}
	var b strings.Builder
	for _, d := range days {
		width := 0
		if peak > 0 {
			width = (d.Count*barWidth + peak - 1) / peak
		}
		b.WriteString(fmt.Sprintf("%s %-*s %d\n", d.Date.Format("Mon"), barWidth, strings.Repeat(barFull, width), d.Count))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPurchase(state model.PurchaseState, s model.Settings) string {
	switch state.Kind {
	case model.PurchasePurchased:
		return "⭐ Welcome to Premium! You now get 2 streak freezes every month."
	case model.PurchaseRestored:
		return "⭐ Premium restored."
	case model.PurchaseFailed:
		return "❌ " + escape(state.Message)
	case model.PurchasePurchasing:
		return "⏳ Purchase in progress…"
	default:
		if s.IsPremium {
			return fmt.Sprintf("⭐ Premium is active. Freezes left this month: %d.", s.FreezeCount)
		}
		return "Premium is not active."
	}
}

// formatDailyReport builds the morning summary.
func formatDailyReport(d service.Dashboard, now time.Time) string {
	cats := categoryIndex(d.Categories)

	var b strings.Builder
	b.WriteString("📋 <b>Daily report</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Monday, 02 Jan 2006")))

	b.WriteString(fmt.Sprintf("🔥 Streak: <b>%d</b> · %s\n", d.Settings.CurrentStreak, streakStatusLine(d.Streak)))
	c := d.Challenge
	status := fmt.Sprintf("%d/%d", min(c.Progress, c.Type.Target()), c.Type.Target())
	if c.Completed {
		status = "done"
	}
	b.WriteString(fmt.Sprintf("🎯 %s: %s (%s)\n\n", escape(c.Type.Title()), escape(c.Type.Description()), status))

	b.WriteString("⏰ <b>Due today or overdue</b>\n")
	if len(d.Due) == 0 {
		b.WriteString("— nothing due\n")
	} else {
		for i, t := range d.Due {
			b.WriteString(formatTask(i+1, t, cats, now))
		}
	}
	b.WriteString(fmt.Sprintf("\nOpen tasks: %d · done today: %d\n", d.OpenCount, d.DoneToday))

	if len(d.Suggestions) > 0 {
		b.WriteString("\n💡 <b>Suggestions</b>\n")
		for _, s := range d.Suggestions {
			b.WriteString(fmt.Sprintf("• %s\n", escape(s.Title)))
		}
		b.WriteString("Use /suggest to add them.\n")
	}
	return strings.TrimSpace(b.String())
}
