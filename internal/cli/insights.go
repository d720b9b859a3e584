package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"momentum/internal/config"
	"momentum/internal/engagement"
	"momentum/internal/logging"
	"momentum/internal/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func newInsightsCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Print streak, challenge and productivity insights",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			log := logging.New(cfg.LogLevel, os.Stderr)
			planner, closeDB, err := openPlanner(cmd.Context(), cfg, nil, log)
			if err != nil {
				return err
			}
			defer closeDB()

			now := time.Now().In(loc)
			renderInsights(cmd.OutOrStdout(), planner.Dashboard(now), planner.Notice(), now)
			return nil
		},
	}
}

func renderInsights(w io.Writer, d service.Dashboard, notice string, now time.Time) {
	s := d.Settings
	in := d.Insights

	row := func(label string, value any) string {
		return labelStyle.Render(fmt.Sprintf("%-22s", label)) + valueStyle.Render(fmt.Sprint(value))
	}

	streak := []string{
		titleStyle.Render("Streak"),
		row("Current", s.CurrentStreak),
		row("Longest", s.LongestStreak),
		row("Status", d.Streak),
	}
	if s.IsPremium {
		streak = append(streak, row("Freezes left", s.FreezeCount))
	}

	unlocked := 0
	for _, p := range engagement.Progress(s) {
		if p.Unlocked {
			unlocked++
		}
	}
	progress := fmt.Sprintf("%d/%d", min(d.Challenge.Progress, d.Challenge.Type.Target()), d.Challenge.Type.Target())
	if d.Challenge.Completed {
		progress = "done"
	}
	engagementLines := []string{
		titleStyle.Render("Today"),
		row("Challenge", d.Challenge.Type.Title()),
		row("Progress", progress),
		row("Open tasks", d.OpenCount),
		row("Done today", d.DoneToday),
		row("Achievements", fmt.Sprintf("%d/%d", unlocked, len(engagement.Progress(s)))),
	}

	productivity := []string{
		titleStyle.Render("Productivity"),
		row("Total completed", s.TotalTasksCompleted),
		row("This week", in.ThisWeek),
		row("Last week", in.LastWeek),
		row("This month", in.ThisMonth),
		row("Avg per active day", fmt.Sprintf("%.1f", in.AveragePerActiveDay)),
	}
	if in.HasPeakHour {
		productivity = append(productivity, row("Peak hour", fmt.Sprintf("%02d:00", in.PeakHour)))
	}
	if in.HasBestWeekday {
		productivity = append(productivity, row("Best day", in.BestWeekday))
	}

	chart := []string{titleStyle.Render("Last 7 days")}
	peak := 0
	for _, day := range in.Last7Days {
		peak = max(peak, day.Count)
	}
	for _, day := range in.Last7Days {
		width := 0
		if peak > 0 {
			width = (day.Count*20 + peak - 1) / peak
		}
		chart = append(chart, fmt.Sprintf("%s %s %d", labelStyle.Render(day.Date.Format("Mon 02")), barStyle.Render(strings.Repeat("█", width)), day.Count))
	}

	blocks := []string{
		valueStyle.Render("momentum · " + now.Format("Monday, 02 Jan 2006")),
		lipgloss.JoinHorizontal(lipgloss.Top,
			sectionStyle.Render(strings.Join(streak, "\n")),
			sectionStyle.Render(strings.Join(engagementLines, "\n")),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			sectionStyle.Render(strings.Join(productivity, "\n")),
			sectionStyle.Render(strings.Join(chart, "\n")),
		),
	}
	if len(d.Suggestions) > 0 {
		lines := []string{titleStyle.Render("Suggestions")}
		for _, sg := range d.Suggestions {
			lines = append(lines, "• "+sg.Title+labelStyle.Render("  "+sg.Reason))
		}
		blocks = append(blocks, sectionStyle.Render(strings.Join(lines, "\n")))
	}
	if notice != "" {
		blocks = append(blocks, noticeStyle.Render("⚠ "+notice))
	}

	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
}
