package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"momentum/internal/config"
	"momentum/internal/engagement"
	"momentum/internal/model"
	"momentum/internal/service"
)

const (
	cbDonePrefix    = "done:"
	cbUndoPrefix    = "undo:"
	cbDeletePrefix  = "delete:"
	cbSuggestPrefix = "suggest:"
)

type confirmationRequest struct {
	taskID string
}

// Bot aggregates Telegram API with services. It serves a single owner chat.
type Bot struct {
	api         *tgbotapi.BotAPI
	planner     *service.PlannerService
	premium     *service.EntitlementService
	log         *slog.Logger
	ownerChatID int64
	loc         *time.Location

	mu           sync.Mutex
	conversation *conversationState
	confirmation *confirmationRequest
}

func New(cfg config.Config, loc *time.Location, planner *service.PlannerService, premium *service.EntitlementService, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:         api,
		planner:     planner,
		premium:     premium,
		log:         log,
		ownerChatID: cfg.OwnerChatID,
		loc:         loc,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error("handle callback", "error", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error("handle message", "error", err)
			}
		}
	}

	return nil
}

// Send delivers a message to the owner. It implements service.Sender.
func (b *Bot) Send(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(b.ownerChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

// SendDailyReport sends the morning summary to the owner.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	now := b.now()
	if err := b.Send(ctx, formatDailyReport(b.planner.Dashboard(now), now)); err != nil {
		return fmt.Errorf("send daily report: %w", err)
	}
	b.log.Info("daily report sent")
	return nil
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}

func (b *Bot) isOwner(chatID int64) bool {
	return chatID == b.ownerChatID
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !b.isOwner(msg.Chat.ID) {
		b.log.Warn("message from unknown chat", "chat", msg.Chat.ID)
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔒 This planner is private.", tgbotapi.NewRemoveKeyboard(true))
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation()
		b.clearConfirmation()
		return b.sendText(msg.Chat.ID, "⏪ Stopped. Pick something from the menu.")
	}

	if msg.IsCommand() {
		b.log.Debug("command", "name", msg.Command(), "args", msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if req := b.getConfirmation(); req != nil {
		return b.handleConfirmationResponse(ctx, msg, *req)
	}

	if b.getConversation() != nil {
		return b.handleConversation(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I didn't get that. Send /newtask to add a task or /help for the list of commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(chatID)
	case "newtask":
		b.clearConfirmation()
		return b.startNewTaskConversation(chatID, service.TaskInput{})
	case "tasks":
		return b.sendTaskList(chatID)
	case "done":
		return b.handleSetCompleted(ctx, chatID, args, true)
	case "undo":
		return b.handleSetCompleted(ctx, chatID, args, false)
	case "delete":
		return b.handleDelete(chatID, args)
	case "edit":
		return b.handleEdit(ctx, chatID, args)
	case "categories":
		return b.reply(chatID, formatCategories(b.planner.Categories(), b.planner.Tasks()))
	case "newcategory":
		return b.handleNewCategory(ctx, chatID, args)
	case "delcategory":
		return b.handleDeleteCategory(ctx, chatID, args)
	case "stats":
		return b.reply(chatID, formatStats(b.planner.Insights(b.now()), b.planner.Settings()))
	case "streak":
		now := b.now()
		s := b.planner.Settings()
		return b.reply(chatID, formatStreak(s, engagement.Status(s, now)))
	case "achievements":
		return b.reply(chatID, formatAchievements(engagement.Progress(b.planner.Settings())))
	case "challenge":
		d := b.planner.Dashboard(b.now())
		return b.reply(chatID, formatChallenge(d.Challenge, d.Settings.TotalChallengesCompleted))
	case "suggest":
		return b.sendSuggestions(chatID)
	case "report":
		return b.SendDailyReport(ctx)
	case "premium":
		return b.handlePremium(ctx, chatID)
	case "restore":
		state, unlocked := b.premium.Restore(ctx, b.now())
		return b.reply(chatID, formatPurchase(state, b.planner.Settings())+formatUnlocked(unlocked))
	case "notifications":
		return b.handleNotifications(ctx, chatID, args)
	case "dismiss":
		b.planner.DismissNotice()
		return b.sendText(chatID, "👌 Dismissed.")
	case "cancel":
		b.clearConversation()
		b.clearConfirmation()
		return b.sendText(chatID, "⏪ Stopped.")
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I keep your tasks and your streak.</b>\n"+
			"Complete at least one task a day to grow the streak, unlock achievements and beat the daily challenge.\n\n"+
			"Start with /newtask or open /help.",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /newtask — add a task step by step\n" +
		"• /tasks — open tasks and today's completions\n" +
		"• /done &lt;n&gt; · /undo &lt;n&gt; — complete or reopen task n\n" +
		"• /delete &lt;n&gt; — delete task n\n" +
		"• /edit &lt;n&gt; &lt;field&gt; &lt;value&gt; — change title, notes, due, reminder, priority or category\n" +
		"• /categories · /newcategory &lt;name&gt; · /delcategory &lt;n&gt;\n" +
		"• /streak · /achievements · /challenge · /stats\n" +
		"• /suggest — tasks you usually add on this weekday\n" +
		"• /report — today's summary\n" +
		"• /notifications on|off — reminders\n" +
		"• /premium · /restore — streak freezes\n" +
		"• /dismiss — hide the storage warning\n" +
		"• /cancel — stop the current dialog"
	return b.sendText(chatID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	chatID := msg.Chat.ID
	switch strings.TrimSpace(msg.Text) {
	case menuLabelNewTask:
		return true, b.startNewTaskConversation(chatID, service.TaskInput{})
	case menuLabelTasks:
		return true, b.sendTaskList(chatID)
	case menuLabelStreak:
		s := b.planner.Settings()
		return true, b.reply(chatID, formatStreak(s, engagement.Status(s, b.now())))
	case menuLabelChallenge:
		d := b.planner.Dashboard(b.now())
		return true, b.reply(chatID, formatChallenge(d.Challenge, d.Settings.TotalChallengesCompleted))
	case menuLabelStats:
		return true, b.reply(chatID, formatStats(b.planner.Insights(b.now()), b.planner.Settings()))
	case menuLabelHelp:
		return true, b.handleHelp(chatID)
	default:
		return false, nil
	}
}

// taskByNumber resolves a 1-based position in the /tasks listing.
func (b *Bot) taskByNumber(args string) (model.Task, error) {
	tasks := b.planner.Tasks()
	idx, err := parseNumber(args, len(tasks))
	if err != nil {
		return model.Task{}, err
	}
	return tasks[idx], nil
}

func (b *Bot) handleSetCompleted(ctx context.Context, chatID int64, args string, done bool) error {
	task, err := b.taskByNumber(args)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Give the task number from /tasks, e.g. /done 2. (%s)", escape(err.Error())))
	}
	return b.setCompletedAndRefresh(ctx, chatID, task.ID, done)
}

func (b *Bot) setCompletedAndRefresh(ctx context.Context, chatID int64, taskID string, done bool) error {
	task, err := b.planner.Task(taskID)
	if err != nil {
		return b.sendText(chatID, "Task not found or already deleted.")
	}
	if task.Completed == done {
		if done {
			return b.sendText(chatID, "That task is already done.")
		}
		return b.sendText(chatID, "That task is already open.")
	}

	out, err := b.planner.SetCompleted(ctx, taskID, done, b.now())
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	text := fmt.Sprintf("↩️ «%s» is open again.", escape(normalizeTitle(out.Task.Title)))
	if done {
		text = formatCompletion(out, b.planner.Settings())
	}
	if err := b.reply(chatID, text); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}

func (b *Bot) handleDelete(chatID int64, args string) error {
	task, err := b.taskByNumber(args)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Give the task number from /tasks, e.g. /delete 2. (%s)", escape(err.Error())))
	}
	return b.askDeleteConfirmation(chatID, task)
}

func (b *Bot) askDeleteConfirmation(chatID int64, task model.Task) error {
	b.clearConversation()
	b.setConfirmation(&confirmationRequest{taskID: task.ID})
	text := fmt.Sprintf("Delete «%s»?", escape(normalizeTitle(task.Title)))
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation()
		return b.deleteTaskAndRefresh(ctx, msg.Chat.ID, req.taskID)
	case isCancelInput(text):
		b.clearConfirmation()
		return b.sendText(msg.Chat.ID, "Kept it.")
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirm or cancel the deletion.", confirmKeyboard())
	}
}

func (b *Bot) deleteTaskAndRefresh(ctx context.Context, chatID int64, taskID string) error {
	task, err := b.planner.Task(taskID)
	if err != nil {
		return b.sendText(chatID, "Task not found or already deleted.")
	}
	if err := b.planner.DeleteTask(ctx, taskID); err != nil {
		return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	if err := b.reply(chatID, fmt.Sprintf("🗑 «%s» deleted.", escape(normalizeTitle(task.Title)))); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}

// handleEdit changes one field: /edit <n> <field> <value>. A value of "-"
// clears optional fields.
func (b *Bot) handleEdit(ctx context.Context, chatID int64, args string) error {
	const usage = "Usage: /edit &lt;n&gt; &lt;title|notes|due|reminder|priority|category&gt; &lt;value&gt;"

	parts := strings.SplitN(args, " ", 3)
	if len(parts) < 3 {
		return b.sendText(chatID, usage)
	}
	task, err := b.taskByNumber(parts[0])
	if err != nil {
		return b.sendText(chatID, usage)
	}
	field := strings.ToLower(parts[1])
	value := strings.TrimSpace(parts[2])
	unset := value == "-"
	now := b.now()

	in := service.TaskInput{
		Title:      task.Title,
		Notes:      task.Notes,
		DueDate:    task.DueDate,
		Reminder:   task.Reminder,
		CategoryID: task.CategoryID,
		Icon:       task.Icon,
		Priority:   task.Priority,
	}

	switch field {
	case "title":
		in.Title = value
	case "notes":
		in.Notes = value
		if unset {
			in.Notes = ""
		}
	case "due":
		in.DueDate = nil
		if !unset {
			day, err := parseDay(value, now)
			if err != nil {
				return b.sendText(chatID, "Use <code>2025-11-30</code>, today or tomorrow.")
			}
			in.DueDate = &day
		}
	case "reminder":
		in.Reminder = nil
		if !unset {
			at, err := parseReminder(value, in.DueDate, now)
			if err != nil || !at.After(now) {
				return b.sendText(chatID, "Use a future <code>HH:MM</code> or <code>2025-11-30 09:00</code>.")
			}
			in.Reminder = &at
		}
	case "priority":
		p, err := parsePriority(value)
		if err != nil {
			return b.sendText(chatID, "Priority is low, medium or high.")
		}
		in.Priority = p
	case "category":
		in.CategoryID = nil
		if !unset {
			category, _, err := b.planner.CreateCategory(ctx, service.CategoryInput{Name: value})
			if err != nil {
				return b.sendText(chatID, escape(err.Error()))
			}
			in.CategoryID = &category.ID
		}
	case "icon":
		in.Icon = value
		if unset {
			in.Icon = ""
		}
	default:
		return b.sendText(chatID, usage)
	}

	updated, err := b.planner.UpdateTask(ctx, task.ID, in, now)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't update the task: %s", escape(err.Error())))
	}
	b.log.Debug("task edited", "id", updated.ID, "field", field)
	return b.reply(chatID, fmt.Sprintf("✏️ «%s» updated.", escape(normalizeTitle(updated.Title))))
}

func (b *Bot) handleNewCategory(ctx context.Context, chatID int64, name string) error {
	category, unlocked, err := b.planner.CreateCategory(ctx, service.CategoryInput{Name: name})
	if err != nil {
		if errors.Is(err, service.ErrInvalidName) {
			return b.sendText(chatID, "Give the category a name: /newcategory Work")
		}
		return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	return b.reply(chatID, fmt.Sprintf("📂 Category %s is ready.", categoryLabel(&category))+formatUnlocked(unlocked))
}

func (b *Bot) handleDeleteCategory(ctx context.Context, chatID int64, args string) error {
	categories := b.planner.Categories()
	idx, err := parseNumber(args, len(categories))
	if err != nil {
		return b.sendText(chatID, "Give the category number from /categories, e.g. /delcategory 1.")
	}
	category := categories[idx]
	detached, err := b.planner.DeleteCategory(ctx, category.ID)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	return b.reply(chatID, fmt.Sprintf("🗑 Category %s deleted. %d task(s) kept without a category.", categoryLabel(&category), detached))
}

func (b *Bot) handlePremium(ctx context.Context, chatID int64) error {
	s := b.planner.Settings()
	if s.IsPremium {
		return b.reply(chatID, formatPurchase(model.PurchaseState{Kind: model.PurchaseIdle}, s))
	}
	state, unlocked := b.premium.Purchase(ctx, b.now())
	return b.reply(chatID, formatPurchase(state, b.planner.Settings())+formatUnlocked(unlocked))
}

func (b *Bot) handleNotifications(ctx context.Context, chatID int64, args string) error {
	switch strings.ToLower(args) {
	case "on":
		b.planner.SetNotificationsEnabled(ctx, true, b.now())
		return b.reply(chatID, "🔔 Reminders are on.")
	case "off":
		b.planner.SetNotificationsEnabled(ctx, false, b.now())
		return b.reply(chatID, "🔕 Reminders are off.")
	default:
		state := "on"
		if !b.planner.Settings().NotificationsEnabled {
			state = "off"
		}
		return b.sendText(chatID, fmt.Sprintf("Reminders are %s. Use /notifications on|off.", state))
	}
}

func (b *Bot) sendTaskList(chatID int64) error {
	tasks := b.planner.Tasks()
	now := b.now()

	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, t := range tasks {
		switch {
		case !t.Completed:
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ %d · %s", i+1, shortTitle(t.Title, titleButtons)), cbDonePrefix+t.ID),
				tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+t.ID),
			))
		case engagement.CompletedToday(t, now):
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("↩️ %d · %s", i+1, shortTitle(t.Title, titleButtons)), cbUndoPrefix+t.ID),
			))
		}
	}

	msg := tgbotapi.NewMessage(chatID, withNotice(formatTaskList(tasks, b.planner.Categories(), now), b.planner.Notice()))
	msg.ParseMode = tgbotapi.ModeHTML
	if len(buttons) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendSuggestions(chatID int64) error {
	suggestions := b.planner.Suggestions(b.now())

	msg := tgbotapi.NewMessage(chatID, formatSuggestions(suggestions))
	msg.ParseMode = tgbotapi.ModeHTML
	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, s := range suggestions {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+shortTitle(s.Title, titleButtons), cbSuggestPrefix+strconv.Itoa(i)),
		))
	}
	if len(buttons) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack", "error", err)
	}

	chatID := cb.Message.Chat.ID
	if !b.isOwner(chatID) {
		return nil
	}

	data := cb.Data
	b.log.Debug("callback", "data", data)

	switch {
	case strings.HasPrefix(data, cbDonePrefix):
		return b.setCompletedAndRefresh(ctx, chatID, strings.TrimPrefix(data, cbDonePrefix), true)
	case strings.HasPrefix(data, cbUndoPrefix):
		return b.setCompletedAndRefresh(ctx, chatID, strings.TrimPrefix(data, cbUndoPrefix), false)
	case strings.HasPrefix(data, cbDeletePrefix):
		task, err := b.planner.Task(strings.TrimPrefix(data, cbDeletePrefix))
		if err != nil {
			return b.sendText(chatID, "Task not found or already deleted.")
		}
		return b.askDeleteConfirmation(chatID, task)
	case strings.HasPrefix(data, cbSuggestPrefix):
		return b.acceptSuggestion(ctx, chatID, strings.TrimPrefix(data, cbSuggestPrefix))
	default:
		return nil
	}
}

// acceptSuggestion adds a title suggestion directly and opens the new task
// dialog for a category suggestion.
func (b *Bot) acceptSuggestion(ctx context.Context, chatID int64, raw string) error {
	suggestions := b.planner.Suggestions(b.now())
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= len(suggestions) {
		return b.sendText(chatID, "That suggestion is no longer available. See /suggest.")
	}

	s := suggestions[idx]
	if s.Kind == engagement.SuggestCategory {
		return b.startNewTaskConversation(chatID, service.TaskInput{CategoryID: s.CategoryID})
	}
	return b.finishTaskCreation(ctx, chatID, service.TaskInput{Title: s.Title})
}

// reply sends text and appends the pending storage notice, if any.
func (b *Bot) reply(chatID int64, text string) error {
	return b.sendText(chatID, withNotice(text, b.planner.Notice()))
}

func withNotice(text, notice string) string {
	if notice == "" {
		return text
	}
	return text + "\n\n⚠️ " + escape(notice) + " /dismiss"
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) getConfirmation() *confirmationRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.confirmation
}

func (b *Bot) setConfirmation(req *confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmation = req
}

func (b *Bot) clearConfirmation() {
	b.setConfirmation(nil)
}

func (b *Bot) setConversation(state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversation = state
}

func (b *Bot) getConversation() *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversation
}

func (b *Bot) clearConversation() {
	b.setConversation(nil)
}
