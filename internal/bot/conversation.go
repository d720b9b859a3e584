package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"momentum/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageNotes
	stageCategory
	stageDueDate
	stageReminder
	stagePriority
)

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

func (b *Bot) startNewTaskConversation(chatID int64, preset service.TaskInput) error {
	b.log.Debug("start new task conversation")
	b.setConversation(&conversationState{stage: stageTitle, input: preset})
	if preset.Title != "" {
		return b.advanceFromTitle(chatID)
	}
	return b.sendWithReplyMarkup(chatID, "🆕 New task.\n<b>Step 1:</b> what should it be called?", cancelKeyboard())
}

func (b *Bot) advanceFromTitle(chatID int64) error {
	state := b.getConversation()
	state.stage = stageNotes
	return b.sendWithReplyMarkup(chatID, "✏️ Add a short note (or tap Skip).", skipKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation()
	if state == nil {
		return nil
	}

	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	now := b.now()

	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The title can't be empty. What should the task be called?", cancelKeyboard())
		}
		state.input.Title = text
		return b.advanceFromTitle(chatID)

	case stageNotes:
		if !isSkipInput(text) {
			state.input.Notes = text
		}
		categories := b.planner.Categories()
		if state.input.CategoryID != nil {
			state.stage = stageDueDate
			return b.sendWithReplyMarkup(chatID, dueDatePrompt, dueKeyboard())
		}
		state.stage = stageCategory
		return b.sendWithReplyMarkup(chatID, "🏷 Pick a category or type a new one (or Skip).", categoryKeyboard(categories))

	case stageCategory:
		if !isSkipInput(text) {
			category, unlocked, err := b.planner.CreateCategory(ctx, service.CategoryInput{Name: text})
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "That name doesn't work. Type a category or Skip.", categoryKeyboard(b.planner.Categories()))
			}
			state.input.CategoryID = &category.ID
			if len(unlocked) > 0 {
				if err := b.sendText(chatID, strings.TrimSpace(formatUnlocked(unlocked))); err != nil {
					return err
				}
			}
		}
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(chatID, dueDatePrompt, dueKeyboard())

	case stageDueDate:
		if !isSkipInput(text) {
			day, err := parseDay(text, now)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "I can't read that date. Use <code>2025-11-30</code>, Today, Tomorrow or Skip.", dueKeyboard())
			}
			state.input.DueDate = &day
		}
		state.stage = stageReminder
		return b.sendWithReplyMarkup(chatID, "🔔 Remind you at <code>HH:MM</code> (on the due day, or today) or <code>2025-11-30 09:00</code>? Or Skip.", skipKeyboard())

	case stageReminder:
		if !isSkipInput(text) {
			at, err := parseReminder(text, state.input.DueDate, now)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "I can't read that time. Use <code>09:30</code> or Skip.", skipKeyboard())
			}
			if !at.After(now) {
				return b.sendWithReplyMarkup(chatID, "That time has already passed. Pick a later one or Skip.", skipKeyboard())
			}
			state.input.Reminder = &at
		}
		state.stage = stagePriority
		return b.sendWithReplyMarkup(chatID, "⚖️ How important is it?", priorityKeyboard())

	case stagePriority:
		if !isSkipInput(text) {
			p, err := parsePriority(text)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Pick Low, Medium or High.", priorityKeyboard())
			}
			state.input.Priority = p
		}
		b.clearConversation()
		return b.finishTaskCreation(ctx, chatID, state.input)

	default:
		b.clearConversation()
		return b.sendText(chatID, "The dialog was reset. Try again with /newtask.")
	}
}

const dueDatePrompt = "📅 When is it due? Send <code>2025-11-30</code>, Today, Tomorrow or Skip."

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, input service.TaskInput) error {
	now := b.now()
	task, err := b.planner.CreateTask(ctx, input, now)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't save the task: %s", escape(err.Error())))
	}

	cats := categoryIndex(b.planner.Categories())
	msg := tgbotapi.NewMessage(chatID, formatCreated(task, cats, now))
	msg.ReplyMarkup = mainMenuKeyboard()
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}
