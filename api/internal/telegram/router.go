package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"allkinds-bot/api/internal/matching"
	"allkinds-bot/api/internal/store"
	"allkinds-bot/api/internal/util"
)

const commandTimeout = 15 * time.Second

type Router struct {
	Bot     *tgbotapi.BotAPI
	Finder  *matching.Finder
	Store   *store.Store
	Metrics *store.MetricsRepo
	Limit   int
	Log     zerolog.Logger
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.HandleCommand(upd)
		return
	}
	// Free-form text is the chat relay's business, not this bot's.
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	log := r.Log.With().
		Str("update", uuid.NewString()).
		Int64("chat", cid).
		Str("command", upd.Message.Command()).
		Logger()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch upd.Message.Command() {
	case "start":
		r.handleStart(ctx, log, upd)
	case "health":
		r.send(cid, "✅ OK")
	case "group":
		r.handleGroup(ctx, log, upd)
	case "match":
		r.handleMatch(ctx, log, upd)
	case "connect":
		r.handleConnect(ctx, log, upd)
	case "mymatches":
		r.handleMyMatches(ctx, log, upd)
	default:
		r.send(cid, "Unknown command. Try /group <id> and /match.")
	}
}

func (r *Router) handleStart(ctx context.Context, log zerolog.Logger, upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	userID := util.GetUserIDFromTgUpdate(upd)
	if userID == nil {
		return
	}

	u := store.User{ID: *userID, IsActive: true}
	if upd.Message.From != nil && upd.Message.From.UserName != "" {
		name := upd.Message.From.UserName
		u.Username = &name
	}
	if err := r.Store.UpsertUser(ctx, u); err != nil {
		log.Error().Err(err).Msg("upsert user failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}

	r.send(cid, "Hi! I find the people in your group whose values are closest to yours.\n"+
		"Pick a group with /group <id>, then run /match.")
}

func (r *Router) handleGroup(ctx context.Context, log zerolog.Logger, upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	userID := util.GetUserIDFromTgUpdate(upd)
	if userID == nil {
		return
	}

	args := strings.Fields(strings.TrimSpace(upd.Message.CommandArguments()))
	if len(args) == 0 {
		r.send(cid, "Usage: /group <id>")
		return
	}
	gid, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		r.send(cid, "Group id must be a number. Usage: /group <id>")
		return
	}

	g, err := r.Store.FindGroupByID(ctx, gid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.send(cid, "I don't know that group.")
			return
		}
		log.Error().Err(err).Int64("group", gid).Msg("group lookup failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}

	if err := r.Store.AddGroupMember(ctx, gid, *userID); err != nil {
		log.Error().Err(err).Int64("group", gid).Msg("join group failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}
	if err := r.Store.UpsertSelection(ctx, store.GroupSelection{ChatID: cid, GroupID: gid}); err != nil {
		log.Error().Err(err).Int64("group", gid).Msg("save group selection failed")
	}

	r.send(cid, "You're in \""+g.Name+"\". Run /match when you're ready.")
}

func (r *Router) handleMatch(ctx context.Context, log zerolog.Logger, upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	userID := util.GetUserIDFromTgUpdate(upd)
	if userID == nil {
		return
	}

	sel, err := r.Store.FindSelection(ctx, cid)
	if err != nil {
		log.Error().Err(err).Msg("group selection lookup failed")
		r.send(cid, "Matching is temporarily unavailable, try again in a minute.")
		return
	}
	if sel.GroupID == 0 {
		r.send(cid, "Pick a group first: /group <id>")
		return
	}

	started := time.Now()
	results, err := r.Finder.FindMatches(ctx, *userID, sel.GroupID)
	r.recordMatchMetric(log, cid, *userID, sel.GroupID, started, len(results), err)
	if err != nil {
		log.Error().Err(err).Int64("group", sel.GroupID).Msg("find matches failed")
		r.send(cid, "Matching is temporarily unavailable, try again in a minute.")
		return
	}
	if len(results) == 0 {
		r.send(cid, "No matches found yet. Answer more questions and check back later.")
		return
	}

	r.send(cid, FormatMatches(results, r.Limit))
}

// handleConnect persists a match with a chosen partner. The match row keeps
// the pair's shared-question count and gives the anonymous chat a stable id
// that is not either user's telegram id.
func (r *Router) handleConnect(ctx context.Context, log zerolog.Logger, upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	userID := util.GetUserIDFromTgUpdate(upd)
	if userID == nil {
		return
	}

	args := strings.Fields(strings.TrimSpace(upd.Message.CommandArguments()))
	if len(args) == 0 {
		r.send(cid, "Usage: /connect <user id from /match>")
		return
	}
	partnerID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || partnerID == *userID {
		r.send(cid, "That doesn't look like a user id from /match.")
		return
	}

	sel, err := r.Store.FindSelection(ctx, cid)
	if err != nil {
		log.Error().Err(err).Msg("group selection lookup failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}
	if sel.GroupID == 0 {
		r.send(cid, "Pick a group first: /group <id>")
		return
	}

	partner, err := r.Store.FindUserByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.send(cid, "I don't know that user.")
			return
		}
		log.Error().Err(err).Int64("partner", partnerID).Msg("partner lookup failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}
	if !partner.IsActive {
		r.send(cid, "That user isn't active anymore.")
		return
	}

	if _, err := r.Store.FindMatchBetween(ctx, *userID, partnerID, sel.GroupID); err == nil {
		r.send(cid, "You're already connected with that user.")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Int64("partner", partnerID).Msg("match lookup failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}

	own, err := r.Store.UserAnswersForGroup(ctx, *userID, sel.GroupID)
	if err != nil {
		log.Error().Err(err).Msg("own answers fetch failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}
	theirs, err := r.Store.UserAnswersForGroup(ctx, partnerID, sel.GroupID)
	if err != nil {
		log.Error().Err(err).Int64("partner", partnerID).Msg("partner answers fetch failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}

	c := matching.ComputeCohesion(own, theirs, nil)
	if c.SharedCount < r.Finder.MinShared() {
		r.send(cid, "You don't share enough answered questions with that user yet.")
		return
	}

	m, err := r.Store.CreateMatch(ctx, store.Match{
		User1ID:         *userID,
		User2ID:         partnerID,
		GroupID:         sel.GroupID,
		CommonQuestions: c.SharedCount,
	})
	if err != nil {
		log.Error().Err(err).Int64("partner", partnerID).Msg("create match failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}

	log.Info().Str("match", m.ID).Int64("partner", partnerID).Msg("match created")
	r.send(cid, fmt.Sprintf("Connected! You share %d answered questions.", m.CommonQuestions))
}

func (r *Router) handleMyMatches(ctx context.Context, log zerolog.Logger, upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	userID := util.GetUserIDFromTgUpdate(upd)
	if userID == nil {
		return
	}

	matches, err := r.Store.FindMatchesForUser(ctx, *userID)
	if err != nil {
		log.Error().Err(err).Msg("matches lookup failed")
		r.send(cid, "Something went wrong, try again in a minute.")
		return
	}
	if len(matches) == 0 {
		r.send(cid, "You don't have any matches yet. Try /match.")
		return
	}

	var b strings.Builder
	b.WriteString("Your matches:\n")
	for _, m := range matches {
		other, ok := m.OtherUserID(*userID)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "• User %d: %d common questions (since %s)\n",
			other, m.CommonQuestions, m.CreatedAt.Format("2006-01-02"))
	}
	r.send(cid, b.String())
}

// recordMatchMetric is fire-and-forget; a metrics outage must not break /match.
func (r *Router) recordMatchMetric(log zerolog.Logger, chatID, userID, groupID int64, started time.Time, returned int, opErr error) {
	if r.Metrics == nil {
		return
	}
	ev := store.MetricEvent{
		Stage:      "find_matches",
		OK:         opErr == nil,
		DurationMS: time.Since(started).Milliseconds(),
		ChatID:     &chatID,
		UserID:     &userID,
		GroupID:    &groupID,
		Details:    map[string]any{"returned": returned},
	}
	if opErr != nil {
		ev.Error = opErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Metrics.InsertEvent(ctx, ev); err != nil {
		log.Debug().Err(err).Msg("metric insert failed")
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}
