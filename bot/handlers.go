/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"matchbot/api"
	"matchbot/api/shared"
	"matchbot/api/store"
)

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$cs2"):
		b.selectGameHandler(session, message, shared.GameCS2)

	case startsWith(message.Content, "$dota2"):
		b.selectGameHandler(session, message, shared.GameDota2)

	case startsWith(message.Content, "$upcoming"):
		b.upcomingHandler(session, message)

	case startsWith(message.Content, "$live"):
		b.liveHandler(session, message)

	case startsWith(message.Content, "$analytics"):
		b.analyticsHandler(session, message)

	case startsWith(message.Content, "$express"):
		b.expressHandler(session, message)

	case startsWith(message.Content, "$notify"):
		b.notifyHandler(session, message)

	case startsWith(message.Content, "$mute"):
		b.muteHandler(session, message)

	case startsWith(message.Content, "$back"):
		b.backHandler(session, message)
	}
}

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("MatchBot\n")
	res.WriteString("`$cs2` / `$dota2`: pick a game and list today's matches for it\n")
	res.WriteString("`$upcoming`: list today's matches again for your selected game\n")
	res.WriteString("`$live`: show matches that are being played right now\n")
	res.WriteString("`$analytics <number>`: match breakdown by its number in the last list\n")
	res.WriteString("`$analytics <team>`: match breakdown by team name. There is fuzzy matching on names, but names that contain two or more words need to be encased in \" (e.g. \"The MongolZ\")\n")
	res.WriteString("`$express`: one favorite per open match today, with a combined confidence\n")
	res.WriteString("`$notify`: DM alerts shortly before matches of your selected game start\n")
	res.WriteString("`$mute`: stop those alerts\n")
	res.WriteString("`$back`: forget your game selection and match list\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// selectGameHandler handles the $cs2 and $dota2 commands with a DiscordSession
// interface. Listing the matches also arms the numbered $analytics picker.
func (b *Bot) selectGameHandler(session DiscordSession, message *discordgo.MessageCreate, game shared.Game) {
	res := b.APIPtr.UpcomingList(context.Background(), message.Author.ID, game)
	session.ChannelMessageSend(message.ChannelID, res)
}

// upcomingHandler handles the $upcoming command with a DiscordSession interface
func (b *Bot) upcomingHandler(session DiscordSession, message *discordgo.MessageCreate) {
	game := b.userGame(message.Author.ID)
	res := b.APIPtr.UpcomingList(context.Background(), message.Author.ID, game)
	session.ChannelMessageSend(message.ChannelID, res)
}

// liveHandler handles the $live command with a DiscordSession interface
func (b *Bot) liveHandler(session DiscordSession, message *discordgo.MessageCreate) {
	game := b.userGame(message.Author.ID)
	if args := commandArgs(message.Content); len(args) > 1 {
		if parsed, ok := shared.ParseGame(args[1]); ok {
			game = parsed
		}
	}
	res := b.APIPtr.LiveList(context.Background(), game)
	session.ChannelMessageSend(message.ChannelID, res)
}

// analyticsHandler handles the $analytics command with a DiscordSession
// interface. A numeric argument picks from the last listed matches, anything
// else is treated as a team name.
func (b *Bot) analyticsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) < 2 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$analytics <number>` or `$analytics <team name>`")
		return
	}

	var res string
	var err error
	if number, convErr := strconv.Atoi(args[1]); convErr == nil {
		res, err = b.APIPtr.AnalyticsByNumber(context.Background(), message.Author.ID, number)
	} else {
		query := strings.Join(args[1:], " ")
		res, err = b.APIPtr.AnalyticsByTeam(context.Background(), message.Author.ID, query)
	}
	if err != nil {
		res = analyticsErrorMessage(err)
		if res == "" {
			b.Log.Error().Err(err).Str("user", message.Author.ID).Msg("analytics failed")
			res = "An unexpected error occured"
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// analyticsErrorMessage maps the selection errors a user can cause to replies.
// Returns "" for errors that are not the user's fault.
func analyticsErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNoPendingSelection):
		return "No match list to pick from. Run `$cs2` or `$dota2` first"
	case errors.Is(err, store.ErrChoiceOutOfRange):
		return "That number is not on the last list. Run `$upcoming` to see it again"
	case errors.Is(err, api.ErrTeamNotPlaying):
		return "No team by that name plays today"
	case errors.Is(err, api.ErrTeamsUnconfirmed):
		return "Both teams for that match are not confirmed yet"
	}
	return ""
}

// expressHandler handles the $express command with a DiscordSession interface
func (b *Bot) expressHandler(session DiscordSession, message *discordgo.MessageCreate) {
	game := b.userGame(message.Author.ID)
	res := b.APIPtr.Express(context.Background(), game)
	session.ChannelMessageSend(message.ChannelID, res)
}

// notifyHandler handles the $notify command with a DiscordSession interface
func (b *Bot) notifyHandler(session DiscordSession, message *discordgo.MessageCreate) {
	game := b.subscriptionGame(message)
	b.APIPtr.Store.Subscribe(message.Author.ID, game)
	res := fmt.Sprintf("%s will get a DM before %s matches start. Use `$mute` to stop", message.Author.Username, game)
	session.ChannelMessageSend(message.ChannelID, res)
}

// muteHandler handles the $mute command with a DiscordSession interface
func (b *Bot) muteHandler(session DiscordSession, message *discordgo.MessageCreate) {
	game := b.subscriptionGame(message)
	b.APIPtr.Store.Unsubscribe(message.Author.ID, game)
	res := fmt.Sprintf("%s will no longer get %s match alerts", message.Author.Username, game)
	session.ChannelMessageSend(message.ChannelID, res)
}

// backHandler handles the $back command with a DiscordSession interface
func (b *Bot) backHandler(session DiscordSession, message *discordgo.MessageCreate) {
	b.APIPtr.Store.Clear(message.Author.ID)
	session.ChannelMessageSend(message.ChannelID, "Game selection cleared. Run `$cs2` or `$dota2` to start again")
}

// Notify implements the scheduler's sender by DMing the user. Returns an
// error until Run has opened the Discord session.
func (b *Bot) Notify(ctx context.Context, userID string, text string) error {
	session := b.currentSession()
	if session == nil {
		return fmt.Errorf("discord session is not connected")
	}
	channel, err := session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("creating DM channel for %s: %w", userID, err)
	}
	if _, err := session.ChannelMessageSend(channel.ID, text); err != nil {
		return fmt.Errorf("sending DM to %s: %w", userID, err)
	}
	return nil
}

// userGame returns the user's selected game, falling back to cs2 when they
// have not picked one yet.
func (b *Bot) userGame(userID string) shared.Game {
	if game, ok := b.APIPtr.Store.Game(userID); ok {
		return game
	}
	return shared.GameCS2
}

// subscriptionGame resolves the game a $notify or $mute applies to: an
// explicit argument wins, otherwise the user's selection, otherwise cs2.
func (b *Bot) subscriptionGame(message *discordgo.MessageCreate) shared.Game {
	if args := commandArgs(message.Content); len(args) > 1 {
		if parsed, ok := shared.ParseGame(args[1]); ok {
			return parsed
		}
	}
	return b.userGame(message.Author.ID)
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
