/* bot.go
 * Contains the Bot struct and the argument parsing helpers shared by the
 * command handlers. Requires a discord bot token and an API pointer, both
 * passed in from main.go.
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-andiamo/splitter"
	"github.com/rs/zerolog"

	"matchbot/api"
)

type Bot struct {
	BotToken string
	APIPtr   *api.API
	Log      zerolog.Logger

	// mu guards session: Run sets it while the scheduler goroutine is
	// already reading it through Notify.
	mu      sync.RWMutex
	session DiscordSession
}

// NewBot creates a bot around an API facade. The Discord session is created
// in Run; until then DM delivery reports not-connected.
func NewBot(botToken string, apiPtr *api.API, log zerolog.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Log:      log.With().Str("component", "bot").Logger(),
	}, nil
}

// setSession installs the live Discord session once Run has opened it.
func (b *Bot) setSession(session DiscordSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = session
}

// currentSession returns the live Discord session, or nil before Run opens one.
func (b *Bot) currentSession() DiscordSession {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.session
}

// commandArgs splits a command message into its arguments, honouring quoted
// team names. We use splitter here instead of strings.Fields so that
// "The MongolZ" is recognised as one argument, not two.
func commandArgs(content string) []string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	parts, err := spaceSplitter.Split(content)
	if err != nil {
		parts = strings.Fields(content)
	}

	args := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), "\"“”")
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}
