package components

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/commands"
)

// ButtonRoleHandler toggles the role bound to a "/buttonrole/<id>" button.
func ButtonRoleHandler(b *warden.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		data := e.Data.(discord.ButtonInteractionData)
		bindingID := strings.TrimPrefix(data.CustomID(), commands.ButtonRolePrefix)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		roleID, ok, err := b.ButtonRoleRepository.Get(ctx, bindingID)
		if err != nil || !ok {
			return e.CreateMessage(discord.NewMessageCreateBuilder().
				SetContent("This button is no longer active.").
				SetEphemeral(true).
				Build())
		}

		member := e.Member()
		if member == nil {
			return nil
		}

		if slices.Contains(member.RoleIDs, roleID) {
			if err = b.Client.Rest().RemoveMemberRole(*e.GuildID(), member.User.ID, roleID, rest.WithCtx(ctx)); err != nil {
				return fmt.Errorf("failed to remove role: %w", err)
			}
			return e.CreateMessage(discord.NewMessageCreateBuilder().
				SetContentf("Removed <@&%s> from you.", roleID).
				SetEphemeral(true).
				Build())
		}

		if err = b.Client.Rest().AddMemberRole(*e.GuildID(), member.User.ID, roleID, rest.WithCtx(ctx)); err != nil {
			return fmt.Errorf("failed to add role: %w", err)
		}
		return e.CreateMessage(discord.NewMessageCreateBuilder().
			SetContentf("You now have <@&%s>.", roleID).
			SetEphemeral(true).
			Build())
	}
}
