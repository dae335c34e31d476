package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wardenbot/warden/warden"
)

var Commands = []discord.ApplicationCommandCreate{
	Warn,
	Warns,
	Delwarn,
	Delwarns,
	TempRole,
	Ban,
	Unban,
	Kick,
	Filemute,
	Unfilemute,
	Lock,
	Unlock,
	Slowmode,
	Purge,
	Rank,
	Leaderboard,
	Levels,
	AddLevel,
	RemoveLevel,
	AddScore,
	RemoveScore,
	AddPromo,
	SetupPromo,
	Rule,
	AddRule,
	RemoveRule,
	AddButtonRole,
	RemoveButtonRole,
	AFK,
	Say,
}

// isStaff covers both the staff and admin roles.
func isStaff(b *warden.Bot, e *handler.CommandEvent) bool {
	member := e.Member()
	if member == nil {
		return false
	}
	if member.Permissions.Has(discord.PermissionAdministrator) {
		return true
	}
	for _, roleID := range member.RoleIDs {
		if roleID == b.Cfg.Roles.Staff || roleID == b.Cfg.Roles.Admin {
			return true
		}
	}
	return false
}

func isAdmin(b *warden.Bot, e *handler.CommandEvent) bool {
	member := e.Member()
	if member == nil {
		return false
	}
	if member.Permissions.Has(discord.PermissionAdministrator) {
		return true
	}
	for _, roleID := range member.RoleIDs {
		if roleID == b.Cfg.Roles.Admin {
			return true
		}
	}
	return false
}
