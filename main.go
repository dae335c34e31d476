package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/commands"
	"github.com/wardenbot/warden/warden/components"
	"github.com/wardenbot/warden/warden/database"
	"github.com/wardenbot/warden/warden/database/repositories"
	"github.com/wardenbot/warden/warden/handlers"
	"github.com/wardenbot/warden/warden/logger"
	"github.com/wardenbot/warden/warden/moderation"
	"github.com/wardenbot/warden/warden/scheduler"
	"github.com/wardenbot/warden/warden/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	slog.Info("Starting Warden",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := warden.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := warden.New(*cfg, version, commit)
	b.DB = db

	b.GrantRepository = repositories.NewGrantRepository(db.BunDB())
	b.WarnRepository = repositories.NewWarnRepository(db.BunDB())
	b.ScoreRepository = repositories.NewScoreRepository(db.BunDB())
	b.LevelRepository = repositories.NewLevelRepository(db.BunDB())
	b.PromocodeRepository = repositories.NewPromocodeRepository(db.BunDB())
	b.ButtonRoleRepository = repositories.NewButtonRoleRepository(db.BunDB())
	b.RuleRepository = repositories.NewRuleRepository(db.BunDB())
	b.AFKRepository = repositories.NewAFKRepository(db.BunDB())

	h := handler.New()

	// Moderation
	h.Command("/warn", handlers.WrapWithLogging("warn", commands.WarnHandler(b)))
	h.Autocomplete("/warn", commands.RuleAutocompleteHandler(b))
	h.Command("/warns", handlers.WrapWithLogging("warns", commands.WarnsHandler(b)))
	h.Command("/delwarn", handlers.WrapWithLogging("delwarn", commands.DelwarnHandler(b)))
	h.Command("/delwarns", handlers.WrapWithLogging("delwarns", commands.DelwarnsHandler(b)))
	h.Command("/temprole", handlers.WrapWithLogging("temprole", commands.TempRoleHandler(b)))
	h.Command("/ban", handlers.WrapWithLogging("ban", commands.BanHandler(b)))
	h.Command("/unban", handlers.WrapWithLogging("unban", commands.UnbanHandler(b)))
	h.Command("/kick", handlers.WrapWithLogging("kick", commands.KickHandler(b)))
	h.Command("/filemute", handlers.WrapWithLogging("filemute", commands.FilemuteHandler(b)))
	h.Command("/unfilemute", handlers.WrapWithLogging("unfilemute", commands.UnfilemuteHandler(b)))

	// Channels
	h.Command("/lock", handlers.WrapWithLogging("lock", commands.LockHandler(b)))
	h.Command("/unlock", handlers.WrapWithLogging("unlock", commands.UnlockHandler(b)))
	h.Command("/slowmode", handlers.WrapWithLogging("slowmode", commands.SlowmodeHandler(b)))
	h.Command("/purge", handlers.WrapWithLogging("purge", commands.PurgeHandler(b)))

	// Levels and scores
	h.Command("/rank", handlers.WrapWithLogging("rank", commands.RankHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/levels", handlers.WrapWithLogging("levels", commands.LevelsHandler(b)))
	h.Command("/addlevel", handlers.WrapWithLogging("addlevel", commands.AddLevelHandler(b)))
	h.Command("/removelevel", handlers.WrapWithLogging("removelevel", commands.RemoveLevelHandler(b)))
	h.Command("/addscore", handlers.WrapWithLogging("addscore", commands.AddScoreHandler(b)))
	h.Command("/removescore", handlers.WrapWithLogging("removescore", commands.RemoveScoreHandler(b)))

	// Promocodes
	h.Command("/addpromo", handlers.WrapWithLogging("addpromo", commands.AddPromoHandler(b)))
	h.Command("/setuppromo", handlers.WrapWithLogging("setuppromo", commands.SetupPromoHandler(b)))
	h.Component("/promocode/claim", handlers.WrapComponentWithLogging("promocode-claim", components.PromocodeClaimHandler(b)))

	// Rules
	h.Command("/rule", handlers.WrapWithLogging("rule", commands.RuleHandler(b)))
	h.Autocomplete("/rule", commands.RuleAutocompleteHandler(b))
	h.Command("/addrule", handlers.WrapWithLogging("addrule", commands.AddRuleHandler(b)))
	h.Command("/removerule", handlers.WrapWithLogging("removerule", commands.RemoveRuleHandler(b)))
	h.Autocomplete("/removerule", commands.RuleAutocompleteHandler(b))

	// Button roles
	h.Command("/addbuttonrole", handlers.WrapWithLogging("addbuttonrole", commands.AddButtonRoleHandler(b)))
	h.Command("/removebuttonrole", handlers.WrapWithLogging("removebuttonrole", commands.RemoveButtonRoleHandler(b)))
	h.Component("/buttonrole/", handlers.WrapComponentWithLogging("buttonrole", components.ButtonRoleHandler(b)))

	// Misc
	h.Command("/afk", handlers.WrapWithLogging("afk", commands.AFKHandler(b)))
	h.Command("/say", handlers.WrapWithLogging("say", commands.SayHandler(b)))

	listeners := handlers.NewListeners(b)
	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		bot.NewListenerFunc(listeners.OnGuildMemberJoin),
		bot.NewListenerFunc(listeners.OnGuildMemberLeave),
		bot.NewListenerFunc(listeners.OnMessageCreate),
		bot.NewListenerFunc(listeners.OnMessageDelete),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		b.Client.Close(closeCtx)
	}()

	b.Adapter = moderation.NewDiscordAdapter(b.Client, cfg.Bot.GuildID)
	b.XP = services.NewXPService(b.Client, b.ScoreRepository, b.LevelRepository, b.PromocodeRepository,
		cfg.Bot.GuildID, services.XPSettings{
			MinGain:            cfg.XP.MinGain,
			MaxGain:            cfg.XP.MaxGain,
			Cooldown:           time.Duration(cfg.XP.CooldownSeconds) * time.Second,
			IgnoredChannels:    cfg.XP.IgnoredChannels,
			PromoRequiredScore: cfg.XP.PromoRequiredScore,
			PromoNotifications: cfg.XP.PromoNotifications,
			PromoChannelID:     cfg.Channels.Promocode,
		})

	reconciler := moderation.NewReconciler(b.GrantRepository, b.WarnRepository, b.Adapter)
	statsTracker := services.NewStatsTracker(b.Client, b.ScoreRepository,
		cfg.Bot.GuildID, cfg.Channels.MembersTracker, cfg.Channels.DailyScoreTracker)
	dailyReset := services.NewDailyReset(b.ScoreRepository, b.PromocodeRepository, cfg.Roles.Admin,
		services.ChannelNotifier(b.Client, cfg.Channels.Administration))

	sched := scheduler.New(b.Ready)
	sched.Every("expired-grants", 5*time.Minute, reconciler.SweepExpiredGrants)
	sched.Every("temp-bans", 30*time.Minute, reconciler.SweepTempBans)
	sched.Every("stats", 30*time.Minute, statsTracker.Refresh)
	sched.Every("warn-retention", 12*time.Hour, reconciler.SweepWarnings)
	sched.DailyAtMidnight("daily-reset", dailyReset.Run)
	sched.Start()
	defer sched.Stop()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
