package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/utils"
)

const maxRuleIDLength = 5

var Rule = discord.SlashCommandCreate{
	Name:        "rule",
	Description: "Show a server rule",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "rule",
			Description:  "The rule to show",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func RuleHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ruleID := e.SlashCommandInteractionData().String("rule")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rule, ok, err := b.RuleRepository.Get(ctx, ruleID)
		if err != nil {
			return createError(e, "Error", "Failed to load the rule.")
		}
		if !ok {
			return createError(e, "Unknown Rule", fmt.Sprintf("Rule `%s` does not exist.", ruleID))
		}

		return e.CreateMessage(discord.NewMessageCreateBuilder().
			SetEmbeds(discord.NewEmbedBuilder().
				SetTitle(fmt.Sprintf("Rule %s", rule.ID)).
				SetDescription(rule.Content).
				SetColor(utils.InfoColor).
				Build()).
			Build())
	}
}

var AddRule = discord.SlashCommandCreate{
	Name:        "addrule",
	Description: "Add or update a server rule",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "id",
			Description: "Short rule id like 1, 2a or 3.1",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "content",
			Description: "The rule text",
			Required:    true,
		},
	},
}

func AddRuleHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		id := data.String("id")
		if len(id) == 0 || len(id) > maxRuleIDLength {
			return createError(e, "Invalid Id", fmt.Sprintf(
				"Rule ids are 1 to %d characters long.", maxRuleIDLength))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := b.RuleRepository.Add(ctx, id, data.String("content")); err != nil {
			return createError(e, "Error", "Failed to save the rule.")
		}
		return createSuccess(e, "Rule Saved", fmt.Sprintf("Rule `%s` is in effect.", id))
	}
}

var RemoveRule = discord.SlashCommandCreate{
	Name:        "removerule",
	Description: "Remove a server rule",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "rule",
			Description:  "The rule to remove",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func RemoveRuleHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		ruleID := e.SlashCommandInteractionData().String("rule")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, ok, err := b.RuleRepository.Get(ctx, ruleID); err != nil || !ok {
			return createError(e, "Unknown Rule", fmt.Sprintf("Rule `%s` does not exist.", ruleID))
		}
		if err := b.RuleRepository.Remove(ctx, ruleID); err != nil {
			return createError(e, "Error", "Failed to remove the rule.")
		}
		return createSuccess(e, "Rule Removed", fmt.Sprintf("Rule `%s` is gone.", ruleID))
	}
}

// RuleAutocompleteHandler fuzzy-matches the typed text against rule ids and
// contents.
func RuleAutocompleteHandler(b *warden.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		var query string
		if focused := e.Data.Focused(); focused.Value != nil {
			_ = json.Unmarshal(focused.Value, &query)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rules, err := b.RuleRepository.All(ctx)
		if err != nil {
			return e.AutocompleteResult(nil)
		}

		haystack := make([]string, len(rules))
		for i, rule := range rules {
			haystack[i] = rule.String()
		}

		var choices []discord.AutocompleteChoice
		addChoice := func(i int) {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  truncate(rules[i].String(), 100),
				Value: rules[i].ID,
			})
		}

		if query == "" {
			for i := range rules {
				if len(choices) == 25 {
					break
				}
				addChoice(i)
			}
			return e.AutocompleteResult(choices)
		}

		for _, match := range fuzzy.Find(query, haystack) {
			if len(choices) == 25 {
				break
			}
			addChoice(match.Index)
		}
		return e.AutocompleteResult(choices)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
