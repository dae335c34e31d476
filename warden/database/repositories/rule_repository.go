package repositories

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

const ruleCacheKey = "rules"

// RuleRepository stores the server rules referenced by moderation actions.
// The list backs slash-command autocomplete, hence the cache.
type RuleRepository interface {
	All(ctx context.Context) ([]models.Rule, error)
	Get(ctx context.Context, id string) (*models.Rule, bool, error)
	Add(ctx context.Context, id, content string) error
	Remove(ctx context.Context, id string) error
}

type ruleRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewRuleRepository(db *bun.DB) RuleRepository {
	cache, _ := lru.New(4)
	return &ruleRepository{db: db, cache: cache}
}

func (r *ruleRepository) All(ctx context.Context) ([]models.Rule, error) {
	if cached, ok := r.cache.Get(ruleCacheKey); ok {
		return cached.([]models.Rule), nil
	}

	var rules []models.Rule
	if err := r.db.NewSelect().Model(&rules).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	r.cache.Add(ruleCacheKey, rules)
	return rules, nil
}

func (r *ruleRepository) Get(ctx context.Context, id string) (*models.Rule, bool, error) {
	rules, err := r.All(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range rules {
		if rules[i].ID == id {
			return &rules[i], true, nil
		}
	}
	return nil, false, nil
}

func (r *ruleRepository) Add(ctx context.Context, id, content string) error {
	_, err := r.db.NewInsert().Model(&models.Rule{ID: id, Content: content}).
		On("CONFLICT (id) DO UPDATE").
		Set("content = EXCLUDED.content").
		Exec(ctx)
	if err == nil {
		r.cache.Remove(ruleCacheKey)
	}
	return err
}

func (r *ruleRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model((*models.Rule)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err == nil {
		r.cache.Remove(ruleCacheKey)
	}
	return err
}
