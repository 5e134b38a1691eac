package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	HandoverFallback      = "Error generating handover summary. Please check API key configuration."
	HandoverEmptyFallback = "Unable to generate summary."

	SuggestionFallback      = "Ensure cold towels are ready."
	SuggestionEmptyFallback = "Check lobby ambiance."
)

type Options struct {
	ResortName    string
	Timeout       time.Duration
	SuggestionTTL time.Duration
}

// Assistant 在文本生成服务之上提供固定的降级文本，失败时不重试
type Assistant struct {
	generator Generator
	cache     *redis.Client
	opts      Options
}

// NewAssistant 中 generator 为 nil 时始终返回降级文本，cache 为 nil 时不缓存建议
func NewAssistant(generator Generator, cache *redis.Client, opts Options) *Assistant {
	if opts.ResortName == "" {
		opts.ResortName = "Nova Maldives"
	}
	return &Assistant{
		generator: generator,
		cache:     cache,
		opts:      opts,
	}
}

func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	if a.generator == nil {
		return "", ErrNoAPIKey
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (a *Assistant) HandoverSummary(ctx context.Context, shift *domain.ShiftData) string {
	text, err := a.generate(ctx, handoverPrompt(a.opts.ResortName, shift))
	if err != nil {
		slog.Error("生成交接班摘要失败", "date", shift.Date, "shiftType", shift.Type, "error", err)
		return HandoverFallback
	}
	if text == "" {
		return HandoverEmptyFallback
	}
	return text
}

func suggestionKey(weather, timeOfDay string) string {
	return fmt.Sprintf("suggestion_%s_%s", timeOfDay, weather)
}

// SmartSuggestion 根据天气和班次给出一条建议，成功的结果会缓存一段时间
func (a *Assistant) SmartSuggestion(ctx context.Context, weather, timeOfDay string) string {
	key := suggestionKey(weather, timeOfDay)

	if a.cache != nil {
		cached, err := a.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			return cached
		case !errors.Is(err, redis.Nil):
			slog.Warn("读取建议缓存失败", "key", key, "error", err)
		}
	}

	text, err := a.generate(ctx, suggestionPrompt(weather, timeOfDay))
	if err != nil {
		slog.Warn("生成建议失败", "error", err)
		return SuggestionFallback
	}
	if text == "" {
		return SuggestionEmptyFallback
	}

	if a.cache != nil && a.opts.SuggestionTTL > 0 {
		if err := a.cache.Set(ctx, key, text, a.opts.SuggestionTTL).Err(); err != nil {
			slog.Warn("写入建议缓存失败", "key", key, "error", err)
		}
	}

	return text
}
