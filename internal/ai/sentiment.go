package ai

import (
	"context"
	"fmt"
	"strings"

	"reviewlens/internal/types"
)

const sentimentSystemPrompt = "당신은 상품 리뷰 감정 분석 전문가입니다. 리뷰를 읽고 positive, negative, neutral 중 하나로만 응답하세요."

// ClassifySentiment labels one review text. It never fails: any model
// error, including cancellation, degrades to neutral.
func (c *Client) ClassifySentiment(ctx context.Context, text string) types.Sentiment {
	user := fmt.Sprintf("다음 리뷰의 감정을 분석하세요: %s", text)

	raw, err := c.complete(ctx, sentimentSystemPrompt, user, c.cfg.SentimentTemperature, c.cfg.SentimentMaxTokens)
	if err != nil {
		c.logger.Warn("sentiment classification failed, defaulting to neutral", "error", err)
		return types.SentimentNeutral
	}
	return mapSentiment(raw)
}

// mapSentiment maps free-text model output onto the fixed label set by
// substring containment. "positive" is checked before "negative", so a
// response containing both counts as positive; anything else is neutral.
func mapSentiment(raw string) types.Sentiment {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "positive"):
		return types.SentimentPositive
	case strings.Contains(s, "negative"):
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}
