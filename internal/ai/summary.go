package ai

import (
	"context"
	"fmt"
	"strings"

	"reviewlens/internal/types"
)

const (
	summarySystemPrompt = "당신은 상품 리뷰 분석 전문가입니다. 리뷰들을 종합하여 이 상품의 전반적인 인상을 3-4문장으로 요약해주세요."

	// summaryUnavailable is returned when the model call fails.
	summaryUnavailable = "요약을 생성할 수 없습니다."

	// At most this many texts per sentiment group go into the prompt.
	summarySampleLimit = 5
)

// Summarize produces a short overall impression of a classified review
// batch. It never fails: any model error yields the fixed placeholder.
func (c *Client) Summarize(ctx context.Context, reviews []types.ClassifiedReview) string {
	raw, err := c.complete(ctx, summarySystemPrompt, buildSummaryPrompt(reviews), c.cfg.SummaryTemperature, c.cfg.SummaryMaxTokens)
	if err != nil {
		c.logger.Warn("summary generation failed", "error", err)
		return summaryUnavailable
	}
	return strings.TrimSpace(raw)
}

// buildSummaryPrompt partitions the batch by sentiment and states each
// group's count followed by up to summarySampleLimit of its texts.
func buildSummaryPrompt(reviews []types.ClassifiedReview) string {
	var positive, negative []string
	for _, r := range reviews {
		switch r.Sentiment {
		case types.SentimentPositive:
			positive = append(positive, r.Text)
		case types.SentimentNegative:
			negative = append(negative, r.Text)
		}
	}

	body := fmt.Sprintf("긍정 리뷰 %d개:\n%s\n\n부정 리뷰 %d개:\n%s",
		len(positive), strings.Join(head(positive, summarySampleLimit), " | "),
		len(negative), strings.Join(head(negative, summarySampleLimit), " | "),
	)
	return fmt.Sprintf("다음 리뷰 분석 결과를 바탕으로 상품의 전반적인 인상을 요약해주세요:\n%s", body)
}

func head(ss []string, n int) []string {
	if len(ss) > n {
		return ss[:n]
	}
	return ss
}
