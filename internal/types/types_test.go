package types

import (
	"errors"
	"testing"
)

func TestTally(t *testing.T) {
	stats := Tally([]ClassifiedReview{
		{Sentiment: SentimentPositive},
		{Sentiment: SentimentPositive},
		{Sentiment: SentimentNegative},
		{Sentiment: SentimentNeutral},
		{Sentiment: Sentiment("garbage")},
	})

	// Unknown labels count as neutral so the totals always add up.
	if stats.Positive != 2 || stats.Negative != 1 || stats.Neutral != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTallyEmpty(t *testing.T) {
	stats := Tally(nil)
	if stats.Positive != 0 || stats.Negative != 0 || stats.Neutral != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}

func TestResponseContainsMarker(t *testing.T) {
	resp := &Response{Body: []byte("<html>Please solve this CAPTCHA</html>")}

	if !resp.ContainsMarker("captcha") {
		t.Error("marker match must be case-insensitive")
	}
	if resp.ContainsMarker("robot") {
		t.Error("absent marker reported present")
	}
}

func TestResponseIsSuccess(t *testing.T) {
	if !(&Response{StatusCode: 200}).IsSuccess() {
		t.Error("200 should be success")
	}
	if (&Response{StatusCode: 503}).IsSuccess() {
		t.Error("503 should not be success")
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := &FetchError{URL: "https://www.amazon.com/dp/B08N5WRWNW", StatusCode: 0, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("FetchError must unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("empty error string")
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	inner := errors.New("bad html")
	err := &ParseError{URL: "https://www.amazon.com/dp/B08N5WRWNW", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ParseError must unwrap to its cause")
	}
}
