// Package export turns client-supplied review records into the CSV shape
// the front-end downloads. The format is fixed by the consumers: a Korean
// header row, bare numeric fields, and quoted text with doubled quotes and
// newlines collapsed to spaces. Rows are built by hand rather than with
// encoding/csv, whose RFC 4180 quoting differs from this shape.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one review-like entry to export. It mirrors the analyze
// response shape but tolerates partial input: a missing rating exports as
// 0, a missing sentiment as "unknown".
type Record struct {
	Rating    float64 `json:"rating"`
	Sentiment string  `json:"sentiment"`
	Text      string  `json:"text"`
}

const header = "번호,평점,감정,리뷰 내용\n"

var textEscaper = strings.NewReplacer(`"`, `""`, "\n", " ", "\r", " ")

// Build renders the records as CSV: the header plus one row per record,
// indexed from 1.
func Build(records []Record) string {
	var b strings.Builder
	b.WriteString(header)

	for i, r := range records {
		sentiment := r.Sentiment
		if sentiment == "" {
			sentiment = "unknown"
		}
		fmt.Fprintf(&b, "%d,%s,%s,\"%s\"\n",
			i+1,
			strconv.FormatFloat(r.Rating, 'f', -1, 64),
			sentiment,
			textEscaper.Replace(r.Text),
		)
	}
	return b.String()
}

// Filename names a CSV download after the moment it was generated.
func Filename(now time.Time) string {
	return fmt.Sprintf("amazon_reviews_%d.csv", now.Unix())
}
