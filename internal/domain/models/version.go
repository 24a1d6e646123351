package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FirstSeq is the sequence number of a document's initial version ("1.0").
// Labels are a fixed-point integer counter rendered as seq/10 with one
// decimal, so label comparisons are exact string equality and no float
// drift can accumulate over many updates.
const FirstSeq = 10

// Version is one immutable physical blob bound to a document at a
// specific label. A version's blob is never mutated in place.
type Version struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Seq        int       `json:"-"`
	Label      string    `json:"version"`
	FilePath   string    `json:"-"`
	Created    time.Time `json:"created"`
}

// LabelForSeq renders a sequence number as a decimal label: 10 -> "1.0",
// 11 -> "1.1", 20 -> "2.0".
func LabelForSeq(seq int) string {
	return fmt.Sprintf("%d.%d", seq/10, seq%10)
}

// SeqForLabel parses a decimal label back to its sequence number.
// Returns false for anything that is not a canonical "<major>.<minor>"
// label with a single-digit minor.
func SeqForLabel(label string) (int, bool) {
	major, minor, found := strings.Cut(label, ".")
	if !found || len(minor) != 1 {
		return 0, false
	}
	maj, err := strconv.Atoi(major)
	if err != nil || maj < 0 {
		return 0, false
	}
	min, err := strconv.Atoi(minor)
	if err != nil {
		return 0, false
	}
	return maj*10 + min, true
}
