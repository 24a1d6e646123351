package models

import "testing"

func TestLabelForSeq(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{FirstSeq, "1.0"},
		{11, "1.1"},
		{19, "1.9"},
		{20, "2.0"},
		{109, "10.9"},
		{110, "11.0"},
	}
	for _, tt := range tests {
		if got := LabelForSeq(tt.seq); got != tt.want {
			t.Errorf("LabelForSeq(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestSeqForLabel(t *testing.T) {
	tests := []struct {
		label string
		want  int
		ok    bool
	}{
		{"1.0", 10, true},
		{"1.9", 19, true},
		{"2.0", 20, true},
		{"11.3", 113, true},
		{"", 0, false},
		{"1", 0, false},
		{"1.", 0, false},
		{"1.10", 0, false},
		{"1.0.0", 0, false},
		{"-1.0", 0, false},
		{"a.b", 0, false},
	}
	for _, tt := range tests {
		got, ok := SeqForLabel(tt.label)
		if ok != tt.ok || got != tt.want {
			t.Errorf("SeqForLabel(%q) = (%d, %t), want (%d, %t)", tt.label, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLabelRoundTrip(t *testing.T) {
	// Every sequence a long-lived document can reach renders to a label
	// that parses back exactly
	for seq := FirstSeq; seq < FirstSeq+500; seq++ {
		label := LabelForSeq(seq)
		back, ok := SeqForLabel(label)
		if !ok || back != seq {
			t.Fatalf("round trip broke at seq %d: label %q parsed to (%d, %t)", seq, label, back, ok)
		}
	}
}
