package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassifyFence(t *testing.T) {
	c := New()
	lines := []string{"```", "hello", "```", "world"}
	var got []Class
	for _, l := range lines {
		got = append(got, c.Classify(l))
	}
	want := []Class{PassThrough, PassThrough, PassThrough, Translatable}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	if c.InsideFence() {
		t.Error("fence should be closed")
	}
}

func TestClassifyFenceWithLanguage(t *testing.T) {
	c := New()
	c.Classify("  ```go")
	if !c.InsideFence() {
		t.Fatal("fence with info string should open a block")
	}
	if got := c.Classify("fmt.Println(\"Hello\")"); got != PassThrough {
		t.Errorf("line inside fence classified %v", got)
	}
	c.Reset()
	if c.InsideFence() {
		t.Error("Reset must close the fence")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Class
	}{
		{"", PassThrough},
		{"   \t ", PassThrough},
		{"00:00:01,000 --> 00:00:04,500", PassThrough},
		{"  01:02:03.456-->01:02:05.000  ", PassThrough},
		{"42", PassThrough},
		{"{", PassThrough},
		{"  },", PassThrough},
		{"];", PassThrough},
		{"):", PassThrough},
		{"// comment", PassThrough},
		{"/* block", PassThrough},
		{"*/", PassThrough},
		{"# comment", PassThrough},
		{"## Heading", Translatable},
		{"-- lua comment", PassThrough},
		{"---", Translatable},
		{"; ini comment", PassThrough},
		{"<!-- xml comment -->", PassThrough},
		{"-->", PassThrough},
		{"dialogue_data = [", PassThrough},
		{"config = {", PassThrough},
		{`"is_code": True,`, PassThrough},
		{`"enabled": false,`, PassThrough},
		{"count: 12", PassThrough},
		{`'value': NULL`, PassThrough},
		{"</string>", PassThrough},
		{`<br/>`, PassThrough},
		{`<item id="3">`, PassThrough},
		{"[SPEAKER: Old Man]", PassThrough},
		{"Hello there", Translatable},
		{`"message": "Save game?",`, Translatable},
		{"<b>Bold</b>", Translatable},
		{"title: Main menu", Translatable},
		{"Привіт", Translatable},
	}
	for _, tt := range tests {
		c := New()
		if got := c.Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsTimestamp(t *testing.T) {
	if IsTimestamp("00:00:01 --> 00:00:02") {
		t.Error("timestamp without milliseconds accepted")
	}
	if !IsTimestamp("10:20:30,400 --> 10:20:31,000") {
		t.Error("valid SRT timestamp rejected")
	}
}
