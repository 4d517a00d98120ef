package placeholder

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"none", "Plain sentence.", nil},
		{"brace and printf", "Hello {name}, you have %d items", []string{"{name}", "%d"}},
		{"double brace claimed once", "Hi {{player}}!", []string{"{{player}}"}},
		{"shell brace before brace", "Path is ${HOME}/bin", []string{"${HOME}"}},
		{"percent named", "%(count)s apples and %.2f kg", []string{"%(count)s", "%.2f"}},
		{"escaped percent", "100%% sure", []string{"%%"}},
		{"shell var", "Cost: $price coins", []string{"$price"}},
		{"tags", "<color=#FF0000>Danger</color>", []string{"<color=#FF0000>", "</color>"}},
		{"bracket", "Give [item] to [npc]", []string{"[item]", "[npc]"}},
		{"escapes", `Line one\nLine two\t\"quoted\"`, []string{`\n`, `\t`, `\"`, `\"`}},
		{"entities", "Tom&nbsp;&amp;&#123;&#xAB;Jerry", []string{"&nbsp;", "&amp;", "&#123;", "&#xAB;"}},
		{"at and hash names", "Ask @npc_name about #quest_id#", []string{"@npc_name", "#quest_id#"}},
		{"duplicates kept", "{0} and {0}", []string{"{0}", "{0}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Extract(tt.in)); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestScanKinds(t *testing.T) {
	tokens := Scan("{{a}} ${b} {c}")
	var kinds []Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []Kind{KindDoubleBrace, KindShellBrace, KindBrace}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Nothing special here",
		"Hello {name}, you have %d items",
		"<b>{{count}}</b> of [total] \\n done &amp; %(pct)s",
		"{0} {0} {1}",
		"Press @button to open #menu#",
	}
	for _, in := range inputs {
		if got := Restore(in, in, Extract(in)); got != in {
			t.Errorf("Restore round trip of %q = %q", in, got)
		}
	}
}

func TestRestoreAppendsMissing(t *testing.T) {
	original := "Hello {name}, you have %d items"
	got := Restore(original, "Привіт, у вас items", Extract(original))
	for _, p := range []string{"{name}", "%d"} {
		if !strings.Contains(got, p) {
			t.Errorf("restored %q lacks %s", got, p)
		}
	}
	if want := "Привіт, у вас items {name} %d"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRestoreReplacesDrift(t *testing.T) {
	original := "Welcome, {player}!"
	got := Restore(original, "Ласкаво просимо, {гравець}!", Extract(original))
	if want := "Ласкаво просимо, {player}!"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRestoreDriftAtPosition(t *testing.T) {
	tests := []struct {
		original   string
		translated string
		want       string
	}{
		{"{{x}} and {y}", "{{x}} та {x}", "{{x}} та {y}"},
		{"{a} and {b}", "{b} та {c}", "{b} та {a}"},
		{"%s of {total}", "%s з {всього} і {всього}", "%s з {total} і {всього}"},
	}
	for _, tt := range tests {
		got := Restore(tt.original, tt.translated, Extract(tt.original))
		if got != tt.want {
			t.Errorf("Restore(%q, %q) = %q, want %q", tt.original, tt.translated, got, tt.want)
		}
	}

	got := Restore("{{x}} and {y}", "{{x}} та {x}", Extract("{{x}} and {y}"))
	if diff := cmp.Diff([]string(nil), Missing("{{x}} and {y}", got)); diff != "" {
		t.Errorf("Missing after restore (-want +got):\n%s", diff)
	}
}

func TestRestoreNeverAppendsTags(t *testing.T) {
	original := "<b>Bold</b> text"
	got := Restore(original, "Жирний текст", Extract(original))
	if got != "Жирний текст" {
		t.Errorf("got %q, tags must not be appended", got)
	}
}

func TestRestoreDuplicateCount(t *testing.T) {
	original := "%s vs %s"
	got := Restore(original, "%s проти", Extract(original))
	if want := "%s проти %s"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMissing(t *testing.T) {
	got := Missing("Hi {name}, {name}! Score: %d <i>x</i>", "Привіт {name}!")
	want := []string{"%d", "<i>", "</i>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}
