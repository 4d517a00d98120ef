package quality

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheck(t *testing.T) {
	original := []string{
		"Hello {name}",
		"Plain text",
		"",
		"Score: %d of %d <b>bold</b>",
		"All good {0}",
	}
	translated := []string{
		"Привіт",
		"   ",
		"",
		"Рахунок: %d <b>жирний",
		"Все добре {0}",
	}

	got := Check(original, translated)
	want := []Issue{
		{Index: 0, Kind: MissingPlaceholders, Missing: []string{"{name}"}, Message: "Line 1: missing placeholders: {{name}}"},
		{Index: 1, Kind: EmptyTranslation, Message: "Line 2: empty translation"},
		{Index: 3, Kind: MissingPlaceholders, Missing: []string{"</b>"}, Message: "Line 4: missing placeholders: {</b>}"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Check mismatch (-want +got):\n%s", diff)
	}

	counts := Summary(got)
	if counts[MissingPlaceholders] != 2 || counts[EmptyTranslation] != 1 {
		t.Errorf("Summary = %v", counts)
	}
}

func TestCheckShorterTranslation(t *testing.T) {
	if got := Check([]string{"a {x}", "b"}, []string{"a {x}"}); len(got) != 0 {
		t.Errorf("stopped run produced issues: %+v", got)
	}
}
