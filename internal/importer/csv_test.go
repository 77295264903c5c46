package importer

import (
	"reflect"
	"testing"
)

func TestParseLinePlainFields(t *testing.T) {
	t.Parallel()

	got := parseLine("a,b,c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLineQuotedCommaAndEscapedQuote(t *testing.T) {
	t.Parallel()

	got := parseLine(`Title,"Contains, a comma","Quote ""inside"" text"`)
	if len(got) != 3 {
		t.Fatalf("expected exactly 3 fields, got %d: %v", len(got), got)
	}
	if got[0] != "Title" {
		t.Fatalf("expected first field 'Title', got %q", got[0])
	}
	if got[1] != "Contains, a comma" {
		t.Fatalf("expected embedded comma preserved, got %q", got[1])
	}
	if got[2] != `Quote "inside" text` {
		t.Fatalf("expected escaped quotes decoded, got %q", got[2])
	}
}

func TestParseLineTrimsFieldWhitespace(t *testing.T) {
	t.Parallel()

	got := parseLine("  a  , b ,c ")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLineEmptyFields(t *testing.T) {
	t.Parallel()

	got := parseLine("a,,c")
	want := []string{"a", "", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestZipRowPadsAndDrops(t *testing.T) {
	t.Parallel()

	headers := []string{"title", "category", "tags"}

	short := zipRow(headers, []string{"Foo"})
	if short["title"] != "Foo" || short["category"] != "" || short["tags"] != "" {
		t.Fatalf("expected missing fields padded with empty strings, got %v", short)
	}

	long := zipRow(headers, []string{"Foo", "arcade", "a|b", "surplus"})
	if len(long) != 3 {
		t.Fatalf("expected surplus fields dropped, got %v", long)
	}
}
