package feed_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/stylus/feed"
)

const sampleSpool = `
// morning batch
record 1744821 {
  author "@kernelpanic"
  date "Mon 14:09 · 12 Apr"
  avatar "avatars/kernelpanic.png"
  image "shots/panic.jpg"
  text "receipt printers are the only honest display technology"
}

# no attachment on this one
record 1744838 {
  author "@plottergirl"
  date "Mon 14:31 · 12 Apr"
  avatar "avatars/plotter.png"
  text "day 3 of drawing with a pen that costs more than the plotter"
}
`

func TestParseSpool(t *testing.T) {
	records, err := feed.Parse(strings.NewReader(sampleSpool))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "1744821" {
		t.Errorf("first record ID = %q", first.ID)
	}
	if first.Author != "@kernelpanic" {
		t.Errorf("first record Author = %q", first.Author)
	}
	// The timestamp is opaque display text and must survive verbatim,
	// including the separator rune.
	if first.Timestamp != "Mon 14:09 · 12 Apr" {
		t.Errorf("first record Timestamp = %q", first.Timestamp)
	}
	if !first.HasImage() || first.ImagePath != "shots/panic.jpg" {
		t.Errorf("first record ImagePath = %q", first.ImagePath)
	}

	second := records[1]
	if second.HasImage() {
		t.Errorf("second record should have no attachment, got %q", second.ImagePath)
	}
	if second.Text != "day 3 of drawing with a pen that costs more than the plotter" {
		t.Errorf("second record Text = %q", second.Text)
	}
}

func TestParsePreservesFileOrder(t *testing.T) {
	records, err := feed.ParseString(sampleSpool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].ID != "1744821" || records[1].ID != "1744838" {
		t.Fatalf("records out of file order: %s, %s", records[0].ID, records[1].ID)
	}
}

func TestParseRejectsMissingField(t *testing.T) {
	_, err := feed.ParseString(`record a1 {
  author "@x"
  date "now"
  text "hello"
}`)
	if err == nil {
		t.Fatal("expected error for record without avatar")
	}
	if !strings.Contains(err.Error(), "avatar") {
		t.Errorf("error should name the missing field, got: %v", err)
	}
}

func TestParseRejectsDuplicateField(t *testing.T) {
	_, err := feed.ParseString(`record a1 {
  author "@x"
  author "@y"
  date "now"
  avatar "a.png"
  text "hello"
}`)
	if err == nil {
		t.Fatal("expected error for duplicate author field")
	}
}

func TestParseEscapedQuotes(t *testing.T) {
	records, err := feed.ParseString(`record q {
  author "@quoter"
  date "now"
  avatar "a.png"
  text "she said \"print it\""
}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Text != `she said "print it"` {
		t.Errorf("escaped text = %q", records[0].Text)
	}
}
