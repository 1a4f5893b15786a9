package feed

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	spoolLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "Brace", Pattern: `[{}]`},
	})

	spoolParser = participle.MustBuild[spoolFile](
		participle.Lexer(spoolLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
		participle.Unquote("String"),
	)
)

// spoolFile is the root AST node for a spool file.
type spoolFile struct {
	Records []*recordBlock `parser:"( @@ )*"`
}

type recordBlock struct {
	Pos    lexer.Position `parser:""`
	ID     string         `parser:"'record' @( Number | Ident )"`
	Fields []*field       `parser:"'{' ( @@ )* '}'"`
}

type field struct {
	Pos   lexer.Position `parser:""`
	Key   string         `parser:"@( 'author' | 'date' | 'avatar' | 'image' | 'text' )"`
	Value string         `parser:"@String"`
}

// Parse reads a spool file and returns its records in file order.
func Parse(r io.Reader) ([]Record, error) {
	ast, err := spoolParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	return assemble(ast)
}

// ParseString parses spool content from a string.
func ParseString(input string) ([]Record, error) {
	ast, err := spoolParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	return assemble(ast)
}

func assemble(ast *spoolFile) ([]Record, error) {
	records := make([]Record, 0, len(ast.Records))
	for _, blk := range ast.Records {
		rec := Record{ID: blk.ID}
		seen := map[string]bool{}
		for _, f := range blk.Fields {
			if seen[f.Key] {
				return nil, fmt.Errorf("record %s: duplicate field %q at %s", blk.ID, f.Key, f.Pos)
			}
			seen[f.Key] = true
			switch f.Key {
			case "author":
				rec.Author = f.Value
			case "date":
				rec.Timestamp = f.Value
			case "avatar":
				rec.AvatarPath = f.Value
			case "image":
				rec.ImagePath = f.Value
			case "text":
				rec.Text = f.Value
			}
		}
		for _, req := range []struct{ key, val string }{
			{"author", rec.Author},
			{"date", rec.Timestamp},
			{"avatar", rec.AvatarPath},
			{"text", rec.Text},
		} {
			if req.val == "" {
				return nil, fmt.Errorf("record %s at %s: missing field %q", blk.ID, blk.Pos, req.key)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
