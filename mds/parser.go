package mds

import (
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
	"golang.org/x/text/transform"

	"github.com/CarnageMarkus/GothicAnimsDecompile/config"
)

const (
	TOKEN_IDENT = iota
	TOKEN_TAG
	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_LBRACE
	TOKEN_RBRACE
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[a-zA-Z]+:[ \t]*[\+\-]?[0-9]*\.?[0-9]+`), getToken(TOKEN_TAG))
	lexer.Add([]byte(`[\+\-]?[0-9]*\.?[0-9]+`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`[\*a-zA-Z_\.][a-zA-Z0-9_\.\-]*`), getToken(TOKEN_IDENT))
	lexer.Add([]byte(`"(\\.|[^"])*"`), getToken(TOKEN_STRING))
	lexer.Add([]byte(`\(`), getToken(TOKEN_LPAREN))
	lexer.Add([]byte(`\)`), getToken(TOKEN_RPAREN))
	lexer.Add([]byte(`\{`), getToken(TOKEN_LBRACE))
	lexer.Add([]byte(`\}`), getToken(TOKEN_RBRACE))
	lexer.Add([]byte(`//[^\n]*`), skip)
	lexer.Add([]byte(`\s+`), skip)
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type parser struct {
	tokens []*lexmachine.Token
	pos    int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) next() *lexmachine.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *parser) peekIs(tokenType int) bool {
	return !p.eof() && p.tokens[p.pos].Type == tokenType
}

func (p *parser) expect(tokenType int, what string) (*lexmachine.Token, error) {
	if p.eof() {
		return nil, errors.Errorf("Expected %s, got end of script", what)
	}
	tok := p.next()
	if tok.Type != tokenType {
		return nil, errors.Errorf("Expected %s on line %v (%q)", what, tok.StartLine, tok.Lexeme)
	}
	return tok, nil
}

func (p *parser) str() (string, error) {
	tok, err := p.expect(TOKEN_STRING, "string")
	if err != nil {
		return "", err
	}
	s, err := strconv.Unquote(string(tok.Lexeme))
	if err != nil {
		return "", errors.Errorf("Unknown string format on line %v (%q)", tok.StartLine, tok.Lexeme)
	}
	return s, nil
}

// word accepts both a bare and a quoted value: flags and directions
// appear unquoted in most scripts, quoted in a few.
func (p *parser) word(what string) (string, error) {
	if p.peekIs(TOKEN_STRING) {
		return p.str()
	}
	tok, err := p.expect(TOKEN_IDENT, what)
	if err != nil {
		return "", err
	}
	return string(tok.Lexeme), nil
}

func (p *parser) integer() (int32, error) {
	tok, err := p.expect(TOKEN_NUMBER, "number")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(string(tok.Lexeme), 10, 32)
	if err != nil {
		// some scripts write frame numbers as floats
		f, ferr := strconv.ParseFloat(string(tok.Lexeme), 32)
		if ferr != nil {
			return 0, errors.Errorf("Unknown number format on line %v (%q)", tok.StartLine, tok.Lexeme)
		}
		return int32(f), nil
	}
	return int32(v), nil
}

func (p *parser) float() (float32, error) {
	tok, err := p.expect(TOKEN_NUMBER, "number")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(string(tok.Lexeme), 32)
	if err != nil {
		return 0, errors.Errorf("Unknown number format on line %v (%q)", tok.StartLine, tok.Lexeme)
	}
	return float32(v), nil
}

// skipParens consumes a balanced ( ... ) group, nesting included.
func (p *parser) skipParens() error {
	if _, err := p.expect(TOKEN_LPAREN, `"("`); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.eof() {
			return errors.Errorf("Unbalanced parentheses at end of script")
		}
		switch p.next().Type {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
		}
	}
	return nil
}

// parenString reads the first string of a ( ... ) group and drains the
// rest of the group.
func (p *parser) parenString() (string, error) {
	if _, err := p.expect(TOKEN_LPAREN, `"("`); err != nil {
		return "", err
	}
	result := ""
	for !p.eof() {
		tok := p.next()
		if tok.Type == TOKEN_RPAREN {
			return result, nil
		}
		if tok.Type == TOKEN_STRING && result == "" {
			if s, err := strconv.Unquote(string(tok.Lexeme)); err == nil {
				result = s
			}
		}
	}
	return "", errors.Errorf("Unbalanced parentheses at end of script")
}

// parseAni parses the argument list of an "ani" declaration:
// name layer next blendIn blendOut flags model direction
// firstFrame lastFrame, then optional FPS:/CVS: tags.
func (p *parser) parseAni() (*Animation, error) {
	if _, err := p.expect(TOKEN_LPAREN, `"("`); err != nil {
		return nil, err
	}

	ani := &Animation{FPS: 25.0, CVS: 1.0}

	var err error
	if ani.Name, err = p.str(); err != nil {
		return nil, err
	}
	if ani.Layer, err = p.integer(); err != nil {
		return nil, err
	}
	if ani.Next, err = p.str(); err != nil {
		return nil, err
	}
	if ani.BlendIn, err = p.float(); err != nil {
		return nil, err
	}
	if ani.BlendOut, err = p.float(); err != nil {
		return nil, err
	}
	if ani.Flags, err = p.word("flags"); err != nil {
		return nil, err
	}
	if ani.Model, err = p.str(); err != nil {
		return nil, err
	}
	if ani.Direction, err = p.word("direction"); err != nil {
		return nil, err
	}
	ani.Direction = strings.ToUpper(ani.Direction)
	if ani.FirstFrame, err = p.integer(); err != nil {
		return nil, err
	}
	if ani.LastFrame, err = p.integer(); err != nil {
		return nil, err
	}

	for !p.eof() {
		tok := p.next()
		if tok.Type == TOKEN_RPAREN {
			return ani, nil
		}
		if tok.Type != TOKEN_TAG {
			continue
		}

		name, value, _ := strings.Cut(string(tok.Lexeme), ":")
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
		if err != nil {
			return nil, errors.Errorf("Unknown tag format on line %v (%q)", tok.StartLine, tok.Lexeme)
		}
		switch strings.ToUpper(name) {
		case "FPS":
			ani.FPS = float32(f)
		case "SPD":
			ani.Speed = float32(f)
		case "CVS":
			ani.CVS = float32(f)
		}
	}
	return nil, errors.Errorf("Unterminated ani declaration (%q)", ani.Name)
}

// ParseScript parses the text form of a model script. Only the
// declarations the reconstruction cares about are modelled; aliases,
// blends, combs and event blocks are consumed and dropped.
func ParseScript(text []byte, name string) (*Script, error) {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	tokens := make([]*lexmachine.Token, 0, 256)
	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tokens = append(tokens, itok.(*lexmachine.Token))
	}

	p := &parser{tokens: tokens}
	script := &Script{Name: name}

	for !p.eof() {
		tok := p.next()
		if tok.Type != TOKEN_IDENT {
			continue
		}

		switch strings.ToLower(string(tok.Lexeme)) {
		case "model":
			s, err := p.parenString()
			if err != nil {
				return nil, err
			}
			if s != "" {
				script.Name = s
			}
		case "meshandtree":
			s, err := p.parenString()
			if err != nil {
				return nil, err
			}
			script.MeshAndTree = s
		case "registermesh":
			s, err := p.parenString()
			if err != nil {
				return nil, err
			}
			if s != "" {
				script.Meshes = append(script.Meshes, s)
			}
		case "ani":
			ani, err := p.parseAni()
			if err != nil {
				return nil, errors.Wrapf(err, "Failed to parse ani declaration")
			}
			script.Animations = append(script.Animations, ani)
		case "anienum":
			// brace block handled by the top-level loop
		default:
			if p.peekIs(TOKEN_LPAREN) {
				if err := p.skipParens(); err != nil {
					return nil, err
				}
			}
		}
	}

	return script, nil
}

// ParseFile reads a model script from disk, transcoding it from the
// configured game code page.
func ParseFile(path string) (*Script, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read script %q", path)
	}

	text, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), raw)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode script %q", path)
	}

	return ParseScript(text, ScriptName(path))
}
