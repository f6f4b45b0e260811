package gcode

import (
	"bufio"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// Parser reads motion-bearing blocks from G-code text.
//
// Only lines starting with a G word are returned. Comments are
// stripped and everything is uppercased before splitting into words.
type Parser struct{ br *bufio.Reader }

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

var (
	rxComment = regexp.MustCompile(`\(.*?\)`)
	// E followed by a digit or sign is an exponent, not a new word.
	rxWord    = regexp.MustCompile(`[A-Z](?:E[+-]?[0-9]|[^A-Z\s])*`)
)

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// normalize strips comments and uppercases a raw line. It returns
// false for lines that are not G commands.
func normalize(s string) (string, bool) {
	s = strings.TrimRight(s, "\r\n")
	if s == "" || !isLetter(s[0]) {
		return "", false
	}
	if s[0] != 'G' && s[0] != 'g' {
		return "", false
	}

	s = rxComment.ReplaceAllString(s, "")
	s = strings.SplitN(s, ";", 2)[0]
	s = strings.SplitN(s, "(", 2)[0]
	return strings.ToUpper(strings.TrimSpace(s)), true
}

// parseLine splits a normalized line into words. A malformed axis word
// leaves the block with only its command word.
func parseLine(s string) (Block, bool) {
	codes := rxWord.FindAllString(s, -1)
	if len(codes) == 0 || codes[0][0] != 'G' {
		return nil, false
	}

	g, err := strconv.ParseFloat(codes[0][1:], 64)
	if err != nil {
		log.Printf("WARN: invalid command word '%s' in line: %s", codes[0], s)
		return nil, false
	}
	res := make(Block, 1, len(codes))
	res[0] = Word{W: 'G', Arg: g}

	for _, c := range codes[1:] {
		val, err := strconv.ParseFloat(c[1:], 64)
		if err != nil {
			log.Printf("WARN: invalid word '%s', ignoring arguments of line: %s", c, s)
			return res[:1], true
		}
		res = append(res, Word{W: c[0], Arg: val})
	}

	return res, true
}

// Read returns the next G block, or io.EOF at the end of the input.
func (p *Parser) Read() (Block, error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}

		s, ok := normalize(s)
		if !ok {
			continue
		}
		b, ok := parseLine(s)
		if !ok {
			continue
		}

		return b, nil
	}
}
