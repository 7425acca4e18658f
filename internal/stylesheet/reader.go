package stylesheet

import (
	"errors"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ReadExisting tokenizes an existing stylesheet and returns the class and
// identifier selector names it declares. A missing file yields empty sets;
// the caller seeds its "previous" snapshot from the result so the output
// is not rewritten on restart when nothing changed.
func ReadExisting(path string) (classes, ids map[string]struct{}, err error) {
	classes = make(map[string]struct{})
	ids = make(map[string]struct{})

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return classes, ids, nil
		}
		return nil, nil, err
	}

	lexer := css.NewLexer(parse.NewInputBytes(content))
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is the normal end of input.
			break
		}

		// Class selector: '.' delimiter followed by an identifier.
		if tt == css.DelimToken && len(text) > 0 && text[0] == '.' {
			tt2, name := lexer.Next()
			if tt2 == css.IdentToken {
				classes[string(name)] = struct{}{}
			}
			continue
		}

		// Identifier selector: hash token, text includes the '#'.
		if tt == css.HashToken {
			name := strings.TrimPrefix(string(text), "#")
			if name != "" {
				ids[name] = struct{}{}
			}
		}
	}

	return classes, ids, nil
}
