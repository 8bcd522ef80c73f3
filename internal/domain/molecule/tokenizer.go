package molecule

import "fmt"

// TokenKind discriminates the Token union.
type TokenKind int

const (
	// TokenAtom is an organic-subset or bracketed atom.
	TokenAtom TokenKind = iota
	// TokenBond is one of - = # :
	TokenBond
	// TokenBranchOpen is "(".
	TokenBranchOpen
	// TokenBranchClose is ")".
	TokenBranchClose
	// TokenRingClosure is a ring label, 0-9 or %NN.
	TokenRingClosure
	// TokenDot separates disconnected fragments.
	TokenDot
)

func (k TokenKind) String() string {
	switch k {
	case TokenAtom:
		return "atom"
	case TokenBond:
		return "bond"
	case TokenBranchOpen:
		return "branch_open"
	case TokenBranchClose:
		return "branch_close"
	case TokenRingClosure:
		return "ring_closure"
	case TokenDot:
		return "dot"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a tagged union over TokenKind. Only the payload fields relevant to
// Kind are populated:
//
//	TokenAtom        Text (symbol, or bracket content without [ ]), Bracket
//	TokenBond        Text (the bond symbol), Order
//	TokenRingClosure Ring
type Token struct {
	Kind    TokenKind
	Pos     int
	Text    string
	Bracket bool
	Order   int
	Ring    int
}

func (t Token) String() string {
	switch t.Kind {
	case TokenAtom:
		if t.Bracket {
			return "[" + t.Text + "]"
		}
		return t.Text
	case TokenBond:
		return t.Text
	case TokenBranchOpen:
		return "("
	case TokenBranchClose:
		return ")"
	case TokenRingClosure:
		if t.Ring > 9 {
			return fmt.Sprintf("%%%02d", t.Ring)
		}
		return fmt.Sprintf("%d", t.Ring)
	case TokenDot:
		return "."
	}
	return ""
}

// organicSingle holds the single-letter organic subset, aromatic forms included.
var organicSingle = map[byte]bool{
	'B': true, 'C': true, 'N': true, 'O': true, 'P': true, 'S': true, 'F': true, 'I': true,
	'b': true, 'c': true, 'n': true, 'o': true, 'p': true, 's': true,
}

// bondOrders maps bond symbols to their integer order. Aromatic ":" counts as 1.
var bondOrders = map[byte]int{
	'-': 1,
	'=': 2,
	'#': 3,
	':': 1,
}

// Tokenize scans a SMILES string into tokens. It never fails: characters
// outside the recognized grammar (stereo bonds, stray punctuation, whitespace)
// are skipped.
func Tokenize(smiles string) []Token {
	tokens := make([]Token, 0, len(smiles))
	for i := 0; i < len(smiles); {
		ch := smiles[i]
		switch {
		case ch == '[':
			end := i + 1
			for end < len(smiles) && smiles[end] != ']' {
				end++
			}
			tokens = append(tokens, Token{Kind: TokenAtom, Pos: i, Text: smiles[i+1 : end], Bracket: true})
			i = end + 1

		case ch == 'C' && i+1 < len(smiles) && smiles[i+1] == 'l',
			ch == 'B' && i+1 < len(smiles) && smiles[i+1] == 'r':
			tokens = append(tokens, Token{Kind: TokenAtom, Pos: i, Text: smiles[i : i+2]})
			i += 2

		case organicSingle[ch]:
			tokens = append(tokens, Token{Kind: TokenAtom, Pos: i, Text: string(ch)})
			i++

		case bondOrders[ch] > 0:
			tokens = append(tokens, Token{Kind: TokenBond, Pos: i, Text: string(ch), Order: bondOrders[ch]})
			i++

		case ch == '(':
			tokens = append(tokens, Token{Kind: TokenBranchOpen, Pos: i})
			i++

		case ch == ')':
			tokens = append(tokens, Token{Kind: TokenBranchClose, Pos: i})
			i++

		case ch >= '0' && ch <= '9':
			tokens = append(tokens, Token{Kind: TokenRingClosure, Pos: i, Ring: int(ch - '0')})
			i++

		case ch == '%' && i+2 < len(smiles) && isDigit(smiles[i+1]) && isDigit(smiles[i+2]):
			label := int(smiles[i+1]-'0')*10 + int(smiles[i+2]-'0')
			tokens = append(tokens, Token{Kind: TokenRingClosure, Pos: i, Ring: label})
			i += 3

		case ch == '.':
			tokens = append(tokens, Token{Kind: TokenDot, Pos: i})
			i++

		default:
			i++
		}
	}
	return tokens
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

//Personal.AI order the ending
