package molecule

import (
	"strconv"
	"strings"

	"github.com/turtacn/molgraph/pkg/errors"
)

// ParseOption tunes Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	strictElements bool
}

// WithStrictElements makes Parse fail with ErrCodeMoleculeUnknownElement when
// a bracket atom does not name a known element, instead of falling back to the
// first letter of its content.
func WithStrictElements() ParseOption {
	return func(o *parseOptions) { o.strictElements = true }
}

// Parse builds a Molecule from a SMILES string. Parsing is lenient: unclosed
// ring labels and unbalanced branches do not abort it (use Validate to detect
// them). The only errors are blank input and, with WithStrictElements, an
// unknown bracket element.
func Parse(smiles string, opts ...ParseOption) (*Molecule, error) {
	if strings.TrimSpace(smiles) == "" {
		return nil, errors.New(errors.CodeMoleculeEmptySMILES, "SMILES must not be empty")
	}
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{
		opts:    o,
		mol:     &Molecule{smiles: smiles},
		current: -1,
		rings:   make(map[int]ringOpening),
	}
	for _, tok := range Tokenize(smiles) {
		if err := b.consume(tok); err != nil {
			return nil, err
		}
	}
	return b.mol, nil
}

// ParseValid runs Validate before Parse. Empty input fails with
// CodeMoleculeEmptySMILES; any other structural problem fails with
// CodeMoleculeInvalidSMILES carrying the validation reason as detail.
func ParseValid(smiles string, opts ...ParseOption) (*Molecule, error) {
	if strings.TrimSpace(smiles) == "" {
		return nil, errors.New(errors.CodeMoleculeEmptySMILES, "SMILES must not be empty")
	}
	if res := Validate(smiles); !res.Valid {
		return nil, errors.New(errors.CodeMoleculeInvalidSMILES, "invalid SMILES").WithDetail(res.Reason)
	}
	return Parse(smiles, opts...)
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(smiles string) *Molecule {
	m, err := Parse(smiles)
	if err != nil {
		panic(err)
	}
	return m
}

type ringOpening struct {
	atom   int
	order  int
	symbol string
}

// builder holds the call-scoped state of one Parse invocation.
type builder struct {
	opts     parseOptions
	mol      *Molecule
	current  int
	branches []int
	rings    map[int]ringOpening

	// pending bond, set by a bond token and consumed by the next atom or
	// ring label.
	pendingOrder  int
	pendingSymbol string
}

func (b *builder) consume(tok Token) error {
	switch tok.Kind {
	case TokenAtom:
		atom, err := b.newAtom(tok)
		if err != nil {
			return err
		}
		idx := b.addAtom(atom)
		if b.current >= 0 {
			b.addBond(b.current, idx, b.pendingOrder, b.pendingSymbol, false)
		}
		b.current = idx
		b.clearPending()

	case TokenBond:
		b.pendingOrder = tok.Order
		b.pendingSymbol = tok.Text

	case TokenBranchOpen:
		b.branches = append(b.branches, b.current)

	case TokenBranchClose:
		if n := len(b.branches); n > 0 {
			b.current = b.branches[n-1]
			b.branches = b.branches[:n-1]
		}

	case TokenRingClosure:
		b.ringLabel(tok.Ring)

	case TokenDot:
		b.current = -1
		b.clearPending()
	}
	return nil
}

func (b *builder) ringLabel(label int) {
	if b.current < 0 {
		return
	}
	open, ok := b.rings[label]
	if !ok {
		b.rings[label] = ringOpening{atom: b.current, order: b.pendingOrder, symbol: b.pendingSymbol}
		b.clearPending()
		return
	}
	delete(b.rings, label)

	order, symbol := b.pendingOrder, b.pendingSymbol
	if symbol == "" {
		order, symbol = open.order, open.symbol
	}
	b.clearPending()
	if open.atom == b.current {
		return
	}
	b.addBond(open.atom, b.current, order, symbol, true)
	b.mol.ringClosures++
}

func (b *builder) clearPending() {
	b.pendingOrder = 0
	b.pendingSymbol = ""
}

func (b *builder) addAtom(a Atom) int {
	a.Index = len(b.mol.atoms)
	b.mol.atoms = append(b.mol.atoms, a)
	b.mol.incident = append(b.mol.incident, nil)
	return a.Index
}

func (b *builder) addBond(from, to, order int, symbol string, ringClosure bool) {
	if order <= 0 {
		order = 1
	}
	atoms := b.mol.atoms
	bond := Bond{
		From:        from,
		To:          to,
		Order:       order,
		Explicit:    symbol != "",
		Aromatic:    symbol == ":" || (symbol == "" && atoms[from].Aromatic && atoms[to].Aromatic),
		RingClosure: ringClosure,
	}
	idx := len(b.mol.bonds)
	b.mol.bonds = append(b.mol.bonds, bond)
	b.mol.incident[from] = append(b.mol.incident[from], idx)
	b.mol.incident[to] = append(b.mol.incident[to], idx)
}

func (b *builder) newAtom(tok Token) (Atom, error) {
	if !tok.Bracket {
		sym := tok.Text
		aromatic := isLower(sym[0])
		if aromatic {
			sym = upper(sym[0])
		}
		return Atom{Element: sym, Aromatic: aromatic, Resolved: true}, nil
	}

	atom, residue := parseBracketAtom(tok.Text)
	if !atom.Resolved && b.opts.strictElements {
		return Atom{}, errors.New(errors.ErrCodeMoleculeUnknownElement, "unknown element in bracket atom").
			WithDetail("[" + tok.Text + "] at position " + strconv.Itoa(tok.Pos) + ", residue " + strconv.Quote(residue))
	}
	return atom, nil
}

// chiralityClasses are the extended chirality prefixes (@TH1, @SP2, ...).
var chiralityClasses = []string{"TH", "AL", "SP", "TB", "OH"}

// parseBracketAtom strips, in order, isotope, chirality, atom map and charge,
// then explicit hydrogens, and resolves what remains to an element.
func parseBracketAtom(content string) (Atom, string) {
	atom := Atom{Bracket: true}
	rest := content

	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	if i > 0 {
		atom.Isotope, _ = strconv.Atoi(rest[:i])
		rest = rest[i:]
	}

	if at := strings.IndexByte(rest, '@'); at >= 0 {
		end := at
		for end < len(rest) && rest[end] == '@' {
			end++
		}
		atom.Chirality = rest[at:end]
		for _, class := range chiralityClasses {
			if strings.HasPrefix(rest[end:], class) {
				classEnd := end + len(class)
				for classEnd < len(rest) && isDigit(rest[classEnd]) {
					classEnd++
				}
				atom.Chirality = rest[at:classEnd]
				end = classEnd
				break
			}
		}
		rest = rest[:at] + rest[end:]
	}

	if colon := strings.IndexByte(rest, ':'); colon >= 0 {
		rest = rest[:colon]
	}

	digits := len(rest)
	for digits > 0 && isDigit(rest[digits-1]) {
		digits--
	}
	signs := digits
	for signs > 0 && (rest[signs-1] == '+' || rest[signs-1] == '-') {
		signs--
	}
	if signs < digits {
		sign := 1
		if rest[signs] == '-' {
			sign = -1
		}
		magnitude := digits - signs
		if digits < len(rest) {
			magnitude, _ = strconv.Atoi(rest[digits:])
		}
		atom.Charge = sign * magnitude
		rest = rest[:signs]
	}

	if h := strings.LastIndexByte(rest, 'H'); h > 0 && allDigits(rest[h+1:]) {
		n := 1
		if h+1 < len(rest) {
			n, _ = strconv.Atoi(rest[h+1:])
		}
		atom.ExplicitH = &n
		rest = rest[:h]
	}

	atom.Element, atom.Aromatic, atom.Resolved = resolveElement(rest)
	return atom, rest
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

//Personal.AI order the ending
