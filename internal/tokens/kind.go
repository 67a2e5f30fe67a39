package tokens

// Kind identifies the lexical category of a token.
type Kind int

const (
	KindInlineHTML Kind = iota
	KindOpenTag
	KindOpenTagWithEcho
	KindCloseTag
	KindWhitespace
	KindComment
	KindDocComment
	KindVariable
	KindIdentifier
	KindKeyword
	KindNumber
	KindConstantString
	KindInterpolatedString
	KindCast
	KindOpenParen
	KindCloseParen
	KindOpenBracket
	KindCloseBracket
	KindOpenBrace
	KindCloseBrace
	KindAttributeOpen
	KindSemicolon
	KindComma
	KindColon
	KindQuestion
	KindAmpersand
	KindAssign
	KindDoubleArrow
	KindObjectOperator
	KindNullsafeObjectOperator
	KindDoubleColon
	KindEllipsis
	KindNsSeparator
	KindDollar
	KindOperator
)

var kindNames = map[Kind]string{
	KindInlineHTML:             "InlineHTML",
	KindOpenTag:                "OpenTag",
	KindOpenTagWithEcho:        "OpenTagWithEcho",
	KindCloseTag:               "CloseTag",
	KindWhitespace:             "Whitespace",
	KindComment:                "Comment",
	KindDocComment:             "DocComment",
	KindVariable:               "Variable",
	KindIdentifier:             "Identifier",
	KindKeyword:                "Keyword",
	KindNumber:                 "Number",
	KindConstantString:         "ConstantString",
	KindInterpolatedString:     "InterpolatedString",
	KindCast:                   "Cast",
	KindOpenParen:              "OpenParen",
	KindCloseParen:             "CloseParen",
	KindOpenBracket:            "OpenBracket",
	KindCloseBracket:           "CloseBracket",
	KindOpenBrace:              "OpenBrace",
	KindCloseBrace:             "CloseBrace",
	KindAttributeOpen:          "AttributeOpen",
	KindSemicolon:              "Semicolon",
	KindComma:                  "Comma",
	KindColon:                  "Colon",
	KindQuestion:               "Question",
	KindAmpersand:              "Ampersand",
	KindAssign:                 "Assign",
	KindDoubleArrow:            "DoubleArrow",
	KindObjectOperator:         "ObjectOperator",
	KindNullsafeObjectOperator: "NullsafeObjectOperator",
	KindDoubleColon:            "DoubleColon",
	KindEllipsis:               "Ellipsis",
	KindNsSeparator:            "NsSeparator",
	KindDollar:                 "Dollar",
	KindOperator:               "Operator",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// punctuation maps fixed operator spellings to their dedicated kinds. Anything
// absent here lexes as KindOperator.
var punctuation = map[string]Kind{
	"(":   KindOpenParen,
	")":   KindCloseParen,
	"[":   KindOpenBracket,
	"]":   KindCloseBracket,
	"{":   KindOpenBrace,
	"}":   KindCloseBrace,
	";":   KindSemicolon,
	",":   KindComma,
	":":   KindColon,
	"?":   KindQuestion,
	"&":   KindAmpersand,
	"=":   KindAssign,
	"=>":  KindDoubleArrow,
	"->":  KindObjectOperator,
	"?->": KindNullsafeObjectOperator,
	"::":  KindDoubleColon,
	"...": KindEllipsis,
	"\\":  KindNsSeparator,
	"$":   KindDollar,
}

// operators lists every multi-character operator, longest first.
var operators = []string{
	"<<=", ">>=", "**=", "...", "<=>", "===", "!==", "??=", "?->",
	"==", "!=", "<>", "<=", ">=", "&&", "||", "++", "--", "+=", "-=", "*=", "/=",
	".=", "%=", "&=", "|=", "^=", "->", "=>", "::", "<<", ">>", "??", "**",
}

const singleOperators = "()[]{};,:?&=+-*/%!.<>|^~@$\\"

var keywords = map[string]struct{}{}

func init() {
	for _, word := range []string{
		"abstract", "and", "array", "as", "break", "callable", "case", "catch", "class",
		"clone", "const", "continue", "declare", "default", "die", "do", "echo", "else",
		"elseif", "empty", "enddeclare", "endfor", "endforeach", "endif", "endswitch",
		"endwhile", "eval", "exit", "extends", "final", "finally", "fn", "for", "foreach",
		"function", "global", "goto", "if", "implements", "include", "include_once",
		"instanceof", "insteadof", "interface", "isset", "list", "match", "namespace", "new",
		"or", "print", "private", "protected", "public", "readonly", "require",
		"require_once", "return", "static", "switch", "throw", "trait", "try", "unset",
		"use", "var", "while", "xor", "yield",
	} {
		keywords[word] = struct{}{}
	}
}

var castTypes = map[string]struct{}{
	"int": {}, "integer": {}, "bool": {}, "boolean": {}, "float": {}, "double": {},
	"real": {}, "string": {}, "binary": {}, "array": {}, "object": {}, "unset": {},
}
