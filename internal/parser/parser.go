// Package parser implements a recursive-descent parser for Compiscript,
// built directly over the precedence ladder the specification assigns to
// the expression evaluator (§4.2): assignment -> conditional -> logicalOr
// -> logicalAnd -> equality -> relational -> additive -> multiplicative
// -> unary -> primary -> leftHandSide -> primaryAtom -> suffixOps.
//
// Like package lexer, this is the external collaborator the core assumes
// (§1); it exists so the pipeline can be driven end-to-end from source
// text in tests and the CLI driver.
package parser

import (
	"fmt"
	"strconv"

	"compiscript/internal/ast"
	"compiscript/internal/token"
)

// Parser consumes a flat token slice and builds an ast.Program.
type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	if p.pos+offset >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt token.Type) bool { return p.peek().Type == tt }

func (p *Parser) match(types ...token.Type) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	tok := p.peek()
	return tok, fmt.Errorf("line %d:%d - expected %s but found %q", tok.Line, tok.Column, tt, tok.Lexeme)
}

func pos(t token.Token) ast.Pos { return ast.Pos{Line: t.Line, Column: t.Column} }

// Parse runs a full program parse.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := New(tokens)
	prog := &ast.Program{}
	for !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

//  Statements

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.peek().Type {
	case token.LET, token.VAR:
		return p.parseVariableDeclaration()
	case token.CONST:
		return p.parseConstantDeclaration()
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.FOR:
		return p.parseFor()
	case token.FOREACH:
		return p.parseForeach()
	case token.BREAK:
		t := p.advance()
		_, err := p.expect(token.SEMICOLON)
		return &ast.BreakStmt{At: pos(t)}, err
	case token.CONTINUE:
		t := p.advance()
		_, err := p.expect(token.SEMICOLON)
		return &ast.ContinueStmt{At: pos(t)}, err
	case token.RETURN:
		return p.parseReturn()
	case token.PRINT:
		return p.parsePrint()
	case token.TRY:
		return p.parseTryCatch()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *Parser) parseTypeAnnotation() (*ast.TypeAnnotation, error) {
	tok := p.peek()
	var base string
	switch tok.Type {
	case token.INTEGER_TYPE, token.STRING_TYPE, token.BOOLEAN_TYPE, token.FLOAT_TYPE, token.VOID_TYPE, token.IDENT:
		base = tok.Lexeme
		p.advance()
	default:
		return nil, fmt.Errorf("line %d:%d - expected a type name but found %q", tok.Line, tok.Column, tok.Lexeme)
	}
	depth := 0
	for p.check(token.LBRACKET) {
		p.advance()
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		depth++
	}
	return &ast.TypeAnnotation{BaseType: base, ArrayDepth: depth, Pos: pos(tok)}, nil
}

func (p *Parser) parseVariableDeclaration() (ast.Stmt, error) {
	kw := p.advance() // let/var
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Name: name.Lexeme, At: pos(kw)}
	if p.match(token.COLON) {
		ann, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		decl.Annotation = ann
	}
	if p.match(token.ASSIGN) {
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseConstantDeclaration() (ast.Stmt, error) {
	kw := p.advance() // const
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.ConstantDeclaration{Name: name.Lexeme, At: pos(kw)}
	if p.match(token.COLON) {
		ann, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		decl.Annotation = ann
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	decl.Init = init
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseParams() ([]ast.Parameter, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Parameter
	for !p.check(token.RPAREN) {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		param := ast.Parameter{Name: name.Lexeme, At: pos(name)}
		if p.match(token.COLON) {
			ann, err := p.parseTypeAnnotation()
			if err != nil {
				return nil, err
			}
			param.Annotation = ann
		}
		params = append(params, param)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFunctionDeclaration() (ast.Stmt, error) {
	kw := p.advance() // function
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	decl := &ast.FunctionDeclaration{Name: name.Lexeme, Params: params, At: pos(kw)}
	if p.match(token.COLON) {
		ann, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		decl.ReturnType = ann
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	decl.Body = body.(*ast.BlockStmt)
	return decl, nil
}

func (p *Parser) parseClassDeclaration() (ast.Stmt, error) {
	kw := p.advance() // class
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.ClassDeclaration{Name: name.Lexeme, At: pos(kw)}
	if p.match(token.COLON) { // "class Name : Parent" extension form
		parent, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		decl.ParentName = parent.Lexeme
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	for !p.check(token.RBRACE) {
		switch {
		case p.check(token.IDENT) && p.peek().Lexeme == "init":
			initTok := p.advance()
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			decl.Init = &ast.InitMethod{Params: params, Body: body.(*ast.BlockStmt), At: pos(initTok)}
		case p.check(token.FUNCTION):
			method, err := p.parseFunctionDeclaration()
			if err != nil {
				return nil, err
			}
			decl.Methods = append(decl.Methods, method.(*ast.FunctionDeclaration))
		case p.check(token.LET) || p.check(token.VAR):
			attr, err := p.parseVariableDeclaration()
			if err != nil {
				return nil, err
			}
			decl.Attributes = append(decl.Attributes, attr.(*ast.VariableDeclaration))
		default:
			tok := p.peek()
			return nil, fmt.Errorf("line %d:%d - unexpected token %q inside class body", tok.Line, tok.Column, tok.Lexeme)
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseBlock() (ast.Stmt, error) {
	open, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.BlockStmt{At: pos(open)}
	for !p.check(token.RBRACE) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Condition: cond, Then: then, At: pos(kw)}
	if p.match(token.ELSE) {
		elseStmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: cond, Body: body, At: pos(kw)}, nil
}

func (p *Parser) parseDoWhile() (ast.Stmt, error) {
	kw := p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Body: body, Condition: cond, At: pos(kw)}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	stmt := &ast.ForStmt{At: pos(kw)}
	if !p.check(token.SEMICOLON) {
		init, err := p.parseForInit()
		if err != nil {
			return nil, err
		}
		stmt.Init = init
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	if !p.check(token.SEMICOLON) {
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	if !p.check(token.RPAREN) {
		post, err := p.parseForPost()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// parseForInit parses the initializer clause of a for-loop header, which
// (unlike a regular statement) is not itself semicolon-terminated here:
// the caller consumes the shared separating semicolon.
func (p *Parser) parseForInit() (ast.Stmt, error) {
	if p.check(token.LET) || p.check(token.VAR) {
		kw := p.advance()
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		decl := &ast.VariableDeclaration{Name: name.Lexeme, At: pos(kw)}
		if p.match(token.COLON) {
			ann, err := p.parseTypeAnnotation()
			if err != nil {
				return nil, err
			}
			decl.Annotation = ann
		}
		if p.match(token.ASSIGN) {
			init, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			decl.Init = init
		}
		return decl, nil
	}
	return p.parseBareAssignOrExprStmt()
}

func (p *Parser) parseForPost() (ast.Stmt, error) {
	return p.parseBareAssignOrExprStmt()
}

// parseBareAssignOrExprStmt parses an assignment or expression without
// requiring a trailing semicolon, for use inside a for-loop header.
func (p *Parser) parseBareAssignOrExprStmt() (ast.Stmt, error) {
	start := p.pos
	expr, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.check(token.ASSIGN) {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: expr, Value: value, At: expr.Start()}, nil
	}
	_ = start
	return &ast.ExpressionStmt{Expr: expr, At: expr.Start()}, nil
}

func (p *Parser) parseForeach() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForeachStmt{VarName: name.Lexeme, Iterable: iterable, Body: body, At: pos(kw)}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.advance()
	stmt := &ast.ReturnStmt{At: pos(kw)}
	if !p.check(token.SEMICOLON) {
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	_, err := p.expect(token.SEMICOLON)
	return stmt, err
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	_, err = p.expect(token.SEMICOLON)
	return &ast.PrintStmt{Value: val, At: pos(kw)}, err
}

func (p *Parser) parseTryCatch() (ast.Stmt, error) {
	kw := p.advance()
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CATCH); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	param, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	catchBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.TryCatchStmt{
		Try: tryBlock.(*ast.BlockStmt), CatchParam: param.Lexeme,
		Catch: catchBlock.(*ast.BlockStmt), At: pos(kw),
	}, nil
}

// parseExpressionOrAssignStatement disambiguates `expr;` from the three
// assignment forms by parsing a left-hand-side-capable expression first
// and checking for a following `=`.
func (p *Parser) parseExpressionOrAssignStatement() (ast.Stmt, error) {
	expr, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.check(token.ASSIGN) {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: expr, Value: value, At: expr.Start()}, nil
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr, At: expr.Start()}, nil
}

//  Expressions: assignment -> conditional -> logicalOr -> logicalAnd ->
//  equality -> relational -> additive -> multiplicative -> unary ->
//  primary -> leftHandSide -> primaryAtom -> suffixOps

func (p *Parser) parseExpression() (ast.Expr, error) { return p.parseAssignment() }

func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.check(token.ASSIGN) {
		eq := p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Target: left, Value: value, At: pos(eq)}, nil
	}
	return left, nil
}

func (p *Parser) parseConditional() (ast.Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.check(token.QUESTION) {
		q := p.advance()
		thenExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Cond: cond, Then: thenExpr, Else: elseExpr, At: pos(q)}, nil
	}
	return cond, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR_LOGICAL) {
		op := p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Op: "||", Left: left, Right: right, At: pos(op)}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND_LOGICAL) {
		op := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Op: "&&", Left: left, Right: right, At: pos(op)}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.check(token.EQUALS) || p.check(token.NOT_EQ) {
		op := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, At: pos(op)}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.check(token.LESS) || p.check(token.LESS_EQ) || p.check(token.GREATER) || p.check(token.GREATER_EQ) {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, At: pos(op)}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, At: pos(op)}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, At: pos(op)}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.check(token.MINUS) || p.check(token.NOT) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Lexeme, Right: right, At: pos(op)}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) { return p.parseLeftHandSide() }

func (p *Parser) parseLeftHandSide() (ast.Expr, error) {
	expr, err := p.parsePrimaryAtom()
	if err != nil {
		return nil, err
	}
	return p.parseSuffixOps(expr)
}

func (p *Parser) parsePrimaryAtom() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case token.INTEGER:
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d:%d - invalid integer literal %q", tok.Line, tok.Column, tok.Lexeme)
		}
		return &ast.IntegerLiteral{Value: v, At: pos(tok)}, nil
	case token.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d:%d - invalid float literal %q", tok.Line, tok.Column, tok.Lexeme)
		}
		return &ast.FloatLiteral{Value: v, At: pos(tok)}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Value: tok.Lexeme, At: pos(tok)}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true, At: pos(tok)}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false, At: pos(tok)}, nil
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{At: pos(tok)}, nil
	case token.THIS:
		p.advance()
		return &ast.ThisExpr{At: pos(tok)}, nil
	case token.SUPER:
		p.advance()
		return &ast.SuperExpr{At: pos(tok)}, nil
	case token.NEW:
		return p.parseNew()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Name: tok.Lexeme, At: pos(tok)}, nil
	default:
		return nil, fmt.Errorf("line %d:%d - unexpected token %q in expression", tok.Line, tok.Column, tok.Lexeme)
	}
}

func (p *Parser) parseNew() (ast.Expr, error) {
	kw := p.advance() // new
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.NewExpr{ClassName: name.Lexeme, Args: args, At: pos(kw)}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expr, error) {
	open := p.advance() // [
	lit := &ast.ArrayLiteral{At: pos(open)}
	for !p.check(token.RBRACKET) {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, elem)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for !p.check(token.RPAREN) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseSuffixOps(expr ast.Expr) (ast.Expr, error) {
	for {
		switch p.peek().Type {
		case token.LBRACKET:
			open := p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Array: expr, Index: idx, At: pos(open)}
		case token.DOT:
			p.advance()
			member, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			access := &ast.MemberAccessExpr{Object: expr, Member: member.Lexeme, At: pos(member)}
			if p.check(token.LPAREN) {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = &ast.CallExpr{Callee: access, Args: args, At: pos(member)}
			} else {
				expr = access
			}
		case token.LPAREN:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Callee: expr, Args: args, At: expr.Start()}
		default:
			return expr, nil
		}
	}
}
