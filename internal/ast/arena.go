package ast

// The expression and statement nodes produced during synthesis live in an
// Arena owned by the compilation unit. Nodes are addressed by handle
// (ExprID/BlockID); construction functions return handles, never pointers
// into the arena.

// ExprID is a handle to an expression node in an Arena.
type ExprID int32

// NoExpr is the absent-expression handle.
const NoExpr ExprID = -1

// BlockID is a handle to a statement block in an Arena.
type BlockID int32

// NoBlock is the absent-block handle.
const NoBlock BlockID = -1

// ExprKind discriminates the expression node kinds the synthesizer emits.
type ExprKind uint8

const (
	// ExprDeclRef is a reference to a declaration (self, a parameter, a function).
	ExprDeclRef ExprKind = iota
	// ExprMember is a member access base.member, resolved to a declaration.
	ExprMember
	// ExprInOut is a mutable reference &operand.
	ExprInOut
	// ExprCall is a call callee(args...) with per-argument labels.
	ExprCall
)

// Expr is one expression node. Which fields are meaningful depends on Kind.
type Expr struct {
	Kind     ExprKind
	Target   Decl     // ExprDeclRef, ExprMember: the referenced declaration
	Base     ExprID   // ExprMember: base; ExprInOut: operand
	Callee   ExprID   // ExprCall
	Args     []ExprID // ExprCall
	Labels   []string // ExprCall: argument labels, "" for unlabeled
	Implicit bool
}

// Block is an ordered statement sequence. The synthesizer only ever emits
// expression statements, so a block is a list of expression handles.
type Block struct {
	Exprs    []ExprID
	Implicit bool
}

// Arena owns all expression and statement nodes of one compilation unit.
type Arena struct {
	exprs  []Expr
	blocks []Block
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) addExpr(e Expr) ExprID {
	a.exprs = append(a.exprs, e)
	return ExprID(len(a.exprs) - 1)
}

// Expr returns the node for a handle. The pointer is valid until the next
// node is added.
func (a *Arena) Expr(id ExprID) *Expr {
	return &a.exprs[id]
}

// Block returns the block for a handle.
func (a *Arena) Block(id BlockID) *Block {
	return &a.blocks[id]
}

// NumExprs reports how many expression nodes the arena holds.
func (a *Arena) NumExprs() int {
	return len(a.exprs)
}

// NewDeclRef builds an implicit reference to a declaration.
func (a *Arena) NewDeclRef(target Decl) ExprID {
	return a.addExpr(Expr{Kind: ExprDeclRef, Target: target, Base: NoExpr, Callee: NoExpr, Implicit: true})
}

// NewMember builds an implicit member access base.target.
func (a *Arena) NewMember(base ExprID, target Decl) ExprID {
	return a.addExpr(Expr{Kind: ExprMember, Target: target, Base: base, Callee: NoExpr, Implicit: true})
}

// NewInOut builds a mutable reference &operand.
func (a *Arena) NewInOut(operand ExprID) ExprID {
	return a.addExpr(Expr{Kind: ExprInOut, Base: operand, Callee: NoExpr, Implicit: true})
}

// NewCall builds an implicit call. labels must have one entry per argument;
// "" marks an unlabeled argument.
func (a *Arena) NewCall(callee ExprID, args []ExprID, labels []string) ExprID {
	if len(labels) != len(args) {
		panic("ast: NewCall: label count does not match argument count")
	}
	return a.addExpr(Expr{Kind: ExprCall, Base: NoExpr, Callee: callee, Args: args, Labels: labels, Implicit: true})
}

// NewBlock builds an implicit statement block from expression statements.
func (a *Arena) NewBlock(exprs []ExprID) BlockID {
	a.blocks = append(a.blocks, Block{Exprs: exprs, Implicit: true})
	return BlockID(len(a.blocks) - 1)
}
