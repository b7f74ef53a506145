package crop

import (
	"strconv"

	"github.com/mitranim/sqlb"
)

/*
Query root: the FROM clause of one query. Starts with a single table aliased
as "t0". Joins are registered via `Node.Join`, but registration alone has no
effect on the generated SQL. A join is materialized only when a column under it
is rendered; at that point it receives the next free alias ("t1", "t2", ...),
after its ancestors. Joins that were registered but never referenced are
omitted from the FROM clause.

Because materialization happens during rendering, any expression that
references columns must be rendered before the `From` itself. `Select` and
`Count` take care of this.

A `From` belongs to exactly one query. Nodes obtained from one `From` must not
be used to build expressions for another.
*/
type From struct {
	root Node
	used []*Node
}

var _ = sqlb.Expr((*From)(nil))

func NewFrom(table string) *From {
	self := new(From)
	self.root = Node{from: self, table: table, alias: `t0`}
	return self
}

func (self *From) Root() *Node { return &self.root }

// Materialized joins in order of first use.
func (self *From) Joins() []*Node { return self.used }

// True if a materialized join is to-many, which may duplicate root rows.
func (self *From) HasMany() bool {
	for _, node := range self.used {
		if node.rel.IsMany {
			return true
		}
	}
	return false
}

/*
Implement `sqlb.Expr`. Renders:

	"pets" as "t0" inner join "pet_types" as "t1" on "t1"."id" = "t0"."type_id"
*/
func (self *From) AppendExpr(text []byte, args []any) ([]byte, []any) {
	self.root.appendTable(&text)
	for _, node := range self.used {
		appendStr(&text, ` inner join `)
		node.appendTable(&text)
		appendStr(&text, ` on `)
		appendCol(&text, node.alias, node.rel.Remote)
		appendStr(&text, ` = `)
		appendCol(&text, node.parent.alias, node.rel.Local)
	}
	return text, args
}

func (self *From) String() string { return exprString(self) }

/*
Table reference within a `From`: either the root or a join reached through a
chain of relationships. Joining the same relationship twice from the same node
returns the same child node, so it's materialized at most once.
*/
type Node struct {
	from   *From
	parent *Node
	rel    Rel
	table  string
	alias  string
	kids   map[Rel]*Node
}

// Registers the join without materializing it.
func (self *Node) Join(rel Rel) *Node {
	node := self.kids[rel]
	if node != nil {
		return node
	}

	node = &Node{from: self.from, parent: self, rel: rel, table: rel.Table}
	if self.kids == nil {
		self.kids = map[Rel]*Node{}
	}
	self.kids[rel] = node
	return node
}

// Reference to a column of this node's table.
func (self *Node) Col(name string) Col { return Col{self, name} }

func (self *Node) Table() string { return self.table }

// Empty until the node is materialized.
func (self *Node) Alias() string { return self.alias }

func (self *Node) Parent() *Node { return self.parent }

func (self *Node) use() {
	if self.alias != `` {
		return
	}
	self.parent.use()

	from := self.from
	from.used = append(from.used, self)
	self.alias = `t` + strconv.Itoa(len(from.used))
}

func (self *Node) appendTable(buf *[]byte) {
	appendIdent(buf, self.table)
	appendStr(buf, ` as `)
	appendIdent(buf, self.alias)
}

/*
Column reference qualified by the table alias: `"t1"."code"`. Rendering a
column materializes its node and every ancestor.
*/
type Col struct {
	Node *Node
	Name string
}

var _ = sqlb.Expr(Col{})

// Implement `sqlb.Expr`.
func (self Col) AppendExpr(text []byte, args []any) ([]byte, []any) {
	self.Node.use()
	appendCol(&text, self.Node.alias, self.Name)
	return text, args
}

func (self Col) String() string { return exprString(self) }

func appendCol(buf *[]byte, alias, name string) {
	appendIdent(buf, alias)
	appendStr(buf, `.`)
	appendIdent(buf, name)
}
