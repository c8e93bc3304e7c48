package ast

// LibraryDeclaration is the mandatory first statement of a library file,
// `library NAME`, whose name must equal the file's stem (§3.6, §4.7).
type LibraryDeclaration struct {
	Base
	Name string
}

func (l *LibraryDeclaration) statementNode() {}
func (l *LibraryDeclaration) String() string { return "library " + l.Name }

// ExportStatement marks a const or function declaration as part of a
// library's public surface (§3.2).
type ExportStatement struct {
	Base
	Const *ConstStatement   // set iff exporting a const
	Func  *FunctionDefNode  // set iff exporting a function
}

func (e *ExportStatement) statementNode() {}
func (e *ExportStatement) String() string {
	if e.Func != nil {
		return "export " + e.Func.String()
	}
	return "export " + e.Const.String()
}

// ImportStatement covers both import shapes of §4.7:
//   import ALIAS from "path"          (Alias != "", Names == nil)
//   from "path" import a, b, c        (Alias == "", Names != nil)
type ImportStatement struct {
	Base
	Alias string
	Names []string
	Path  string
}

func (i *ImportStatement) statementNode() {}
func (i *ImportStatement) String() string {
	if i.Alias != "" {
		return "import " + i.Alias + " from \"" + i.Path + "\""
	}
	return "from \"" + i.Path + "\" import ..."
}
