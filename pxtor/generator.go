package pxtor

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/nyan233/littlerpc-jsonrpc/core/binder"
)

// Directive 接口方法的文档注释中以它开头的一行使用与契约结构体相同的tag语法
//
//	//jsonrpc: jsonrpc:"add" params:"position:0,1"
const Directive = "//jsonrpc:"

const (
	clientImport   = "github.com/nyan233/littlerpc-jsonrpc/core/client"
	jsonrpc2Import = "github.com/nyan233/littlerpc-jsonrpc/core/common/jsonrpc2"
)

// 生成的代码中使用的标识符, 与它们同名的参数会被重命名
var reserved = map[string]struct{}{
	"p":        {},
	"_":        {},
	"client":   {},
	"context":  {},
	"jsonrpc2": {},
}

type Import struct {
	Name string
	Path string
}

type File struct {
	Package   string
	Interface string
	Proxy     string
	Imports   []Import
	Methods   []*Method
}

// Generate 解析dir下的Go源文件, 为名为iface的接口生成代理的源代码
func Generate(dir, iface string) ([]byte, error) {
	fileSet := token.NewFileSet()
	paths, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, err
	}
	files := make([]*ast.File, 0, len(paths))
	for _, path := range paths {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		astFile, err := parser.ParseFile(fileSet, path, src, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		files = append(files, astFile)
	}
	if _, ok := lookup(files, iface); !ok {
		return nil, fmt.Errorf("pxtor: interface %s not found in %s", iface, dir)
	}
	file, err := Parse(files, iface)
	if err != nil {
		return nil, err
	}
	return Render(file)
}

func findInterface(file *ast.File, name string) *ast.InterfaceType {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)
			if typeSpec.Name.Name != name {
				continue
			}
			if it, ok := typeSpec.Type.(*ast.InterfaceType); ok {
				return it
			}
		}
	}
	return nil
}

// declared 接口的声明以及声明它的文件, 文件决定了包名对应的导入路径
type declared struct {
	file *ast.File
	spec *ast.InterfaceType
}

func lookup(files []*ast.File, name string) (declared, bool) {
	for _, file := range files {
		if it := findInterface(file, name); it != nil {
			return declared{file: file, spec: it}, true
		}
	}
	return declared{}, false
}

// Parse 把接口以及它嵌入的接口的每一个方法转换为Method, files必须属于同一个包
//
//	规则与binder解析契约结构体时相同: 按照层级遍历, 浅层的同名方法覆盖深层的,
//	同一层级来自不同接口的同名方法是有歧义的, 同一个接口被多次嵌入时只展开一次,
//	两个方法不能绑定到同一个wire方法名
func Parse(files []*ast.File, iface string) (*File, error) {
	root, ok := lookup(files, iface)
	if !ok {
		return nil, fmt.Errorf("pxtor: interface %s not found", iface)
	}
	out := &File{
		Package:   root.file.Name.Name,
		Interface: iface,
		Proxy:     iface + "Proxy",
	}
	paths := map[string]Import{
		"context":      {Path: "context"},
		clientImport:   {Path: clientImport},
		jsonrpc2Import: {Path: jsonrpc2Import},
	}
	seen := make(map[string]struct{})
	wires := make(map[string]string)
	expanded := map[string]struct{}{iface: {}}
	level := []string{iface}
	for len(level) > 0 {
		var next []string
		current := make(map[string]string)
		for _, name := range level {
			decl, _ := lookup(files, name)
			if decl.spec.Methods == nil {
				continue
			}
			used := make(map[string]struct{})
			for _, field := range decl.spec.Methods.List {
				if len(field.Names) == 0 {
					embedded, err := embeddedName(field.Type)
					if err != nil {
						return nil, fmt.Errorf("pxtor: %s: %w", name, err)
					}
					if _, ok := lookup(files, embedded); !ok {
						return nil, fmt.Errorf("pxtor: %s: embedded interface %s is not declared in package %s",
							name, embedded, out.Package)
					}
					if _, ok := expanded[embedded]; !ok {
						expanded[embedded] = struct{}{}
						next = append(next, embedded)
					}
					continue
				}
				ft, ok := field.Type.(*ast.FuncType)
				if !ok {
					return nil, fmt.Errorf("pxtor: %s: unsupported interface element", name)
				}
				methodName := field.Names[0].Name
				if _, ok := seen[methodName]; ok {
					continue
				}
				if owner, ok := current[methodName]; ok {
					return nil, fmt.Errorf("pxtor: %s.%s: ambiguous method declared by %s and %s",
						iface, methodName, owner, name)
				}
				current[methodName] = name
				method, err := parseMethod(methodName, field.Doc, ft)
				if err != nil {
					return nil, fmt.Errorf("pxtor: %s.%s: %w", name, methodName, err)
				}
				if other, ok := wires[method.Wire]; ok {
					return nil, fmt.Errorf("pxtor: %s.%s: wire method %q is already bound to %s",
						iface, methodName, method.Wire, other)
				}
				wires[method.Wire] = methodName
				collectPackages(ft, used)
				if i := strings.Index(method.ErrorData, "."); i > 0 {
					used[strings.TrimLeft(method.ErrorData[:i], "*[]")] = struct{}{}
				}
				out.Methods = append(out.Methods, method)
			}
			addImports(paths, decl.file, used)
		}
		for k := range current {
			seen[k] = struct{}{}
		}
		level = next
	}
	if len(out.Methods) == 0 {
		return nil, fmt.Errorf("pxtor: interface %s has no methods", iface)
	}
	out.Imports = sortImports(paths)
	return out, nil
}

// embeddedName 只支持嵌入同一个包中声明的接口
func embeddedName(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, nil
	case *ast.SelectorExpr:
		return "", fmt.Errorf("embedded interface %s from another package is not supported", types.ExprString(e))
	default:
		return "", fmt.Errorf("unsupported embedded element %s", types.ExprString(e))
	}
}

func directive(doc *ast.CommentGroup) (reflect.StructTag, bool) {
	if doc == nil {
		return "", false
	}
	for _, comment := range doc.List {
		if strings.HasPrefix(comment.Text, Directive) {
			return reflect.StructTag(strings.TrimSpace(strings.TrimPrefix(comment.Text, Directive))), true
		}
	}
	return "", false
}

func parseMethod(name string, doc *ast.CommentGroup, ft *ast.FuncType) (*Method, error) {
	tag, ok := directive(doc)
	if !ok {
		return nil, errors.New("missing " + Directive + " directive")
	}
	annotation, err := binder.ParseAnnotation(tag)
	if err != nil {
		return nil, err
	}
	m := &Method{Name: name, Wire: annotation.Method, ErrorData: annotation.ErrorData}
	index := 0
	for _, param := range ft.Params.List {
		typ := types.ExprString(param.Type)
		switch param.Type.(type) {
		case *ast.Ellipsis:
			return nil, errors.New("variadic methods are not supported")
		case *ast.ChanType, *ast.FuncType:
			return nil, fmt.Errorf("parameter of type %s is passed by reference", typ)
		}
		if typ == "unsafe.Pointer" {
			return nil, fmt.Errorf("parameter of type %s is passed by reference", typ)
		}
		names := param.Names
		if len(names) == 0 {
			names = []*ast.Ident{nil}
		}
		for _, ident := range names {
			argName := "arg" + strconv.Itoa(index)
			if ident != nil {
				if _, ok := reserved[ident.Name]; !ok {
					argName = ident.Name
				}
			}
			if typ == "context.Context" {
				if index != 0 {
					return nil, errors.New("context.Context must be the first parameter")
				}
				if ident == nil {
					argName = "ctx"
				}
				m.Context = argName
			}
			m.InputList = append(m.InputList, Argument{Name: argName, Type: typ})
			index++
		}
	}
	var results []string
	if ft.Results != nil {
		for _, res := range ft.Results.List {
			n := len(res.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, types.ExprString(res.Type))
			}
		}
	}
	switch {
	case len(results) == 1 && results[0] == "error":
	case len(results) == 2 && results[1] == "error":
		m.Result = results[0]
	default:
		return nil, errors.New("methods must return error or (R, error)")
	}
	if err := annotation.Validate(len(m.args())); err != nil {
		return nil, err
	}
	m.Style = annotation.Style
	m.Positions = annotation.Positions
	m.Names = annotation.Names
	return m, nil
}

// collectPackages 记录方法签名中引用的包名
func collectPackages(ft *ast.FuncType, used map[string]struct{}) {
	ast.Inspect(ft, func(node ast.Node) bool {
		if sel, ok := node.(*ast.SelectorExpr); ok {
			if ident, ok := sel.X.(*ast.Ident); ok {
				used[ident.Name] = struct{}{}
			}
		}
		return true
	})
}

// addImports 把used中的包名按照声明文件的导入解析为导入路径
func addImports(paths map[string]Import, file *ast.File, used map[string]struct{}) {
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := Import{Path: path}
		name := path[strings.LastIndex(path, "/")+1:]
		if spec.Name != nil {
			imp.Name = spec.Name.Name
			name = spec.Name.Name
		}
		if _, ok := used[name]; ok {
			paths[path] = imp
		}
	}
}

// sortImports 标准库在前, 其它的包在后, 组内按照路径排序
func sortImports(paths map[string]Import) []Import {
	list := make([]Import, 0, len(paths))
	for _, imp := range paths {
		list = append(list, imp)
	}
	sort.Slice(list, func(i, j int) bool {
		si, sj := isStd(list[i].Path), isStd(list[j].Path)
		if si != sj {
			return si
		}
		return list[i].Path < list[j].Path
	})
	return list
}

func isStd(path string) bool {
	return !strings.Contains(strings.SplitN(path, "/", 2)[0], ".")
}

// Render 执行模板并格式化生成的代码
func Render(file *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := proxyTemplate.Execute(&buf, file); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("pxtor: format generated code: %w", err)
	}
	return src, nil
}
